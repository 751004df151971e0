package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/qr-document-portal/client"
	"github.com/Aashish23092/qr-document-portal/dto"
	"github.com/Aashish23092/qr-document-portal/service"
	"github.com/Aashish23092/qr-document-portal/utils/employeeid"
)

const sessionCookie = "qrdocs_session"

var templateFuncs = template.FuncMap{
	"employeeID": employeeid.ParseEmployeeID,
	"phaseLabel": phaseLabel,
	"acceptAttr": acceptAttr,
	"dataURI":    dataURI,
}

// page is the data shared by every templated page.
type page struct {
	Title   string
	Active  string
	Flash   []service.Notification
	Refresh bool
}

func phaseLabel(p dto.Phase) string {
	switch p {
	case dto.PhaseScanning:
		return "Scanning for QR code..."
	case dto.PhaseSubmitting:
		return "Embedding QR code..."
	case dto.PhaseComplete:
		return "Done"
	case dto.PhaseFailed:
		return "Failed"
	}
	return ""
}

// dataURI marks an inline PNG as safe for an img src. Anything else is
// dropped.
func dataURI(s string) template.URL {
	if strings.HasPrefix(s, "data:image/png;base64,") {
		return template.URL(s)
	}
	return ""
}

// acceptAttr turns a "*.{a,b}" pattern into an input accept list.
func acceptAttr(pattern string) string {
	start, end := strings.Index(pattern, "{"), strings.LastIndex(pattern, "}")
	if start < 0 || end < start {
		return strings.TrimPrefix(pattern, "*")
	}
	exts := strings.Split(pattern[start+1:end], ",")
	for i, e := range exts {
		exts[i] = "." + strings.TrimSpace(e)
	}
	return strings.Join(exts, ",")
}

// session resolves the caller's session from its cookie, creating one if
// needed.
func session(c *gin.Context, store *service.SessionStore) *service.Session {
	id, _ := c.Cookie(sessionCookie)
	sess, created := store.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	}
	return sess
}

// sendError sends a structured error response
func sendError(c *gin.Context, logger *slog.Logger, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		logger.Warn(message, "error", err, "path", c.FullPath())
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// statusFor maps workflow errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBusy), errors.Is(err, service.ErrActionUnavailable):
		return http.StatusConflict
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case client.IsTransport(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
