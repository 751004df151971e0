package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/qr-document-portal/service"
)

// EmployeeHandler serves the employee directory and the public
// verification certificate.
type EmployeeHandler struct {
	docs     DocumentService
	sessions *service.SessionStore
	links    service.Links
	org      service.Organization
	logger   *slog.Logger
}

func NewEmployeeHandler(docs DocumentService, sessions *service.SessionStore, links service.Links, org service.Organization, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		docs:     docs,
		sessions: sessions,
		links:    links,
		org:      org,
		logger:   logger,
	}
}

type listPage struct {
	page
	Directory service.DirectoryPage
}

func (h *EmployeeHandler) List(c *gin.Context) {
	sess := session(c, h.sessions)

	view := service.NewDirectoryView(h.docs, h.links, sess.Flash, h.logger)
	dir := view.Load(c.Request.Context())

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dir)
		return
	}
	c.HTML(http.StatusOK, "list.html", listPage{
		page: page{
			Title:  "Employee QR Document Records",
			Active: "/list",
			Flash:  sess.Flash.Drain(),
		},
		Directory: dir,
	})
}

type verifyPage struct {
	page
	Result service.VerifyPage
}

// Verify renders the certificate for an employee id. It has no header
// and needs no session.
func (h *EmployeeHandler) Verify(c *gin.Context) {
	id := strings.TrimSpace(c.Param("employeeId"))

	view := service.NewVerifyView(h.docs, h.links, h.org, h.logger)
	result := view.Load(c.Request.Context(), id)

	status := http.StatusOK
	if result.State == service.StateNotFound {
		status = http.StatusNotFound
	}
	if wantsJSON(c) {
		c.JSON(status, result)
		return
	}
	c.HTML(status, "verify.html", verifyPage{
		page:   page{Title: "Certificate of Verification"},
		Result: result,
	})
}
