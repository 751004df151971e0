package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/qr-document-portal/dto"
	"github.com/Aashish23092/qr-document-portal/service"
	"github.com/Aashish23092/qr-document-portal/utils"
)

// settleWait is how long a POST waits for its document-service call before
// falling back to the auto-refreshing pending page.
const settleWait = 2 * time.Second

type UploadHandler struct {
	sessions *service.SessionStore
	logger   *slog.Logger
}

func NewUploadHandler(sessions *service.SessionStore, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		sessions: sessions,
		logger:   logger.With("component", "upload-handler"),
	}
}

type uploaderPage struct {
	page
	Session         dto.UploadSession
	Form            service.FormValues
	FormMounted     bool
	CanRetry        bool
	DocumentPattern string
	ImagePattern    string
	Fields          map[string]string
}

// Index renders the scan/add page.
func (h *UploadHandler) Index(c *gin.Context) {
	sess := session(c, h.sessions)
	ctrl := sess.Controller
	snap := ctrl.Snapshot()
	form, mounted := ctrl.FormValues()

	data := uploaderPage{
		page: page{
			Title:   "Scan / Add QR",
			Active:  "/",
			Flash:   sess.Flash.Drain(),
			Refresh: snap.Phase.Pending(),
		},
		Session:         snap,
		Form:            form,
		FormMounted:     mounted,
		CanRetry:        snap.Phase == dto.PhaseFailed && ctrl.HasDraft(),
		DocumentPattern: utils.AcceptedDocumentPattern,
		ImagePattern:    utils.AcceptedImagePattern,
		Fields: map[string]string{
			"Name":          service.FieldName,
			"Department":    service.FieldDepartment,
			"Designation":   service.FieldDesignation,
			"DateOfJoining": service.FieldDateOfJoining,
			"IssuedBy":      service.FieldIssuedBy,
			"Image":         service.FieldImage,
		},
	}
	c.HTML(http.StatusOK, "uploader.html", data)
}

// SessionJSON returns the caller's workflow state.
func (h *UploadHandler) SessionJSON(c *gin.Context) {
	sess := session(c, h.sessions)
	c.JSON(http.StatusOK, gin.H{
		"session": sess.Controller.Snapshot(),
		"busy":    sess.Controller.Busy(),
	})
}

// SelectFiles replaces the selection with the uploaded files.
func (h *UploadHandler) SelectFiles(c *gin.Context) {
	sess := session(c, h.sessions)

	var req dto.FileSelectionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, sess, bindStatus(err), "Failed to parse multipart form", err)
		return
	}

	files := make([]dto.SelectedFile, 0, len(req.Files))
	for _, fh := range req.Files {
		f, err := readSelectedFile(fh)
		if err != nil {
			h.fail(c, sess, http.StatusBadRequest, "Failed to read uploaded file", err)
			return
		}
		if !utils.HasAcceptedExtension(utils.AcceptedDocumentPattern, f.Name) {
			sess.Flash.Notify(service.NotifyInfo, fmt.Sprintf("%s may not be a supported document type.", f.Name))
		}
		files = append(files, f)
	}

	sess.Controller.SelectFiles(files)
	h.done(c, sess)
}

func (h *UploadHandler) ChooseMode(c *gin.Context) {
	sess := session(c, h.sessions)

	var req dto.ModeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, sess, http.StatusBadRequest, "Invalid mode", err)
		return
	}
	sess.Controller.ChooseMode(dto.ParseMode(req.Mode))
	h.done(c, sess)
}

// Scan starts a QR scan of the first selected file.
func (h *UploadHandler) Scan(c *gin.Context) {
	sess := session(c, h.sessions)

	done, err := sess.Controller.StartScan(requestContext(c))
	if err != nil {
		h.fail(c, sess, statusFor(err), "Failed to start scan", err)
		return
	}
	settle(done)
	h.done(c, sess)
}

func (h *UploadHandler) BeginCapture(c *gin.Context) {
	sess := session(c, h.sessions)

	if _, err := sess.Controller.BeginEmployeeCapture(); err != nil {
		h.fail(c, sess, statusFor(err), "Employee details are not available", err)
		return
	}
	h.done(c, sess)
}

// SubmitEmployee fills the employee form from the request and submits it.
func (h *UploadHandler) SubmitEmployee(c *gin.Context) {
	sess := session(c, h.sessions)

	var req dto.EmployeeFormRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, sess, bindStatus(err), "Failed to parse employee form", err)
		return
	}

	var image *dto.SelectedFile
	if req.Image != nil {
		f, err := readSelectedFile(req.Image)
		if err != nil {
			h.fail(c, sess, http.StatusBadRequest, "Failed to read employee image", err)
			return
		}
		image = &f
	}

	done, err := sess.Controller.CaptureAndSubmit(requestContext(c), func(form *service.EmployeeForm) {
		form.SetName(req.Name)
		form.SetDepartment(req.Department)
		form.SetDesignation(req.Designation)
		form.SetDateOfJoining(req.DateOfJoining)
		form.SetIssuedBy(req.IssuedBy)
		// Keep an earlier photo when the browser sends none.
		if image != nil {
			form.SetImage(image.Name, image.Data, image.MIMEType)
		}
	})
	if err != nil {
		h.fail(c, sess, statusFor(err), "Failed to submit employee", err)
		return
	}
	settle(done)
	h.done(c, sess)
}

// Retry resubmits the last employee record after a failed bulk add.
func (h *UploadHandler) Retry(c *gin.Context) {
	sess := session(c, h.sessions)

	done, err := sess.Controller.Retry(requestContext(c))
	if err != nil {
		h.fail(c, sess, statusFor(err), "Nothing to retry", err)
		return
	}
	settle(done)
	h.done(c, sess)
}

func (h *UploadHandler) Reset(c *gin.Context) {
	sess := session(c, h.sessions)
	sess.Controller.Reset()
	h.done(c, sess)
}

// done answers a successful action: JSON clients get the new state,
// browsers are sent back to the page.
func (h *UploadHandler) done(c *gin.Context, sess *service.Session) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"session":       sess.Controller.Snapshot(),
			"notifications": sess.Flash.Drain(),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// fail reports a rejected action. Browsers see it as an error toast.
func (h *UploadHandler) fail(c *gin.Context, sess *service.Session, status int, message string, err error) {
	if wantsJSON(c) {
		sendError(c, h.logger, status, "WORKFLOW_ACTION_FAILED", message, err)
		return
	}
	h.logger.Info(message, "error", err)
	sess.Flash.Notify(service.NotifyError, err.Error())
	c.Redirect(http.StatusSeeOther, "/")
}

// LimitBody rejects uploads larger than max bytes. Declared sizes are
// refused up front; bodies without one are cut off while they are read.
func (h *UploadHandler) LimitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > max {
			h.fail(c, session(c, h.sessions), http.StatusRequestEntityTooLarge, "Upload too large", uploadTooLarge(max))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

func uploadTooLarge(max int64) error {
	return fmt.Errorf("upload exceeds the %d byte limit", max)
}

// requestContext detaches the document-service call from the request so
// that it outlives the redirect.
func requestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func bindStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func settle(done <-chan struct{}) {
	timer := time.NewTimer(settleWait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}
}

func readSelectedFile(fh *multipart.FileHeader) (dto.SelectedFile, error) {
	file, err := fh.Open()
	if err != nil {
		return dto.SelectedFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return dto.SelectedFile{}, err
	}

	return utils.NewSelectedFile(fh.Filename, data, fh.Header.Get("Content-Type")), nil
}
