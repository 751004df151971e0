package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Aashish23092/qr-document-portal/dto"
)

// DocumentService is the part of the document-processing service the
// upload workflow needs.
type DocumentService interface {
	Scan(ctx context.Context, file dto.SelectedFile) (*dto.ScanResponse, error)
	BulkAdd(ctx context.Context, files []dto.SelectedFile, rec dto.EmployeeRecord) (*dto.BulkAddResponse, error)
}

type ControllerDeps struct {
	Docs         DocumentService
	Notifier     Notifier
	Links        Links
	FormDefaults FormDefaults
	Metrics      *Metrics
	Logger       *slog.Logger
}

// ScanAddController drives one browser session through file selection, QR
// scanning, employee capture and bulk QR embedding.
//
// Network calls run on their own goroutine and never hold mu. At most one
// call is in flight per controller; results are applied only if the
// session generation they were issued under is still current.
type ScanAddController struct {
	docs     DocumentService
	notifier Notifier
	links    Links
	defaults FormDefaults
	metrics  *Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	session  dto.UploadSession
	busy     bool
	form     *EmployeeForm
	draft    *dto.EmployeeRecord
	lastSeen time.Time

	inflight sync.WaitGroup
}

func NewScanAddController(deps ControllerDeps) *ScanAddController {
	if deps.Notifier == nil {
		deps.Notifier = discardNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &ScanAddController{
		docs:     deps.Docs,
		notifier: deps.Notifier,
		links:    deps.Links,
		defaults: deps.FormDefaults,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With("component", "scan-add"),
		session:  dto.UploadSession{Phase: dto.PhaseIdle},
		lastSeen: time.Now(),
	}
}

// Snapshot returns a copy of the current session state.
func (c *ScanAddController) Snapshot() dto.UploadSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	s.Files = append([]dto.SelectedFile(nil), c.session.Files...)
	s.ResultFiles = append([]dto.ResultFile(nil), c.session.ResultFiles...)
	if c.session.QRMatch != nil {
		q := *c.session.QRMatch
		s.QRMatch = &q
	}
	return s
}

// Busy reports whether a request is in flight.
func (c *ScanAddController) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Form returns the mounted employee form, or nil.
func (c *ScanAddController) Form() *EmployeeForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// FormValues returns a copy of the mounted form, if any.
func (c *ScanAddController) FormValues() (FormValues, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return FormValues{}, false
	}
	return c.form.snapshot(), true
}

// HasDraft reports whether a captured record is held for retry.
func (c *ScanAddController) HasDraft() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft != nil
}

// LastSeen is the time of the last user action.
func (c *ScanAddController) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// SelectFiles replaces the selection and clears any earlier result. An
// empty selection simply clears.
func (c *ScanAddController) SelectFiles(files []dto.SelectedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	c.session = dto.UploadSession{
		Mode:       c.session.Mode,
		Files:      append([]dto.SelectedFile(nil), files...),
		Generation: c.session.Generation + 1,
	}
	c.form = nil
	c.draft = nil
	c.setPhase(dto.PhaseIdle)
	c.logger.Debug("files selected", "count", len(files), "generation", c.session.Generation)
}

// ChooseMode switches between scan and add. A completed no-QR scan stays
// valid when switching from scan to add on the same files; every other
// switch clears the result.
func (c *ScanAddController) ChooseMode(mode dto.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if mode == c.session.Mode {
		return
	}
	keep := mode == dto.ModeAdd &&
		c.session.Phase == dto.PhaseScanComplete &&
		c.session.NoQRFound && c.session.QRMatch == nil
	c.session.Mode = mode
	if keep {
		return
	}
	c.clearResultLocked()
	c.setPhase(dto.PhaseIdle)
}

// StartScan sends the first selected file to the scan operation. The
// returned channel closes once the result has been applied.
func (c *ScanAddController) StartScan(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.busy {
		return nil, ErrBusy
	}
	if len(c.session.Files) == 0 {
		return nil, &ValidationError{Reason: dto.ErrNoFilesSelected.Error()}
	}
	if c.session.Mode == dto.ModeNone {
		return nil, &ValidationError{Reason: "choose scan or add first"}
	}
	switch c.session.Phase {
	case dto.PhaseIdle, dto.PhaseScanComplete, dto.PhaseFailed:
	default:
		return nil, ErrActionUnavailable
	}

	prev := c.session.Phase
	gen := c.session.Generation
	file := c.session.Files[0]
	c.busy = true
	c.session.LastError = ""
	c.setPhase(dto.PhaseScanning)

	done := make(chan struct{})
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(done)
		resp, err := c.docs.Scan(ctx, file)
		c.finishScan(gen, prev, resp, err)
	}()
	return done, nil
}

func (c *ScanAddController) finishScan(gen uint64, prev dto.Phase, resp *dto.ScanResponse, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if gen != c.session.Generation {
		c.logger.Info("discarding stale scan result", "issued", gen, "current", c.session.Generation)
		return
	}

	if err != nil {
		c.logger.Warn("scan failed", "error", err)
		c.session.LastError = err.Error()
		c.setPhase(prev)
		c.notifier.Notify(NotifyError, err.Error())
		return
	}

	c.setPhase(dto.PhaseScanComplete)
	if resp != nil && resp.QRData != "" {
		q := resp.QRData
		c.session.QRMatch = &q
		c.session.NoQRFound = false
		c.form = nil
		c.draft = nil
		c.logger.Info("scan completed", "qr_found", true)
		c.notifier.Notify(NotifySuccess, "QR code found!")
		return
	}

	c.session.QRMatch = nil
	c.session.NoQRFound = true
	c.logger.Info("scan completed", "qr_found", false)
	c.notifier.Notify(NotifyInfo, "No QR code found in the file.")
	if c.session.Mode == dto.ModeAdd {
		c.beginCaptureLocked()
	}
}

// BeginEmployeeCapture mounts the employee form. It is only offered in add
// mode after a scan found no QR code.
func (c *ScanAddController) BeginEmployeeCapture() (*EmployeeForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.busy {
		return nil, ErrBusy
	}
	s := c.session
	if s.Mode != dto.ModeAdd || s.QRMatch != nil || !s.NoQRFound || len(s.Files) == 0 {
		return nil, ErrActionUnavailable
	}
	switch s.Phase {
	case dto.PhaseAwaitingEmployeeInput:
		return c.form, nil
	case dto.PhaseScanComplete, dto.PhaseFailed:
		return c.beginCaptureLocked(), nil
	}
	return nil, ErrActionUnavailable
}

func (c *ScanAddController) beginCaptureLocked() *EmployeeForm {
	c.form = NewEmployeeForm(c.defaults, c.logger)
	if c.draft != nil {
		c.form.Prefill(*c.draft)
	}
	c.setPhase(dto.PhaseAwaitingEmployeeInput)
	return c.form
}

// CaptureAndSubmit fills the mounted form, captures it and submits the
// record. Nothing is sent while a mandatory field is missing.
func (c *ScanAddController) CaptureAndSubmit(ctx context.Context, fill func(*EmployeeForm)) (<-chan struct{}, error) {
	c.mu.Lock()
	form := c.form
	if form == nil || c.session.Phase != dto.PhaseAwaitingEmployeeInput {
		c.mu.Unlock()
		return nil, ErrActionUnavailable
	}
	fill(form)
	var rec *dto.EmployeeRecord
	err := form.Capture(func(r dto.EmployeeRecord) { rec = &r })
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.SubmitEmployeeAndEmbed(ctx, *rec)
}

// SubmitEmployeeAndEmbed sends every selected file plus rec to the bulk-add
// operation. It is reachable only after a scan found no QR code; earlier
// attempts return ErrActionUnavailable without any network call.
func (c *ScanAddController) SubmitEmployeeAndEmbed(ctx context.Context, rec dto.EmployeeRecord) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.busy {
		return nil, ErrBusy
	}
	if len(c.session.Files) == 0 {
		return nil, &ValidationError{Reason: dto.ErrNoFilesSelected.Error()}
	}
	s := c.session
	reachable := s.Phase == dto.PhaseAwaitingEmployeeInput || (s.Phase == dto.PhaseFailed && c.draft != nil)
	if !reachable || s.Mode != dto.ModeAdd || !s.NoQRFound || s.QRMatch != nil {
		return nil, ErrActionUnavailable
	}
	if missing := missingFromRecord(rec); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	c.draft = &rec
	gen := c.session.Generation
	files := append([]dto.SelectedFile(nil), c.session.Files...)
	c.busy = true
	c.session.LastError = ""
	c.setPhase(dto.PhaseSubmitting)

	done := make(chan struct{})
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(done)
		resp, err := c.docs.BulkAdd(ctx, files, rec)
		c.finishSubmit(gen, resp, err)
	}()
	return done, nil
}

// Retry resubmits the record preserved from a failed submission.
func (c *ScanAddController) Retry(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()
	if draft == nil {
		return nil, ErrActionUnavailable
	}
	return c.SubmitEmployeeAndEmbed(ctx, *draft)
}

func (c *ScanAddController) finishSubmit(gen uint64, resp *dto.BulkAddResponse, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if gen != c.session.Generation {
		c.logger.Info("discarding stale bulk-add result", "issued", gen, "current", c.session.Generation)
		return
	}

	if err != nil {
		c.logger.Warn("bulk add failed", "error", err, "files", len(c.session.Files))
		c.session.LastError = err.Error()
		c.setPhase(dto.PhaseFailed)
		c.notifier.Notify(NotifyError, err.Error())
		return
	}

	if resp == nil {
		resp = &dto.BulkAddResponse{}
	}
	results := make([]dto.ResultFile, 0, len(resp.Files))
	for _, name := range resp.Files {
		results = append(results, dto.ResultFile{Name: name, DownloadRef: c.links.Upload(name)})
	}
	c.session.ResultFiles = results
	if archive := resp.ArchiveName(); archive != "" {
		c.session.ArchiveRef = c.links.Download(archive)
	}
	// The payloads are no longer needed once the service has them.
	for i := range c.session.Files {
		c.session.Files[i].Data = nil
	}
	c.form = nil
	c.draft = nil
	c.setPhase(dto.PhaseComplete)
	c.logger.Info("qr embedded", "files", len(results), "archive", c.session.ArchiveRef != "")
	c.notifier.Notify(NotifySuccess, "QR added to all files!")
}

// Reset returns the session to its initial empty state.
func (c *ScanAddController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	c.session = dto.UploadSession{Generation: c.session.Generation + 1}
	c.form = nil
	c.draft = nil
	c.setPhase(dto.PhaseIdle)
}

// Wait blocks until every in-flight request has been applied or discarded.
func (c *ScanAddController) Wait() {
	c.inflight.Wait()
}

func (c *ScanAddController) clearResultLocked() {
	c.session.QRMatch = nil
	c.session.NoQRFound = false
	c.session.ResultFiles = nil
	c.session.ArchiveRef = ""
	c.session.LastError = ""
	c.session.Generation++
	c.form = nil
	c.draft = nil
}

func (c *ScanAddController) setPhase(p dto.Phase) {
	c.session.Phase = p
	c.metrics.ObserveTransition(p)
}

func (c *ScanAddController) touch() {
	c.lastSeen = time.Now()
}
