package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Aashish23092/qr-document-portal/dto"
	"github.com/Aashish23092/qr-document-portal/utils"
)

type EmployeeVerifier interface {
	VerifyEmployee(ctx context.Context, employeeID string) (*dto.VerifyResponse, error)
}

// Organization is the issuer printed on certificates.
type Organization struct {
	Name      string
	VerifyURL string
}

// Certificate is a VerificationRecord prepared for display.
type Certificate struct {
	dto.VerificationRecord
	ImageURL  string
	JoinedOn  string
	IssuedOn  string
	VerifyURL string
	QRCodeURI string
	Issuer    Organization
}

type VerifyPage struct {
	State       ViewState
	EmployeeID  string
	Certificate *Certificate
}

const certificateQRSize = 160

// VerifyView renders the public certificate for one employee id. A miss
// and a failed lookup look the same to the visitor.
type VerifyView struct {
	verifier EmployeeVerifier
	links    Links
	org      Organization
	logger   *slog.Logger

	mu   sync.Mutex
	id   string
	gen  uint64
	page VerifyPage
}

func NewVerifyView(verifier EmployeeVerifier, links Links, org Organization, logger *slog.Logger) *VerifyView {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifyView{
		verifier: verifier,
		links:    links,
		org:      org,
		logger:   logger.With("component", "verify"),
		page:     VerifyPage{State: StateLoading},
	}
}

func (v *VerifyView) Page() VerifyPage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Load looks up employeeID. Switching to another id resets the view to
// loading; a response for an id that is no longer current is dropped and
// the current page is returned instead.
func (v *VerifyView) Load(ctx context.Context, employeeID string) VerifyPage {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	if employeeID != v.id {
		v.id = employeeID
		v.page = VerifyPage{State: StateLoading, EmployeeID: employeeID}
	}
	v.mu.Unlock()

	page := v.fetch(ctx, employeeID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.logger.Debug("dropping stale verification", "employee_id", employeeID)
		return v.page
	}
	v.page = page
	return page
}

func (v *VerifyView) fetch(ctx context.Context, employeeID string) VerifyPage {
	notFound := VerifyPage{State: StateNotFound, EmployeeID: employeeID}

	resp, err := v.verifier.VerifyEmployee(ctx, employeeID)
	if err != nil {
		v.logger.Error("failed to fetch employee", "employee_id", employeeID, "error", err)
		return notFound
	}
	rec := resp.Result()
	if rec == nil {
		v.logger.Info("employee not found", "employee_id", employeeID)
		return notFound
	}

	cert := &Certificate{
		VerificationRecord: *rec,
		ImageURL:           v.links.Asset(rec.Image),
		JoinedOn:           utils.DisplayDate(rec.DateOfJoining),
		IssuedOn:           utils.DisplayDate(rec.IssuedDate),
		VerifyURL:          v.links.Verify(employeeID),
		Issuer:             v.org,
	}
	if cert.EmployeeID == "" {
		cert.EmployeeID = employeeID
	}
	qr, err := utils.QRCodeDataURI(cert.VerifyURL, certificateQRSize)
	if err != nil {
		v.logger.Warn("certificate rendered without QR code", "employee_id", employeeID, "error", err)
	}
	cert.QRCodeURI = qr
	return VerifyPage{State: StateFound, EmployeeID: employeeID, Certificate: cert}
}
