package dto

import "errors"

var (
	ErrNoFilesSelected = errors.New("please select a file first")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ScanResponse is returned by the document service's scan operation. An
// empty QRData is a valid outcome meaning no QR code was detected.
type ScanResponse struct {
	QRData  string `json:"qrdata,omitempty"`
	Message string `json:"message,omitempty"`
}

// BulkAddResponse lists the QR-embedded files. Older deployments name the
// bundle "zip", newer ones "archive".
type BulkAddResponse struct {
	Files   []string `json:"files"`
	Zip     string   `json:"zip,omitempty"`
	Archive string   `json:"archive,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ArchiveName returns the bundle identifier, if any.
func (r BulkAddResponse) ArchiveName() string {
	if r.Archive != "" {
		return r.Archive
	}
	return r.Zip
}

// VerifyResponse is returned by the verify operation. Both the
// success/employee and found/record spellings are accepted.
type VerifyResponse struct {
	Success  bool                `json:"success"`
	Found    bool                `json:"found"`
	Employee *VerificationRecord `json:"employee,omitempty"`
	Record   *VerificationRecord `json:"record,omitempty"`
	Message  string              `json:"message,omitempty"`
}

// Result returns the verification record, or nil when the service reports
// no match.
func (r VerifyResponse) Result() *VerificationRecord {
	if !r.Success && !r.Found {
		return nil
	}
	if r.Employee != nil {
		return r.Employee
	}
	return r.Record
}
