package dto

type Mode string

const (
	ModeNone Mode = ""
	ModeScan Mode = "scan"
	ModeAdd  Mode = "add"
)

// ParseMode maps a form value onto a Mode; unknown values yield ModeNone.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeScan:
		return ModeScan
	case ModeAdd:
		return ModeAdd
	}
	return ModeNone
}

type Phase string

const (
	PhaseIdle                  Phase = "idle"
	PhaseScanning              Phase = "scanning"
	PhaseScanComplete          Phase = "scan_complete"
	PhaseAwaitingEmployeeInput Phase = "awaiting_employee_input"
	PhaseSubmitting            Phase = "submitting"
	PhaseComplete              Phase = "complete"
	PhaseFailed                Phase = "failed"
)

// Pending reports whether a request is in flight for this phase.
func (p Phase) Pending() bool {
	return p == PhaseScanning || p == PhaseSubmitting
}

type ResultFile struct {
	Name        string `json:"name"`
	DownloadRef string `json:"download_ref"`
}

// UploadSession is a snapshot of the scan/add workflow state.
type UploadSession struct {
	Mode        Mode           `json:"mode"`
	Files       []SelectedFile `json:"files"`
	Phase       Phase          `json:"phase"`
	QRMatch     *string        `json:"qr_match,omitempty"`
	NoQRFound   bool           `json:"no_qr_found"`
	ResultFiles []ResultFile   `json:"result_files"`
	ArchiveRef  string         `json:"archive_ref,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	Generation  uint64         `json:"generation"`
}

// CaptureOffered reports whether the employee-capture path can be entered
// from the current snapshot.
func (s UploadSession) CaptureOffered() bool {
	return s.NoQRFound && s.QRMatch == nil && len(s.Files) > 0 &&
		(s.Phase == PhaseScanComplete || s.Phase == PhaseFailed)
}
