package dto

import (
	"mime/multipart"
)

// SelectedFile is an in-memory handle to a user-chosen file.
type SelectedFile struct {
	Name     string `json:"name"`
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	// Pages is a best-effort PDF page count; zero when unknown.
	Pages int `json:"pages,omitempty"`
}

// FileSelectionRequest is the multipart body of POST /files.
type FileSelectionRequest struct {
	Files []*multipart.FileHeader `form:"files"`
}

// ModeRequest is the body of POST /mode.
type ModeRequest struct {
	Mode string `form:"mode"`
}

// EmployeeFormRequest carries the raw employee form fields. Presence is
// checked by the form itself, not by binding rules.
type EmployeeFormRequest struct {
	Name          string                `form:"Name"`
	Department    string                `form:"Department"`
	Designation   string                `form:"Designation"`
	DateOfJoining string                `form:"date_of_joining"`
	IssuedBy      string                `form:"issuedby"`
	Image         *multipart.FileHeader `form:"image"`
}
