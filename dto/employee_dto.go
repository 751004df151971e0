package dto

import "encoding/json"

// EmployeeImage is the photo attached to an employee record.
type EmployeeImage struct {
	Name     string
	Data     []byte
	MIMEType string
}

// EmployeeRecord is a completed employee form, handed to the bulk-add call.
// The JSON keys follow the document service's form field names.
type EmployeeRecord struct {
	Name          string        `json:"Name"`
	Department    string        `json:"Department"`
	Designation   string        `json:"Designation"`
	DateOfJoining string        `json:"date_of_joining"`
	IssuedBy      string        `json:"issuedby"`
	Image         EmployeeImage `json:"-"`
}

// MarshalEmployee serializes the record for the "employee" form field.
func MarshalEmployee(r EmployeeRecord) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type DirectoryEntry struct {
	EmployeeID    string   `json:"employeeId"`
	Name          string   `json:"name"`
	Department    string   `json:"department"`
	Designation   string   `json:"designation"`
	DateOfJoining string   `json:"dateOfJoining"`
	Documents     []string `json:"documents"`
}

type VerificationRecord struct {
	EmployeeID    string `json:"employeeId"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	DateOfJoining string `json:"dateOfJoining"`
	Image         string `json:"image"`
	IssuedBy      string `json:"issuedBy"`
	IssuedDate    string `json:"issuedDate"`
}
