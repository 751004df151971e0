package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aashish23092/qr-document-portal/dto"
	"github.com/Aashish23092/qr-document-portal/utils"
)

// Form field names, shared with the HTML form and the service payload.
const (
	FieldName          = "Name"
	FieldDepartment    = "Department"
	FieldDesignation   = "Designation"
	FieldDateOfJoining = "date_of_joining"
	FieldIssuedBy      = "issuedby"
	FieldImage         = "image"
)

var mandatoryFields = []string{FieldName, FieldDepartment, FieldDesignation, FieldDateOfJoining}

// FormDefaults configures a freshly mounted EmployeeForm.
type FormDefaults struct {
	IssuedBy   string
	ImageMaxPx int
}

// EmployeeForm captures employee attributes for the bulk-add call. It does
// no network I/O; the controller submits what Capture hands back.
type EmployeeForm struct {
	defaults FormDefaults
	values   map[string]string
	image    dto.EmployeeImage
	logger   *slog.Logger
}

func NewEmployeeForm(defaults FormDefaults, logger *slog.Logger) *EmployeeForm {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeForm{
		defaults: defaults,
		values: map[string]string{
			FieldIssuedBy: defaults.IssuedBy,
		},
		logger: logger,
	}
}

// Set stores a text field value.
func (f *EmployeeForm) Set(field, value string) error {
	switch field {
	case FieldName, FieldDepartment, FieldDesignation, FieldDateOfJoining, FieldIssuedBy:
		f.values[field] = value
		return nil
	}
	return fmt.Errorf("unknown employee form field %q", field)
}

func (f *EmployeeForm) SetName(v string) { f.values[FieldName] = v }
func (f *EmployeeForm) SetDepartment(v string) { f.values[FieldDepartment] = v }
func (f *EmployeeForm) SetDesignation(v string) { f.values[FieldDesignation] = v }
func (f *EmployeeForm) SetDateOfJoining(v string) { f.values[FieldDateOfJoining] = v }
func (f *EmployeeForm) SetIssuedBy(v string) { f.values[FieldIssuedBy] = v }

func (f *EmployeeForm) Value(field string) string {
	return f.values[field]
}

// SetImage attaches the employee photo. An empty payload clears it.
func (f *EmployeeForm) SetImage(name string, data []byte, mimeType string) {
	if len(data) == 0 {
		f.image = dto.EmployeeImage{}
		return
	}
	f.image = dto.EmployeeImage{
		Name:     name,
		Data:     data,
		MIMEType: utils.MimeTypeOrInfer(mimeType, name),
	}
}

func (f *EmployeeForm) HasImage() bool {
	return len(f.image.Data) > 0
}

func (f *EmployeeForm) ImageName() string {
	return f.image.Name
}

// Prefill copies a previously captured record back into the form so a
// failed submission can be retried without retyping.
func (f *EmployeeForm) Prefill(rec dto.EmployeeRecord) {
	f.values[FieldName] = rec.Name
	f.values[FieldDepartment] = rec.Department
	f.values[FieldDesignation] = rec.Designation
	f.values[FieldDateOfJoining] = rec.DateOfJoining
	f.values[FieldIssuedBy] = rec.IssuedBy
	f.image = rec.Image
}

// Missing lists the mandatory fields that are still empty.
func (f *EmployeeForm) Missing() []string {
	var missing []string
	for _, field := range mandatoryFields {
		if strings.TrimSpace(f.values[field]) == "" {
			missing = append(missing, field)
		}
	}
	if !f.HasImage() {
		missing = append(missing, FieldImage)
	}
	return missing
}

// Capture hands the completed record to onComplete. Nothing is delivered
// while a mandatory field is empty.
func (f *EmployeeForm) Capture(onComplete func(dto.EmployeeRecord)) error {
	if missing := f.Missing(); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	issuedBy := strings.TrimSpace(f.values[FieldIssuedBy])
	if issuedBy == "" {
		issuedBy = f.defaults.IssuedBy
	}

	image := f.image
	data, mimeType, err := utils.FitImage(image.Data, image.Name, image.MIMEType, f.defaults.ImageMaxPx)
	if err != nil {
		f.logger.Debug("employee image left as uploaded", "image", image.Name, "error", err)
	}
	image.Data, image.MIMEType = data, mimeType

	onComplete(dto.EmployeeRecord{
		Name:          strings.TrimSpace(f.values[FieldName]),
		Department:    strings.TrimSpace(f.values[FieldDepartment]),
		Designation:   strings.TrimSpace(f.values[FieldDesignation]),
		DateOfJoining: strings.TrimSpace(f.values[FieldDateOfJoining]),
		IssuedBy:      issuedBy,
		Image:         image,
	})
	return nil
}

// missingFromRecord applies the same presence rules to an already captured
// record.
func missingFromRecord(rec dto.EmployeeRecord) []string {
	values := map[string]string{
		FieldName:          rec.Name,
		FieldDepartment:    rec.Department,
		FieldDesignation:   rec.Designation,
		FieldDateOfJoining: rec.DateOfJoining,
	}
	var missing []string
	for _, field := range mandatoryFields {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(rec.Image.Data) == 0 {
		missing = append(missing, FieldImage)
	}
	return missing
}

// FormValues is a copy of a form's contents for rendering.
type FormValues struct {
	Values    map[string]string
	ImageName string
}

func (v FormValues) Get(field string) string {
	return v.Values[field]
}

func (f *EmployeeForm) snapshot() FormValues {
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	return FormValues{Values: values, ImageName: f.image.Name}
}
