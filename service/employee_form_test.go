package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/qr-document-portal/dto"
)

func TestEmployeeFormDefaults(t *testing.T) {
	f := NewEmployeeForm(FormDefaults{IssuedBy: "HR Manager"}, nil)
	assert.Equal(t, "HR Manager", f.Value(FieldIssuedBy))
	assert.Equal(t, []string{FieldName, FieldDepartment, FieldDesignation, FieldDateOfJoining, FieldImage}, f.Missing())
	assert.Error(t, f.Set("salary", "1"))
}

func TestEmployeeFormTypedSetters(t *testing.T) {
	f := NewEmployeeForm(FormDefaults{IssuedBy: "HR Manager"}, nil)
	f.SetName("Asha Rao")
	f.SetDepartment("Eng")
	f.SetDesignation("Dev")
	f.SetDateOfJoining("2024-01-15")
	f.SetIssuedBy("CTO")

	assert.Equal(t, "Asha Rao", f.Value(FieldName))
	assert.Equal(t, "Eng", f.Value(FieldDepartment))
	assert.Equal(t, "Dev", f.Value(FieldDesignation))
	assert.Equal(t, "2024-01-15", f.Value(FieldDateOfJoining))
	assert.Equal(t, "CTO", f.Value(FieldIssuedBy))
	assert.Equal(t, []string{FieldImage}, f.Missing())
}

func TestEmployeeFormCaptureRequiresEveryField(t *testing.T) {
	f := NewEmployeeForm(FormDefaults{IssuedBy: "HR Manager"}, nil)
	require.NoError(t, f.Set(FieldName, "Asha Rao"))
	require.NoError(t, f.Set(FieldDepartment, "   "))

	called := false
	err := f.Capture(func(dto.EmployeeRecord) { called = true })
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), FieldDepartment)
	assert.NotContains(t, err.Error(), FieldName+",")
}

func TestEmployeeFormCapture(t *testing.T) {
	f := NewEmployeeForm(FormDefaults{IssuedBy: "HR Manager", ImageMaxPx: 64}, nil)
	require.NoError(t, f.Set(FieldName, " Asha Rao "))
	require.NoError(t, f.Set(FieldDepartment, "Eng"))
	require.NoError(t, f.Set(FieldDesignation, "Dev"))
	require.NoError(t, f.Set(FieldDateOfJoining, "2024-01-15"))
	require.NoError(t, f.Set(FieldIssuedBy, ""))

	img := image.NewRGBA(image.Rect(0, 0, 256, 128))
	for x := 0; x < 256; x++ {
		img.Set(x, 10, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	f.SetImage("photo.png", buf.Bytes(), "")
	assert.True(t, f.HasImage())
	assert.Equal(t, "photo.png", f.ImageName())

	var got dto.EmployeeRecord
	require.NoError(t, f.Capture(func(r dto.EmployeeRecord) { got = r }))

	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "HR Manager", got.IssuedBy)
	assert.Equal(t, "image/png", got.Image.MIMEType)

	decoded, err := png.Decode(bytes.NewReader(got.Image.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestEmployeeFormPrefill(t *testing.T) {
	f := NewEmployeeForm(FormDefaults{IssuedBy: "HR Manager"}, nil)
	f.Prefill(completeRecord())
	assert.Empty(t, f.Missing())
	assert.Equal(t, "Eng", f.Value(FieldDepartment))

	f.SetImage("x.png", nil, "")
	assert.Equal(t, []string{FieldImage}, f.Missing())
}

func TestMissingFromRecord(t *testing.T) {
	assert.Empty(t, missingFromRecord(completeRecord()))
	assert.Equal(t, []string{FieldName, FieldDepartment, FieldDesignation, FieldDateOfJoining, FieldImage},
		missingFromRecord(dto.EmployeeRecord{}))
}
