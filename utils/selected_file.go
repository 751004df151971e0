package utils

import "github.com/Aashish23092/qr-document-portal/dto"

// NewSelectedFile wraps an uploaded payload. The PDF page count is a hint
// and stays zero when the payload cannot be read as a PDF.
func NewSelectedFile(name string, data []byte, declaredType string) dto.SelectedFile {
	f := dto.SelectedFile{
		Name:     name,
		Data:     data,
		MIMEType: MimeTypeOrInfer(declaredType, name),
		Size:     int64(len(data)),
	}
	if f.MIMEType == "application/pdf" {
		if pages, err := PDFPageCount(data); err == nil {
			f.Pages = pages
		}
	}
	return f
}
