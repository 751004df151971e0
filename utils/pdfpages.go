package utils

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfcpuInit sync.Once

// PDFPageCount returns the number of pages in a PDF payload. Callers treat
// failures as "unknown"; the count is only shown next to the file name.
//
// pdfcpu is tried first. ledongthuc/pdf still reads some files pdfcpu's
// validator rejects.
func PDFPageCount(data []byte) (int, error) {
	pdfcpuInit.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err == nil {
		return n, nil
	}

	n, fallbackErr := readerPageCount(data)
	if fallbackErr != nil {
		return 0, fmt.Errorf("failed to count pdf pages: %v: %w", err, fallbackErr)
	}
	return n, nil
}

func readerPageCount(data []byte) (pages int, err error) {
	defer func() {
		// ledongthuc/pdf panics on some malformed xref tables.
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}
