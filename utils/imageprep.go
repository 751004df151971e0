package utils

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// FitImage downscales an encoded image so that neither side exceeds maxPx.
// Images already within bounds are returned untouched, as are images the
// decoder cannot read. The returned MIME type matches the returned bytes.
func FitImage(data []byte, filename, mimeType string, maxPx int) ([]byte, string, error) {
	if maxPx <= 0 || len(data) == 0 {
		return data, mimeType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, mimeType, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= maxPx && b.Dy() <= maxPx {
		return data, mimeType, nil
	}

	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		format = imaging.JPEG
	}
	if format != imaging.PNG {
		format = imaging.JPEG
	}

	resized := imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return data, mimeType, fmt.Errorf("encode image: %w", err)
	}

	if format == imaging.PNG {
		return buf.Bytes(), "image/png", nil
	}
	return buf.Bytes(), "image/jpeg", nil
}
