package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRCodePNG encodes content as a square QR code PNG of size×size pixels.
func QRCodePNG(content string, size int) ([]byte, error) {
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_MARGIN: 1,
	}

	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, size, size, hints)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, matrix); err != nil {
		return nil, fmt.Errorf("failed to encode QR png: %w", err)
	}
	return buf.Bytes(), nil
}

// QRCodeDataURI returns the QR code as a data: URI for inline <img> tags.
func QRCodeDataURI(content string, size int) (string, error) {
	data, err := QRCodePNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
