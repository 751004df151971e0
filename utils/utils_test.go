package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "Jan 1, 2024", DisplayDate("2024-01-01"))
	assert.Equal(t, "Mar 5, 2023", DisplayDate("2023-03-05T10:00:00.000Z"))
	assert.Equal(t, "Feb 1, 2022", DisplayDate("01/02/2022"))
	assert.Equal(t, "someday", DisplayDate("someday"))
}

func TestHasAcceptedExtension(t *testing.T) {
	assert.True(t, HasAcceptedExtension(AcceptedDocumentPattern, "Offer Letter.PDF"))
	assert.True(t, HasAcceptedExtension(AcceptedDocumentPattern, "scan.jpeg"))
	assert.True(t, HasAcceptedExtension(AcceptedDocumentPattern, "contract.docx"))
	assert.False(t, HasAcceptedExtension(AcceptedDocumentPattern, "notes.txt"))
	assert.False(t, HasAcceptedExtension(AcceptedImagePattern, "photo.pdf"))
}

func TestMimeTypeOrInfer(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeTypeOrInfer("", "a.pdf"))
	assert.Equal(t, "image/png", MimeTypeOrInfer("application/octet-stream", "a.png"))
	assert.Equal(t, "image/jpeg", MimeTypeOrInfer("image/jpeg", "a.bin"))
	assert.Equal(t, "application/octet-stream", MimeTypeOrInfer("", "a.bin"))
}

func TestQRCodePNGRoundTrip(t *testing.T) {
	data, err := QRCodePNG("https://portal.example.com/verify/EMP-42", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.com/verify/EMP-42", result.GetText())
}

func TestQRCodeDataURI(t *testing.T) {
	uri, err := QRCodeDataURI("EMP-42", 128)
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestFitImageDownscales(t *testing.T) {
	src := solidPNG(t, 1200, 600)

	out, mime, err := FitImage(src, "photo.png", "image/png", 300)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestFitImageKeepsSmallImages(t *testing.T) {
	src := solidPNG(t, 100, 80)

	out, mime, err := FitImage(src, "photo.png", "image/png", 300)
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Equal(t, "image/png", mime)
}

func TestFitImagePassesThroughUndecodable(t *testing.T) {
	src := []byte("not an image")

	out, mime, err := FitImage(src, "photo.heic", "image/heic", 300)
	assert.Error(t, err)
	assert.Equal(t, src, out)
	assert.Equal(t, "image/heic", mime)
}

func TestPDFPageCountRejectsGarbage(t *testing.T) {
	_, err := PDFPageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestNewSelectedFile(t *testing.T) {
	f := NewSelectedFile("scan.png", []byte{1, 2, 3}, "")
	assert.Equal(t, "image/png", f.MIMEType)
	assert.Equal(t, int64(3), f.Size)
	assert.Zero(t, f.Pages)

	f = NewSelectedFile("letter.pdf", []byte("%PDF-1.4 broken"), "application/octet-stream")
	assert.Equal(t, "application/pdf", f.MIMEType)
	assert.Zero(t, f.Pages)
}
