package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/Aashish23092/qr-document-portal/dto"
)

const maxResponseBytes = 4 << 20

// CallObserver receives one observation per document-service call.
type CallObserver interface {
	ObserveCall(op, outcome string, elapsed time.Duration)
}

// DocumentClient talks to the document-processing service that detects and
// embeds QR codes and stores employee records.
type DocumentClient struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	observer CallObserver
}

// NewDocumentClient creates a client for the service rooted at baseURL. The
// timeout bounds each request at the transport level.
func NewDocumentClient(baseURL string, timeout time.Duration, logger *slog.Logger) *DocumentClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "document-client"),
	}
}

// WithObserver attaches a call observer (metrics).
func (c *DocumentClient) WithObserver(o CallObserver) *DocumentClient {
	c.observer = o
	return c
}

// Scan uploads a single file and reports the decoded QR payload, if any.
func (c *DocumentClient) Scan(ctx context.Context, file dto.SelectedFile) (*dto.ScanResponse, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	if err := writeFilePart(mw, "file", file.Name, file.MIMEType, file.Data); err != nil {
		return nil, &TransportError{Op: "scan", err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: "scan", err: err}
	}

	var resp dto.ScanResponse
	if _, err := c.do(ctx, "scan", http.MethodPost, c.endpoint("api", "upload"), mw.FormDataContentType(), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkAdd asks the service to embed a QR code for rec into every file.
func (c *DocumentClient) BulkAdd(ctx context.Context, files []dto.SelectedFile, rec dto.EmployeeRecord) (*dto.BulkAddResponse, error) {
	employee, err := dto.MarshalEmployee(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize employee record: %w", err)
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for _, f := range files {
		if err := writeFilePart(mw, "files", f.Name, f.MIMEType, f.Data); err != nil {
			return nil, &TransportError{Op: "bulk-add", err: err}
		}
	}
	if err := mw.WriteField("employee", employee); err != nil {
		return nil, &TransportError{Op: "bulk-add", err: err}
	}
	if len(rec.Image.Data) > 0 {
		if err := writeFilePart(mw, "image", rec.Image.Name, rec.Image.MIMEType, rec.Image.Data); err != nil {
			return nil, &TransportError{Op: "bulk-add", err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: "bulk-add", err: err}
	}

	var resp dto.BulkAddResponse
	if _, err := c.do(ctx, "bulk-add", http.MethodPost, c.endpoint("api", "addqrbulk"), mw.FormDataContentType(), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListEmployees returns every employee in the order the service returns them.
func (c *DocumentClient) ListEmployees(ctx context.Context) ([]dto.DirectoryEntry, error) {
	var entries []dto.DirectoryEntry
	if _, err := c.do(ctx, "list-employees", http.MethodGet, c.endpoint("api", "employees"), "", nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []dto.DirectoryEntry{}
	}
	return entries, nil
}

// VerifyEmployee looks up a single employee. A 404 is a valid "not found"
// answer, not an error.
func (c *DocumentClient) VerifyEmployee(ctx context.Context, employeeID string) (*dto.VerifyResponse, error) {
	var resp dto.VerifyResponse
	status, err := c.do(ctx, "verify-employee", http.MethodGet, c.endpoint("api", "verify", url.PathEscape(employeeID)), "", nil, &resp)
	if err != nil {
		if status == http.StatusNotFound {
			return &dto.VerifyResponse{}, nil
		}
		return nil, err
	}
	return &resp, nil
}

func (c *DocumentClient) endpoint(elems ...string) string {
	u, err := url.JoinPath(c.baseURL, elems...)
	if err != nil {
		return c.baseURL + "/" + strings.Join(elems, "/")
	}
	return u
}

// do issues one request and decodes a JSON body into out. It returns the
// HTTP status (0 if none was received).
func (c *DocumentClient) do(ctx context.Context, op, method, endpoint, contentType string, body io.Reader, out any) (status int, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		if c.observer != nil {
			c.observer.ObserveCall(op, outcome, time.Since(start))
		}
		c.logger.Debug("document service call", "op", op, "status", status, "elapsed", time.Since(start), "error", err)
	}()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, &TransportError{Op: op, err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(data),
			err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, err: fmt.Errorf("malformed response: %w", err)}
	}
	return resp.StatusCode, nil
}

// serverMessage extracts {"message": ...} or {"error": ...} from an error body.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, field, filename, mimeType string, data []byte) error {
	if filename == "" {
		return errors.New("file part without a name")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}
