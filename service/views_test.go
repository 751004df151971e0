package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/qr-document-portal/client"
	"github.com/Aashish23092/qr-document-portal/dto"
)

type fakeDirectory struct {
	entries []dto.DirectoryEntry
	err     error
	calls   int
}

func (f *fakeDirectory) ListEmployees(context.Context) ([]dto.DirectoryEntry, error) {
	f.calls++
	return f.entries, f.err
}

var testLinks = Links{PublicAPIURL: "http://api.test", PortalPublicURL: "http://portal.test"}

func TestDirectoryViewPopulated(t *testing.T) {
	dir := &fakeDirectory{entries: []dto.DirectoryEntry{
		{EmployeeID: "EMP-2", Name: "Zed", DateOfJoining: "2024-01-15T00:00:00.000Z", Documents: []string{"z_qr.pdf"}},
		{EmployeeID: "EMP-1", Name: "Amy", DateOfJoining: "not a date"},
	}}
	view := NewDirectoryView(dir, testLinks, nil, nil)
	assert.Equal(t, StateLoading, view.Page().State)

	page := view.Load(context.Background())
	require.Equal(t, StatePopulated, page.State)
	require.Len(t, page.Items, 2)

	// Server order, not sorted.
	assert.Equal(t, "EMP-2", page.Items[0].EmployeeID)
	assert.Equal(t, "Jan 15, 2024", page.Items[0].JoinedOn)
	assert.Equal(t, []dto.ResultFile{{Name: "z_qr.pdf", DownloadRef: "http://api.test/uploads/z_qr.pdf"}}, page.Items[0].Documents)

	assert.Equal(t, "not a date", page.Items[1].JoinedOn)
	assert.Empty(t, page.Items[1].Documents)
	assert.Equal(t, 1, dir.calls)

	assert.Equal(t, page, view.Load(context.Background()))
}

func TestDirectoryViewEmpty(t *testing.T) {
	view := NewDirectoryView(&fakeDirectory{}, testLinks, nil, nil)
	page := view.Load(context.Background())
	assert.Equal(t, StateEmpty, page.State)
	assert.Empty(t, page.Items)
}

func TestDirectoryViewFailureRendersEmpty(t *testing.T) {
	flash := &FlashQueue{}
	view := NewDirectoryView(&fakeDirectory{err: errors.New("dial tcp: refused")}, testLinks, flash, nil)

	page := view.Load(context.Background())
	assert.Equal(t, StateEmpty, page.State)

	notes := flash.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, NotifyError, notes[0].Kind)
}

type fakeVerifier struct {
	mu      sync.Mutex
	results map[string]*dto.VerifyResponse
	err     error
	calls   []string
	// hold blocks lookups of that id until released.
	hold    string
	release chan struct{}
}

func (f *fakeVerifier) VerifyEmployee(_ context.Context, id string) (*dto.VerifyResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	hold, release := f.hold, f.release
	f.mu.Unlock()
	if id == hold && release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[id]; ok {
		return r, nil
	}
	return &dto.VerifyResponse{}, nil
}

var testOrg = Organization{Name: "Dotlabs", VerifyURL: "https://dotlabs.com/verify"}

func jane() *dto.VerifyResponse {
	return &dto.VerifyResponse{Success: true, Employee: &dto.VerificationRecord{
		EmployeeID:    "EMP-42",
		Name:          "Jane Doe",
		Department:    "Eng",
		Designation:   "Dev",
		DateOfJoining: "2024-01-01",
		Image:         "uploads/images/jane.png",
		IssuedBy:      "HR Manager",
		IssuedDate:    "2024-06-01T10:00:00Z",
	}}
}

func TestVerifyViewFound(t *testing.T) {
	verifier := &fakeVerifier{results: map[string]*dto.VerifyResponse{"EMP-42": jane()}}
	view := NewVerifyView(verifier, testLinks, testOrg, nil)

	page := view.Load(context.Background(), "EMP-42")
	require.Equal(t, StateFound, page.State)
	cert := page.Certificate
	require.NotNil(t, cert)
	assert.Equal(t, "Jane Doe", cert.Name)
	assert.Equal(t, "http://api.test/uploads/images/jane.png", cert.ImageURL)
	assert.Equal(t, "Jan 1, 2024", cert.JoinedOn)
	assert.Equal(t, "Jun 1, 2024", cert.IssuedOn)
	assert.Equal(t, "http://portal.test/verify/EMP-42", cert.VerifyURL)
	assert.True(t, strings.HasPrefix(cert.QRCodeURI, "data:image/png;base64,"))
	assert.Equal(t, "Dotlabs", cert.Issuer.Name)
}

func TestVerifyViewFoundRecordSpelling(t *testing.T) {
	rec := jane().Employee
	verifier := &fakeVerifier{results: map[string]*dto.VerifyResponse{
		"EMP-42": {Found: true, Record: rec},
	}}
	view := NewVerifyView(verifier, testLinks, testOrg, nil)
	assert.Equal(t, StateFound, view.Load(context.Background(), "EMP-42").State)
}

// Scenario C.
func TestVerifyViewNotFound(t *testing.T) {
	verifier := &fakeVerifier{results: map[string]*dto.VerifyResponse{"EMP-999": {Found: false}}}
	view := NewVerifyView(verifier, testLinks, testOrg, nil)

	page := view.Load(context.Background(), "EMP-999")
	assert.Equal(t, StateNotFound, page.State)
	assert.Equal(t, "EMP-999", page.EmployeeID)
	assert.Nil(t, page.Certificate)
}

func TestVerifyViewErrorLooksLikeNotFound(t *testing.T) {
	verifier := &fakeVerifier{err: &client.TransportError{Op: "verify", StatusCode: 500, Message: "boom"}}
	view := NewVerifyView(verifier, testLinks, testOrg, nil)

	page := view.Load(context.Background(), "EMP-1")
	assert.Equal(t, StateNotFound, page.State)
	assert.Equal(t, "EMP-1", page.EmployeeID)
}

func TestVerifyViewIsIdempotent(t *testing.T) {
	verifier := &fakeVerifier{results: map[string]*dto.VerifyResponse{"EMP-42": jane()}}
	view := NewVerifyView(verifier, testLinks, testOrg, nil)

	first := view.Load(context.Background(), "EMP-42")
	second := view.Load(context.Background(), "EMP-42")
	assert.Equal(t, first, second)
	assert.Len(t, verifier.calls, 2)
}

func TestVerifyViewDropsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	verifier := &fakeVerifier{
		results: map[string]*dto.VerifyResponse{"EMP-42": jane()},
		hold:    "EMP-1",
		release: release,
	}
	view := NewVerifyView(verifier, testLinks, testOrg, nil)

	staleDone := make(chan VerifyPage)
	go func() { staleDone <- view.Load(context.Background(), "EMP-1") }()

	require.Eventually(t, func() bool {
		verifier.mu.Lock()
		defer verifier.mu.Unlock()
		return len(verifier.calls) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateLoading, view.Page().State)

	current := view.Load(context.Background(), "EMP-42")
	require.Equal(t, StateFound, current.State)

	close(release)
	stale := <-staleDone
	assert.Equal(t, "EMP-42", stale.EmployeeID)
	assert.Equal(t, StateFound, view.Page().State)
	assert.Equal(t, "EMP-42", view.Page().EmployeeID)
}
