package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Aashish23092/qr-document-portal/dto"
	"github.com/Aashish23092/qr-document-portal/utils"
)

type EmployeeDirectory interface {
	ListEmployees(ctx context.Context) ([]dto.DirectoryEntry, error)
}

type ViewState string

const (
	StateLoading   ViewState = "loading"
	StateEmpty     ViewState = "empty"
	StatePopulated ViewState = "populated"
	StateNotFound  ViewState = "not_found"
	StateFound     ViewState = "found"
)

// DirectoryItem is one employee as rendered by the directory page.
type DirectoryItem struct {
	dto.DirectoryEntry
	JoinedOn  string
	Documents []dto.ResultFile
}

type DirectoryPage struct {
	State ViewState
	Items []DirectoryItem
}

// DirectoryView lists processed employees in the order the service
// returns them. A failed fetch renders as an empty directory.
type DirectoryView struct {
	dir      EmployeeDirectory
	links    Links
	notifier Notifier
	logger   *slog.Logger

	mu   sync.Mutex
	page DirectoryPage
}

func NewDirectoryView(dir EmployeeDirectory, links Links, notifier Notifier, logger *slog.Logger) *DirectoryView {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryView{
		dir:      dir,
		links:    links,
		notifier: notifier,
		logger:   logger.With("component", "directory"),
		page:     DirectoryPage{State: StateLoading},
	}
}

// Page returns what the view currently shows.
func (v *DirectoryView) Page() DirectoryPage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Load fetches the directory once and returns the resulting page.
func (v *DirectoryView) Load(ctx context.Context) DirectoryPage {
	v.mu.Lock()
	v.page = DirectoryPage{State: StateLoading}
	v.mu.Unlock()

	entries, err := v.dir.ListEmployees(ctx)
	if err != nil {
		v.logger.Error("failed to fetch employees", "error", err)
		v.notifier.Notify(NotifyError, "Failed to load employees: "+err.Error())
		entries = nil
	}

	page := DirectoryPage{State: StateEmpty}
	if len(entries) > 0 {
		page.State = StatePopulated
		page.Items = make([]DirectoryItem, 0, len(entries))
		for _, e := range entries {
			page.Items = append(page.Items, v.item(e))
		}
	}

	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
	return page
}

func (v *DirectoryView) item(e dto.DirectoryEntry) DirectoryItem {
	docs := make([]dto.ResultFile, 0, len(e.Documents))
	for _, name := range e.Documents {
		docs = append(docs, dto.ResultFile{Name: name, DownloadRef: v.links.Upload(name)})
	}
	return DirectoryItem{
		DirectoryEntry: e,
		JoinedOn:       utils.DisplayDate(e.DateOfJoining),
		Documents:      docs,
	}
}
