package store

// Package store defines the data-access contract over the entity collections
// and its two interchangeable backends: Local (key-value substrate) and
// Remote (REST client). Callers select a backend at startup via dependency
// injection and never notice which one they hold.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyhub/internal/analytics"
	"studyhub/internal/model"
)

// Collection keys. Change notifications carry these; the local backend also
// uses them as its kv keys.
const (
	KeyDocuments = "documents"
	KeyDownloads = "downloads"
	KeyComments  = "comments"
	KeyFolders   = "folders"
	KeyCoops     = "coops"
)

// ErrNotFound marks a referenced entity as absent. Lookups and targeted
// updates return it; deletes are idempotent and do not.
var ErrNotFound = errors.New("store: not found")

// TransportError reports a failed round trip to the remote backend. The
// caller must surface it; nothing in this layer retries.
type TransportError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewDocument carries the caller-supplied fields of a document; the backend
// assigns ID and initializes Downloads to 0. A zero UploadedAt means "now".
type NewDocument struct {
	Title      string
	Course     string
	Professor  string
	FileType   model.FileType
	FileName   string
	UploadedAt time.Time
}

// NewFolder carries the caller-supplied fields of a folder; the backend
// assigns ID and CreatedAt and initializes DocumentCount to 0.
type NewFolder struct {
	Name        string
	Description string
	Course      string
	Professor   string
}

// NewCoop carries the caller-supplied fields of a co-op entry.
type NewCoop struct {
	BrotherName string
	Company     string
	Position    string
	Semester    string
	Status      model.CoopStatus
	Notes       string
}

// CoopUpdate is a partial update; nil fields are left untouched.
type CoopUpdate struct {
	BrotherName *string
	Company     *string
	Position    *string
	Semester    *string
	Status      *model.CoopStatus
	Notes       *string
}

// Store is the data-access API over the entity collections. All "get many"
// operations return newest-first by creation order, except GetDownloadEvents
// which returns append order. Every successful mutation broadcasts a change
// notification carrying the mutated collection key(s).
type Store interface {
	// Documents.
	GetDocuments(ctx context.Context) ([]model.Document, error)
	AddDocument(ctx context.Context, doc NewDocument) (*model.Document, error)
	// IncrementDownload bumps the document's counter by one and appends one
	// DownloadEvent. An unknown id is a silent no-op, not an error.
	IncrementDownload(ctx context.Context, documentID string) error
	GetDownloadEvents(ctx context.Context) ([]model.DownloadEvent, error)

	// Folders.
	GetFolders(ctx context.Context) ([]model.Folder, error)
	GetFolder(ctx context.Context, folderID string) (*model.Folder, error)
	AddFolder(ctx context.Context, folder NewFolder) (*model.Folder, error)
	// DeleteFolder removes the folder and cascades to every document whose
	// FolderID matches. Unknown ids are idempotent no-ops.
	DeleteFolder(ctx context.Context, folderID string) error
	GetFolderDocuments(ctx context.Context, folderID string) ([]model.Document, error)
	// AddDocumentsToFolder batch-creates documents attached to the folder and
	// bumps its DocumentCount by the batch size. Unknown folder: ErrNotFound
	// with no writes at all.
	AddDocumentsToFolder(ctx context.Context, folderID string, docs []NewDocument) ([]model.Document, error)

	// Comments. documentID filters when non-empty.
	GetComments(ctx context.Context, documentID string) ([]model.Comment, error)
	AddComment(ctx context.Context, documentID, author, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error

	// Co-ops.
	GetCoops(ctx context.Context) ([]model.Coop, error)
	AddCoop(ctx context.Context, c NewCoop) (*model.Coop, error)
	UpdateCoop(ctx context.Context, coopID string, upd CoopUpdate) (*model.Coop, error)
	DeleteCoop(ctx context.Context, coopID string) error

	// Analytics is a pure read; nothing is cached between calls.
	GetAnalytics(ctx context.Context, tr analytics.TimeRange) (*analytics.Analytics, error)
}
