package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"studyhub/internal/model"
	"studyhub/internal/storage"
	"studyhub/internal/store"
)

var (
	ErrReaderNil    = errors.New("reader is nil")
	ErrNameRequired = errors.New("file name is required")
	ErrNoStorage    = errors.New("object storage is not configured")
)

// fileURLExpiry bounds how long a presigned download link stays valid.
const fileURLExpiry = 15 * time.Minute

// UploadRequest carries one incoming file plus its catalog fields. Title is
// optional; an empty one is derived from the file name.
type UploadRequest struct {
	FileName    string
	Title       string
	Course      string
	Professor   string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadService is the use-case layer over document intake: it derives the
// catalog fields a raw file doesn't carry, stores the bytes, and records the
// metadata.
type UploadService interface {
	// Upload records the metadata, then stores the bytes under the new
	// document's object key. A failed byte upload keeps the metadata; the
	// object key is deterministic, so retrying the same file repairs it.
	Upload(ctx context.Context, req UploadRequest) (*model.Document, error)

	// UploadToFolder stores a batch of files as members of an existing
	// folder. Returns store.ErrNotFound when the folder does not exist;
	// nothing is written in that case.
	UploadToFolder(ctx context.Context, folderID string, reqs []UploadRequest) ([]model.Document, error)

	// FileURL returns a short-lived presigned URL for a document's stored
	// bytes. ErrNoStorage when running metadata-only, store.ErrNotFound when
	// the document does not exist.
	FileURL(ctx context.Context, documentID string) (string, error)
}

type uploadService struct {
	store   store.Store
	objects storage.ObjectStore // nil when running metadata-only
}

// NewUploadService constructs an UploadService. objects may be nil; then only
// metadata is recorded.
func NewUploadService(st store.Store, objects storage.ObjectStore) UploadService {
	return &uploadService{store: st, objects: objects}
}

func newDocument(req UploadRequest) (store.NewDocument, error) {
	if req.FileName == "" {
		return store.NewDocument{}, ErrNameRequired
	}
	title := req.Title
	if title == "" {
		title = model.TitleFromName(req.FileName)
	}
	return store.NewDocument{
		Title:     title,
		Course:    req.Course,
		Professor: req.Professor,
		FileType:  model.FileTypeFromName(req.FileName),
		FileName:  req.FileName,
	}, nil
}

func (s *uploadService) Upload(ctx context.Context, req UploadRequest) (*model.Document, error) {
	nd, err := newDocument(req)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.AddDocument(ctx, nd)
	if err != nil {
		return nil, err
	}

	if s.objects != nil {
		if req.Content == nil {
			return nil, ErrReaderNil
		}
		key := storage.ObjectKey(doc.ID, doc.FileName)
		_, err := s.objects.Put(ctx, key, req.Content, storage.PutOptions{
			Size:        req.Size,
			ContentType: req.ContentType,
			Metadata:    map[string]string{"original-filename": req.FileName},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
	}
	return doc, nil
}

func (s *uploadService) FileURL(ctx context.Context, documentID string) (string, error) {
	if s.objects == nil {
		return "", ErrNoStorage
	}
	docs, err := s.store.GetDocuments(ctx)
	if err != nil {
		return "", err
	}
	for _, d := range docs {
		if d.ID == documentID {
			return s.objects.PresignGet(ctx, storage.ObjectKey(d.ID, d.FileName), fileURLExpiry)
		}
	}
	return "", store.ErrNotFound
}

func (s *uploadService) UploadToFolder(ctx context.Context, folderID string, reqs []UploadRequest) ([]model.Document, error) {
	nds := make([]store.NewDocument, len(reqs))
	for i, req := range reqs {
		nd, err := newDocument(req)
		if err != nil {
			return nil, err
		}
		nds[i] = nd
	}

	docs, err := s.store.AddDocumentsToFolder(ctx, folderID, nds)
	if err != nil {
		return nil, err
	}

	if s.objects != nil {
		for i, doc := range docs {
			if reqs[i].Content == nil {
				continue
			}
			key := storage.ObjectKey(doc.ID, doc.FileName)
			_, err := s.objects.Put(ctx, key, reqs[i].Content, storage.PutOptions{
				Size:        reqs[i].Size,
				ContentType: reqs[i].ContentType,
				Metadata:    map[string]string{"original-filename": doc.FileName},
			})
			if err != nil {
				return nil, fmt.Errorf("upload %q to storage: %w", doc.FileName, err)
			}
		}
	}
	return docs, nil
}
