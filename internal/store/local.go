package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studyhub/internal/analytics"
	"studyhub/internal/kv"
	"studyhub/internal/model"
	"studyhub/internal/notify"
)

// Local is the Store backend over a key-value substrate. Each collection is
// one JSON array under its key; every mutation is a full
// read-modify-write of the affected collection, serialized by a mutex within
// this process. Across processes the substrate stays last-write-wins; the
// only cross-process guarantee is the change notification that follows every
// successful write.
type Local struct {
	kv  kv.Store
	bus notify.Bus
	log *zap.Logger
	now func() time.Time

	mu sync.Mutex
}

// NewLocal creates a Local backend over the given substrate and bus.
func NewLocal(kvs kv.Store, bus notify.Bus, log *zap.Logger) *Local {
	return &Local{kv: kvs, bus: bus, log: log, now: time.Now}
}

var _ Store = (*Local)(nil)

// read loads a collection, recovering corrupt or missing data as an empty
// slice. Read failures never propagate; they surface as an empty result plus
// a logged diagnostic.
func read[T any](ctx context.Context, s *Local, key string) []T {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNoKey) {
			s.log.Error("read collection", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Error("corrupt collection, falling back to empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	return items
}

// write persists a collection and broadcasts the change. Write failures
// propagate to the caller; a failed notification is logged but does not fail
// the already-committed write.
func write[T any](ctx context.Context, s *Local, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, key); err != nil {
		s.log.Warn("change notification failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Documents

func (s *Local) GetDocuments(ctx context.Context) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return read[model.Document](ctx, s, KeyDocuments), nil
}

func (s *Local) AddDocument(ctx context.Context, nd NewDocument) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addDocument(ctx, nd, "")
}

func (s *Local) addDocument(ctx context.Context, nd NewDocument, folderID string) (*model.Document, error) {
	docs := read[model.Document](ctx, s, KeyDocuments)
	doc := s.newDocument(nd, folderID)
	docs = append([]model.Document{doc}, docs...)
	if err := write(ctx, s, KeyDocuments, docs); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Local) newDocument(nd NewDocument, folderID string) model.Document {
	uploadedAt := nd.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = s.now()
	}
	return model.Document{
		ID:         uuid.NewString(),
		Title:      nd.Title,
		Course:     nd.Course,
		Professor:  nd.Professor,
		FileType:   nd.FileType,
		FileName:   nd.FileName,
		UploadedAt: uploadedAt,
		Downloads:  0,
		FolderID:   folderID,
	}
}

func (s *Local) IncrementDownload(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := read[model.Document](ctx, s, KeyDocuments)
	idx := -1
	for i := range docs {
		if docs[i].ID == documentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Unknown id leaves every collection untouched.
		s.log.Debug("increment for unknown document", zap.String("document_id", documentID))
		return nil
	}

	docs[idx].Downloads++
	if err := write(ctx, s, KeyDocuments, docs); err != nil {
		return err
	}

	events := read[model.DownloadEvent](ctx, s, KeyDownloads)
	events = append(events, model.DownloadEvent{DocumentID: documentID, Timestamp: s.now()})
	return write(ctx, s, KeyDownloads, events)
}

func (s *Local) GetDownloadEvents(ctx context.Context) ([]model.DownloadEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return read[model.DownloadEvent](ctx, s, KeyDownloads), nil
}

// Folders

func (s *Local) GetFolders(ctx context.Context) ([]model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return read[model.Folder](ctx, s, KeyFolders), nil
}

func (s *Local) GetFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range read[model.Folder](ctx, s, KeyFolders) {
		if f.ID == folderID {
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Local) AddFolder(ctx context.Context, nf NewFolder) (*model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := read[model.Folder](ctx, s, KeyFolders)
	folder := model.Folder{
		ID:            uuid.NewString(),
		Name:          nf.Name,
		Description:   nf.Description,
		Course:        nf.Course,
		Professor:     nf.Professor,
		CreatedAt:     s.now(),
		DocumentCount: 0,
	}
	folders = append([]model.Folder{folder}, folders...)
	if err := write(ctx, s, KeyFolders, folders); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder removes member documents before the folder record, so an
// interruption between the two writes can leave a stale folder (repaired by
// Reconcile) but never silently orphaned documents.
func (s *Local) DeleteFolder(ctx context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := read[model.Document](ctx, s, KeyDocuments)
	kept := docs[:0]
	for _, d := range docs {
		if d.FolderID != folderID {
			kept = append(kept, d)
		}
	}
	if err := write(ctx, s, KeyDocuments, kept); err != nil {
		return err
	}

	folders := read[model.Folder](ctx, s, KeyFolders)
	keptFolders := folders[:0]
	for _, f := range folders {
		if f.ID != folderID {
			keptFolders = append(keptFolders, f)
		}
	}
	return write(ctx, s, KeyFolders, keptFolders)
}

func (s *Local) GetFolderDocuments(ctx context.Context, folderID string) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Document
	for _, d := range read[model.Document](ctx, s, KeyDocuments) {
		if d.FolderID == folderID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Local) AddDocumentsToFolder(ctx context.Context, folderID string, nds []NewDocument) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := read[model.Folder](ctx, s, KeyFolders)
	idx := -1
	for i := range folders {
		if folders[i].ID == folderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Nothing written yet, so the count invariant holds trivially.
		return nil, ErrNotFound
	}

	created := make([]model.Document, len(nds))
	for i, nd := range nds {
		created[i] = s.newDocument(nd, folderID)
	}

	docs := read[model.Document](ctx, s, KeyDocuments)
	docs = append(append([]model.Document{}, created...), docs...)
	if err := write(ctx, s, KeyDocuments, docs); err != nil {
		return nil, err
	}

	folders[idx].DocumentCount += len(created)
	if err := write(ctx, s, KeyFolders, folders); err != nil {
		return nil, err
	}
	return created, nil
}

// Comments

func (s *Local) GetComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := read[model.Comment](ctx, s, KeyComments)
	if documentID == "" {
		return comments, nil
	}
	var out []model.Comment
	for _, c := range comments {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Local) AddComment(ctx context.Context, documentID, author, content string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author = strings.TrimSpace(author)
	if author == "" {
		author = "Anonymous"
	}

	comments := read[model.Comment](ctx, s, KeyComments)
	comment := model.Comment{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Author:     author,
		Content:    strings.TrimSpace(content),
		CreatedAt:  s.now(),
	}
	comments = append([]model.Comment{comment}, comments...)
	if err := write(ctx, s, KeyComments, comments); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Local) DeleteComment(ctx context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := read[model.Comment](ctx, s, KeyComments)
	kept := comments[:0]
	for _, c := range comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	return write(ctx, s, KeyComments, kept)
}

// Co-ops

func (s *Local) GetCoops(ctx context.Context) ([]model.Coop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return read[model.Coop](ctx, s, KeyCoops), nil
}

func (s *Local) AddCoop(ctx context.Context, nc NewCoop) (*model.Coop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coops := read[model.Coop](ctx, s, KeyCoops)
	c := model.Coop{
		ID:          uuid.NewString(),
		BrotherName: nc.BrotherName,
		Company:     nc.Company,
		Position:    nc.Position,
		Semester:    nc.Semester,
		Status:      nc.Status,
		Notes:       nc.Notes,
		CreatedAt:   s.now(),
	}
	coops = append([]model.Coop{c}, coops...)
	if err := write(ctx, s, KeyCoops, coops); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Local) UpdateCoop(ctx context.Context, coopID string, upd CoopUpdate) (*model.Coop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coops := read[model.Coop](ctx, s, KeyCoops)
	for i := range coops {
		if coops[i].ID != coopID {
			continue
		}
		applyCoopUpdate(&coops[i], upd)
		if err := write(ctx, s, KeyCoops, coops); err != nil {
			return nil, err
		}
		c := coops[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

func applyCoopUpdate(c *model.Coop, upd CoopUpdate) {
	if upd.BrotherName != nil {
		c.BrotherName = *upd.BrotherName
	}
	if upd.Company != nil {
		c.Company = *upd.Company
	}
	if upd.Position != nil {
		c.Position = *upd.Position
	}
	if upd.Semester != nil {
		c.Semester = *upd.Semester
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
}

func (s *Local) DeleteCoop(ctx context.Context, coopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coops := read[model.Coop](ctx, s, KeyCoops)
	kept := coops[:0]
	for _, c := range coops {
		if c.ID != coopID {
			kept = append(kept, c)
		}
	}
	return write(ctx, s, KeyCoops, kept)
}

// Analytics

func (s *Local) GetAnalytics(ctx context.Context, tr analytics.TimeRange) (*analytics.Analytics, error) {
	s.mu.Lock()
	docs := read[model.Document](ctx, s, KeyDocuments)
	events := read[model.DownloadEvent](ctx, s, KeyDownloads)
	s.mu.Unlock()

	a := analytics.Compute(docs, events, tr, s.now())
	return &a, nil
}

// Reconcile is the startup pass that repairs the folder/document invariant
// after an interrupted cascade or batch add: documents referencing a missing
// folder are removed, and every folder's DocumentCount is recomputed from the
// documents that actually reference it.
func (s *Local) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := read[model.Folder](ctx, s, KeyFolders)
	docs := read[model.Document](ctx, s, KeyDocuments)

	known := make(map[string]int, len(folders))
	for i, f := range folders {
		known[f.ID] = i
	}

	counts := make(map[string]int)
	kept := docs[:0]
	orphans := 0
	for _, d := range docs {
		if d.FolderID != "" {
			if _, ok := known[d.FolderID]; !ok {
				orphans++
				continue
			}
			counts[d.FolderID]++
		}
		kept = append(kept, d)
	}

	repaired := 0
	for i := range folders {
		if want := counts[folders[i].ID]; folders[i].DocumentCount != want {
			folders[i].DocumentCount = want
			repaired++
		}
	}

	if orphans == 0 && repaired == 0 {
		return nil
	}
	s.log.Info("reconciled folder invariant",
		zap.Int("orphaned_documents_removed", orphans),
		zap.Int("folder_counts_repaired", repaired),
	)

	if orphans > 0 {
		if err := write(ctx, s, KeyDocuments, kept); err != nil {
			return err
		}
	}
	if repaired > 0 {
		if err := write(ctx, s, KeyFolders, folders); err != nil {
			return err
		}
	}
	return nil
}
