package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"studyhub/internal/analytics"
	"studyhub/internal/model"
	"studyhub/internal/notify"
	"studyhub/internal/wire"
)

// Remote is the Store backend that proxies every operation to a REST service
// speaking the snake_case wire contract. The server is the source of truth,
// so only same-process observers are notified after a successful round trip.
type Remote struct {
	base string
	hc   *http.Client
	bus  notify.Bus
	log  *zap.Logger
}

// NewRemote creates a Remote backend for the given base URL. The HTTP client
// carries OpenTelemetry instrumentation; there is no retry logic anywhere in
// this layer.
func NewRemote(baseURL string, timeout time.Duration, bus notify.Bus, log *zap.Logger) *Remote {
	return &Remote{
		base: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		bus: bus,
		log: log,
	}
}

var _ Store = (*Remote)(nil)

// do performs one round trip. A nil out skips decoding (empty-body
// responses); any transport failure or non-2xx status becomes a
// *TransportError the caller must surface.
func (r *Remote) do(ctx context.Context, method, path string, body any, out any) error {
	full := r.base + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return &TransportError{Op: method, URL: full, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.hc.Do(req)
	if err != nil {
		return &TransportError{Op: method, URL: full, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{Op: method, URL: full, Status: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method, URL: full, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// notifyLocal fans a change out to in-process observers after a successful
// mutation round trip.
func (r *Remote) notifyLocal(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := r.bus.Publish(ctx, key); err != nil {
			r.log.Warn("change notification failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Documents

func (r *Remote) GetDocuments(ctx context.Context) ([]model.Document, error) {
	var list wire.List[wire.Document]
	if err := r.do(ctx, http.MethodGet, "/documents", nil, &list); err != nil {
		return nil, err
	}
	docs := make([]model.Document, len(list.Items))
	for i, d := range list.Items {
		docs[i] = d.Model()
	}
	return docs, nil
}

func documentCreate(nd NewDocument) wire.DocumentCreate {
	dc := wire.DocumentCreate{
		Title:     nd.Title,
		Course:    nd.Course,
		Professor: nd.Professor,
		FileType:  string(nd.FileType),
		FileName:  nd.FileName,
	}
	if !nd.UploadedAt.IsZero() {
		t := nd.UploadedAt
		dc.UploadedAt = &t
	}
	return dc
}

func (r *Remote) AddDocument(ctx context.Context, nd NewDocument) (*model.Document, error) {
	payload := documentCreate(nd)
	var created wire.Document
	if err := r.do(ctx, http.MethodPost, "/documents", payload, &created); err != nil {
		return nil, err
	}
	r.notifyLocal(ctx, KeyDocuments)
	doc := created.Model()
	return &doc, nil
}

func (r *Remote) IncrementDownload(ctx context.Context, documentID string) error {
	// One atomic endpoint bumps the counter and records the event server-side.
	path := "/documents/" + url.PathEscape(documentID) + "/download"
	if err := r.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return err
	}
	r.notifyLocal(ctx, KeyDocuments, KeyDownloads)
	return nil
}

func (r *Remote) GetDownloadEvents(ctx context.Context) ([]model.DownloadEvent, error) {
	var list wire.List[wire.DownloadEvent]
	if err := r.do(ctx, http.MethodGet, "/downloads", nil, &list); err != nil {
		return nil, err
	}
	events := make([]model.DownloadEvent, len(list.Items))
	for i, e := range list.Items {
		events[i] = e.Model()
	}
	return events, nil
}

// Folders

func (r *Remote) GetFolders(ctx context.Context) ([]model.Folder, error) {
	var list wire.List[wire.Folder]
	if err := r.do(ctx, http.MethodGet, "/folders", nil, &list); err != nil {
		return nil, err
	}
	folders := make([]model.Folder, len(list.Items))
	for i, f := range list.Items {
		folders[i] = f.Model()
	}
	return folders, nil
}

func (r *Remote) GetFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	var f wire.Folder
	err := r.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(folderID), nil, &f)
	if err != nil {
		var te *TransportError
		if asTransport(err, &te) && te.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	folder := f.Model()
	return &folder, nil
}

func (r *Remote) AddFolder(ctx context.Context, nf NewFolder) (*model.Folder, error) {
	payload := wire.FolderCreate{
		Name:        nf.Name,
		Description: nf.Description,
		Course:      nf.Course,
		Professor:   nf.Professor,
	}
	var created wire.Folder
	if err := r.do(ctx, http.MethodPost, "/folders", payload, &created); err != nil {
		return nil, err
	}
	r.notifyLocal(ctx, KeyFolders)
	folder := created.Model()
	return &folder, nil
}

func (r *Remote) DeleteFolder(ctx context.Context, folderID string) error {
	if err := r.do(ctx, http.MethodDelete, "/folders/"+url.PathEscape(folderID), nil, nil); err != nil {
		return err
	}
	r.notifyLocal(ctx, KeyFolders, KeyDocuments)
	return nil
}

func (r *Remote) GetFolderDocuments(ctx context.Context, folderID string) ([]model.Document, error) {
	var list wire.List[wire.Document]
	path := "/folders/" + url.PathEscape(folderID) + "/documents"
	if err := r.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	docs := make([]model.Document, len(list.Items))
	for i, d := range list.Items {
		docs[i] = d.Model()
	}
	return docs, nil
}

func (r *Remote) AddDocumentsToFolder(ctx context.Context, folderID string, nds []NewDocument) ([]model.Document, error) {
	payload := make([]wire.DocumentCreate, len(nds))
	for i, nd := range nds {
		payload[i] = documentCreate(nd)
	}

	var list wire.List[wire.Document]
	path := "/folders/" + url.PathEscape(folderID) + "/documents"
	err := r.do(ctx, http.MethodPost, path, payload, &list)
	if err != nil {
		var te *TransportError
		if asTransport(err, &te) && te.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r.notifyLocal(ctx, KeyDocuments, KeyFolders)

	docs := make([]model.Document, len(list.Items))
	for i, d := range list.Items {
		docs[i] = d.Model()
	}
	return docs, nil
}

// Comments

func (r *Remote) GetComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	path := "/comments"
	if documentID != "" {
		path += "?document_id=" + url.QueryEscape(documentID)
	}
	var list wire.List[wire.Comment]
	if err := r.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	comments := make([]model.Comment, len(list.Items))
	for i, c := range list.Items {
		comments[i] = c.Model()
	}
	return comments, nil
}

func (r *Remote) AddComment(ctx context.Context, documentID, author, content string) (*model.Comment, error) {
	payload := wire.CommentCreate{DocumentID: documentID, Author: author, Content: content}
	var created wire.Comment
	if err := r.do(ctx, http.MethodPost, "/comments", payload, &created); err != nil {
		return nil, err
	}
	r.notifyLocal(ctx, KeyComments)
	comment := created.Model()
	return &comment, nil
}

func (r *Remote) DeleteComment(ctx context.Context, commentID string) error {
	if err := r.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil, nil); err != nil {
		return err
	}
	r.notifyLocal(ctx, KeyComments)
	return nil
}

// Co-ops

func (r *Remote) GetCoops(ctx context.Context) ([]model.Coop, error) {
	var list wire.List[wire.Coop]
	if err := r.do(ctx, http.MethodGet, "/coops", nil, &list); err != nil {
		return nil, err
	}
	coops := make([]model.Coop, len(list.Items))
	for i, c := range list.Items {
		coops[i] = c.Model()
	}
	return coops, nil
}

func (r *Remote) AddCoop(ctx context.Context, nc NewCoop) (*model.Coop, error) {
	payload := wire.CoopCreate{
		BrotherName: nc.BrotherName,
		Company:     nc.Company,
		Position:    nc.Position,
		Semester:    nc.Semester,
		Status:      string(nc.Status),
		Notes:       nc.Notes,
	}
	var created wire.Coop
	if err := r.do(ctx, http.MethodPost, "/coops", payload, &created); err != nil {
		return nil, err
	}
	r.notifyLocal(ctx, KeyCoops)
	c := created.Model()
	return &c, nil
}

func (r *Remote) UpdateCoop(ctx context.Context, coopID string, upd CoopUpdate) (*model.Coop, error) {
	payload := wire.CoopUpdate{
		BrotherName: upd.BrotherName,
		Company:     upd.Company,
		Position:    upd.Position,
		Semester:    upd.Semester,
		Notes:       upd.Notes,
	}
	if upd.Status != nil {
		status := string(*upd.Status)
		payload.Status = &status
	}

	var updated wire.Coop
	err := r.do(ctx, http.MethodPut, "/coops/"+url.PathEscape(coopID), payload, &updated)
	if err != nil {
		var te *TransportError
		if asTransport(err, &te) && te.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r.notifyLocal(ctx, KeyCoops)
	c := updated.Model()
	return &c, nil
}

func (r *Remote) DeleteCoop(ctx context.Context, coopID string) error {
	if err := r.do(ctx, http.MethodDelete, "/coops/"+url.PathEscape(coopID), nil, nil); err != nil {
		return err
	}
	r.notifyLocal(ctx, KeyCoops)
	return nil
}

// Analytics

func (r *Remote) GetAnalytics(ctx context.Context, tr analytics.TimeRange) (*analytics.Analytics, error) {
	var payload wire.Analytics
	path := "/analytics?time_range=" + url.QueryEscape(string(tr))
	if err := r.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	a := payload.ToAnalytics()
	return &a, nil
}

func asTransport(err error, target **TransportError) bool {
	te, ok := err.(*TransportError)
	if ok {
		*target = te
	}
	return ok
}
