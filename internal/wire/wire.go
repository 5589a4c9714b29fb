package wire

// Package wire defines the external snake_case representation of every
// entity, shared by the HTTP handlers and the Remote store client so the two
// sides of the contract can never drift apart. List endpoints wrap their
// payload in an items envelope.

import (
	"time"

	"studyhub/internal/model"
)

// List is the envelope returned by every collection endpoint.
type List[T any] struct {
	Items []T `json:"items"`
}

// NewList builds an envelope, normalizing nil to an empty items array.
func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items}
}

type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Course     string    `json:"course"`
	Professor  string    `json:"professor"`
	FileType   string    `json:"file_type"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Downloads  int       `json:"downloads"`
	FolderID   string    `json:"folder_id,omitempty"`
}

func FromDocument(d model.Document) Document {
	return Document{
		ID:         d.ID,
		Title:      d.Title,
		Course:     d.Course,
		Professor:  d.Professor,
		FileType:   string(d.FileType),
		FileName:   d.FileName,
		UploadedAt: d.UploadedAt,
		Downloads:  d.Downloads,
		FolderID:   d.FolderID,
	}
}

func (d Document) Model() model.Document {
	return model.Document{
		ID:         d.ID,
		Title:      d.Title,
		Course:     d.Course,
		Professor:  d.Professor,
		FileType:   model.FileType(d.FileType),
		FileName:   d.FileName,
		UploadedAt: d.UploadedAt,
		Downloads:  d.Downloads,
		FolderID:   d.FolderID,
	}
}

func FromDocuments(docs []model.Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = FromDocument(d)
	}
	return out
}

// DocumentCreate is the POST /documents (and folder batch-add) body. A nil
// UploadedAt means "now" on the receiving side.
type DocumentCreate struct {
	Title      string     `json:"title"`
	Course     string     `json:"course"`
	Professor  string     `json:"professor"`
	FileType   string     `json:"file_type"`
	FileName   string     `json:"file_name"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

type Folder struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Course        string    `json:"course"`
	Professor     string    `json:"professor"`
	CreatedAt     time.Time `json:"created_at"`
	DocumentCount int       `json:"document_count"`
}

func FromFolder(f model.Folder) Folder {
	return Folder{
		ID:            f.ID,
		Name:          f.Name,
		Description:   f.Description,
		Course:        f.Course,
		Professor:     f.Professor,
		CreatedAt:     f.CreatedAt,
		DocumentCount: f.DocumentCount,
	}
}

func (f Folder) Model() model.Folder {
	return model.Folder{
		ID:            f.ID,
		Name:          f.Name,
		Description:   f.Description,
		Course:        f.Course,
		Professor:     f.Professor,
		CreatedAt:     f.CreatedAt,
		DocumentCount: f.DocumentCount,
	}
}

func FromFolders(folders []model.Folder) []Folder {
	out := make([]Folder, len(folders))
	for i, f := range folders {
		out[i] = FromFolder(f)
	}
	return out
}

// FolderCreate is the POST /folders body.
type FolderCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Course      string `json:"course"`
	Professor   string `json:"professor"`
}

type Comment struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromComment(c model.Comment) Comment {
	return Comment{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Author:     c.Author,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

func (c Comment) Model() model.Comment {
	return model.Comment{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Author:     c.Author,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

func FromComments(comments []model.Comment) []Comment {
	out := make([]Comment, len(comments))
	for i, c := range comments {
		out[i] = FromComment(c)
	}
	return out
}

// CommentCreate is the POST /comments body.
type CommentCreate struct {
	DocumentID string `json:"document_id"`
	Author     string `json:"author"`
	Content    string `json:"content"`
}

type DownloadEvent struct {
	DocumentID string    `json:"document_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func FromDownloadEvent(e model.DownloadEvent) DownloadEvent {
	return DownloadEvent{DocumentID: e.DocumentID, Timestamp: e.Timestamp}
}

func (e DownloadEvent) Model() model.DownloadEvent {
	return model.DownloadEvent{DocumentID: e.DocumentID, Timestamp: e.Timestamp}
}

func FromDownloadEvents(events []model.DownloadEvent) []DownloadEvent {
	out := make([]DownloadEvent, len(events))
	for i, e := range events {
		out[i] = FromDownloadEvent(e)
	}
	return out
}

type Coop struct {
	ID          string    `json:"id"`
	BrotherName string    `json:"brother_name"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Semester    string    `json:"semester"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromCoop(c model.Coop) Coop {
	return Coop{
		ID:          c.ID,
		BrotherName: c.BrotherName,
		Company:     c.Company,
		Position:    c.Position,
		Semester:    c.Semester,
		Status:      string(c.Status),
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
	}
}

func (c Coop) Model() model.Coop {
	return model.Coop{
		ID:          c.ID,
		BrotherName: c.BrotherName,
		Company:     c.Company,
		Position:    c.Position,
		Semester:    c.Semester,
		Status:      model.CoopStatus(c.Status),
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
	}
}

func FromCoops(coops []model.Coop) []Coop {
	out := make([]Coop, len(coops))
	for i, c := range coops {
		out[i] = FromCoop(c)
	}
	return out
}

// CoopCreate is the POST /coops body.
type CoopCreate struct {
	BrotherName string `json:"brother_name"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Semester    string `json:"semester"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
}

// CoopUpdate is the PUT /coops/:id body; absent fields stay untouched.
type CoopUpdate struct {
	BrotherName *string `json:"brother_name,omitempty"`
	Company     *string `json:"company,omitempty"`
	Position    *string `json:"position,omitempty"`
	Semester    *string `json:"semester,omitempty"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}
