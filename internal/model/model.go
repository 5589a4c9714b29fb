package model

// Package model contains the domain entities shared across layers.
// These are pure data structures with no persistence-specific dependencies;
// the JSON tags define the serialized form used by the local key-value
// substrate. The external wire format lives in internal/wire.

import "time"

// FileType is the enumerated document type tag derived from the file
// extension at upload time.
type FileType string

const (
	FileTypePDF        FileType = "pdf"
	FileTypeExcel      FileType = "excel"
	FileTypePython     FileType = "python"
	FileTypeJava       FileType = "java"
	FileTypePowerPoint FileType = "powerpoint"
	FileTypeOther      FileType = "other"
)

// Document is the metadata record for a single uploaded file.
// Downloads is a monotonically non-decreasing counter; it starts at 0 and is
// only ever bumped by the download-tracking operation.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Course     string    `json:"course"`
	Professor  string    `json:"professor"`
	FileType   FileType  `json:"fileType"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
	Downloads  int       `json:"downloads"`
	FolderID   string    `json:"folderId,omitempty"`
}

// Folder groups documents that share a course/professor context.
// DocumentCount must equal the number of documents whose FolderID matches.
type Folder struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Course        string    `json:"course"`
	Professor     string    `json:"professor"`
	CreatedAt     time.Time `json:"createdAt"`
	DocumentCount int       `json:"documentCount"`
}

// Comment is free-text feedback attached to exactly one document.
type Comment struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DownloadEvent is an append-only log entry recording one download action.
// DocumentID is not required to resolve; it dangles if the document is later
// removed by a folder cascade.
type DownloadEvent struct {
	DocumentID string    `json:"documentId"`
	Timestamp  time.Time `json:"timestamp"`
}

// CoopStatus marks whether a co-op entry is ongoing or finished.
type CoopStatus string

const (
	CoopCurrent CoopStatus = "current"
	CoopPast    CoopStatus = "past"
)

// Coop is a directory entry for a brother's work experience.
// Semester is free text in "Season Year" form, e.g. "Fall 2024".
type Coop struct {
	ID          string     `json:"id"`
	BrotherName string     `json:"brotherName"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Semester    string     `json:"semester"`
	Status      CoopStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
