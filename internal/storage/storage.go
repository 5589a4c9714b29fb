package storage

// Package storage holds the document files themselves. The store tracks
// metadata only; the bytes of an uploaded file live in an S3-compatible
// bucket under the owning document's object key. Implementations stream and
// never touch local disk.

import (
	"context"
	"io"
	"time"
)

// PutOptions carries optional upload parameters. Size is the exact byte
// count when known, -1 otherwise.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored file.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectStore is the S3-compatible home of uploaded document files. Safe for
// concurrent use.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL so clients fetch file
	// bytes straight from the bucket.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ObjectKey is the bucket key of a document's file.
func ObjectKey(documentID, fileName string) string {
	return documentID + "/" + fileName
}
