// Package store persists the uploaded coaching documents (resume and job
// description) consumed by the context retriever.
package store

import (
	"context"
	"time"
)

const (
	KindResume         = "resume"
	KindJobDescription = "job_description"
)

// Document is one stored upload. Filename is empty for pasted text.
type Document struct {
	Kind     string
	Text     string
	Filename string
	StoredAt time.Time
}

// DocumentStore holds at most one document per kind; saving replaces the
// previous one.
type DocumentStore interface {
	Save(ctx context.Context, doc Document) error
	// Get returns the stored document of the given kind, reporting false
	// when none has been uploaded yet.
	Get(ctx context.Context, kind string) (Document, bool, error)
	Close() error
}
