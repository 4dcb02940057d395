package store

import (
	"context"
	"errors"

	"invdash/internal/model"
)

// Key is the fixed logical key the document is persisted under.
const Key = "PI_GLOBAL_DB"

var (
	// ErrNoDocument is returned by Load when nothing has been persisted yet.
	// Creating the document is the repository's job, never the store's.
	ErrNoDocument = errors.New("no document persisted")
	// ErrStorageUnavailable wraps failures of the persistence substrate itself.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptData is returned when the stored text cannot be decoded.
	ErrCorruptData = errors.New("corrupt data")
)

// Store persists one Document under Key. Load and Save always move the whole
// document; there are no partial writes.
type Store interface {
	// Load returns the current document or ErrNoDocument.
	Load(ctx context.Context) (*model.Document, error)
	// Save overwrites the persisted document in full.
	Save(ctx context.Context, doc *model.Document) error
}
