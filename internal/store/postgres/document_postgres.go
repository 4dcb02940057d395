package postgres

import (
	"context"
	"database/sql"
	"errors"

	"invdash/internal/model"
	"invdash/internal/store"
)

// DocumentPostgres is a PostgreSQL implementation of store.Store. The whole
// document is one JSONB row keyed by store.Key.
type DocumentPostgres struct {
	db  *sql.DB
	key string
}

// NewDocumentPostgres creates a new DocumentPostgres store.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db, key: store.Key}
}

var _ store.Store = (*DocumentPostgres)(nil)

// Load fetches and decodes the document row.
func (r *DocumentPostgres) Load(ctx context.Context) (*model.Document, error) {
	const q = `
		SELECT value
		FROM app_documents
		WHERE key = $1
	`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, r.key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoDocument
		}
		return nil, store.Unavailable("postgres load", err)
	}
	return store.Decode(raw)
}

// Save upserts the document row.
func (r *DocumentPostgres) Save(ctx context.Context, doc *model.Document) error {
	b, err := store.Encode(doc)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO app_documents (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, q, r.key, b); err != nil {
		return store.Unavailable("postgres save", err)
	}
	return nil
}
