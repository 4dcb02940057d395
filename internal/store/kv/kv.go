// Package kv stores the document in an embedded badger key-value database
// under store.Key.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"invdash/internal/model"
	"invdash/internal/store"
)

type Store struct {
	db  *badger.DB
	key []byte
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) a badger database in dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("kv: directory is required")
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return New(db), nil
}

// OpenInMemory opens a badger database that never touches disk.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return New(db), nil
}

// New wraps an already opened database.
func New(db *badger.DB) *Store {
	return &Store{db: db, key: []byte(store.Key)}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(_ context.Context) (*model.Document, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, store.ErrNoDocument
		}
		return nil, store.Unavailable("kv load", err)
	}
	return store.Decode(raw)
}

func (s *Store) Save(_ context.Context, doc *model.Document) error {
	b, err := store.Encode(doc)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, b)
	}); err != nil {
		return store.Unavailable("kv save", err)
	}
	return nil
}

// PutRaw writes raw text under the document key, bypassing the codec. It is
// used by migration tooling and tests.
func (s *Store) PutRaw(raw []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, raw)
	})
}
