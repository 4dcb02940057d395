// Package memory is an in-process Store. It keeps the encoded text rather than
// the document value so every Load returns an independent copy.
package memory

import (
	"context"
	"sync"

	"invdash/internal/model"
	"invdash/internal/store"
)

type Store struct {
	mu   sync.Mutex
	data []byte
	// fail, when set, is returned from every Load and Save wrapped as
	// store.ErrStorageUnavailable.
	fail error
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// NewWithRaw returns a store already holding raw text, which need not be valid.
func NewWithRaw(raw string) *Store {
	return &Store{data: []byte(raw)}
}

// SetFailure makes the store behave as an inaccessible substrate until reset with nil.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Raw returns a copy of the stored text.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

func (s *Store) Load(_ context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, store.Unavailable("memory load", s.fail)
	}
	if s.data == nil {
		return nil, store.ErrNoDocument
	}
	return store.Decode(s.data)
}

func (s *Store) Save(_ context.Context, doc *model.Document) error {
	b, err := store.Encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return store.Unavailable("memory save", s.fail)
	}
	s.data = b
	return nil
}
