package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"invdash/internal/model"
)

// stored is the decoding shape of a Document. Settings shadows the embedded
// field so a missing or null settings object can be told apart from zeros.
type stored struct {
	model.Document
	Settings *model.Settings `json:"settings"`
}

// Decode parses stored text into a document. Empty or malformed input,
// trailing garbage and a document without settings are reported as
// ErrCorruptData. Counters lagging behind stored ids are raised.
func Decode(b []byte) (*model.Document, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptData)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	var in stored
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrCorruptData)
	}
	if in.Settings == nil {
		return nil, fmt.Errorf("%w: missing settings", ErrCorruptData)
	}
	doc := in.Document
	doc.Settings = *in.Settings
	doc.Normalize()
	doc.RaiseCounters()
	return &doc, nil
}

// Encode serializes the document as compact JSON text.
func Encode(doc *model.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("encode: nil document")
	}
	out := *doc
	out.Normalize()
	b, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// Unavailable wraps err as ErrStorageUnavailable, keeping the cause visible.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
}
