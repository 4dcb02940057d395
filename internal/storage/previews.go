package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// HandlePrefix starts every preview handle, mirroring browser object URLs.
const HandlePrefix = "blob:"

var (
	ErrPreviewNotFound = errors.New("preview not found")
	ErrPreviewTooLarge = errors.New("preview exceeds size limit")
)

type preview struct {
	data        []byte
	contentType string
}

// Gauge receives the number of live handles after every change.
type Gauge interface {
	Set(float64)
}

// Previews keeps image bytes addressable by an opaque handle for as long as
// the process lives or until the handle is released. Handles are never
// persisted in a way that survives a restart.
type Previews struct {
	mu       sync.RWMutex
	items    map[string]preview
	maxBytes int64
	gauge    Gauge
}

// NewPreviews creates a registry. maxBytes <= 0 disables the size limit.
func NewPreviews(maxBytes int64, gauge Gauge) *Previews {
	return &Previews{
		items:    make(map[string]preview),
		maxBytes: maxBytes,
		gauge:    gauge,
	}
}

// Create reads r fully and returns a new handle for it.
func (p *Previews) Create(r io.Reader, contentType string) (string, error) {
	if p.maxBytes > 0 {
		r = io.LimitReader(r, p.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read preview: %w", err)
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return "", fmt.Errorf("%w: limit %d bytes", ErrPreviewTooLarge, p.maxBytes)
	}

	handle := HandlePrefix + uuid.NewString()

	p.mu.Lock()
	p.items[handle] = preview{data: data, contentType: contentType}
	n := len(p.items)
	p.mu.Unlock()

	p.report(n)
	return handle, nil
}

// Open returns the bytes behind handle. The prefix may be omitted.
func (p *Previews) Open(handle string) ([]byte, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	it, ok := p.items[normalize(handle)]
	if !ok {
		return nil, "", ErrPreviewNotFound
	}
	return it.data, it.contentType, nil
}

// Release frees handle and reports whether it was live. Releasing twice is harmless.
func (p *Previews) Release(handle string) bool {
	p.mu.Lock()
	key := normalize(handle)
	_, ok := p.items[key]
	delete(p.items, key)
	n := len(p.items)
	p.mu.Unlock()

	if ok {
		p.report(n)
	}
	return ok
}

// Limit is the largest preview size in bytes; 0 means unlimited.
func (p *Previews) Limit() int64 {
	if p.maxBytes <= 0 {
		return 0
	}
	return p.maxBytes
}

// Len is the number of live handles.
func (p *Previews) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// IsHandle reports whether s looks like a preview handle.
func IsHandle(s string) bool {
	return strings.HasPrefix(s, HandlePrefix)
}

func (p *Previews) report(n int) {
	if p.gauge != nil {
		p.gauge.Set(float64(n))
	}
}

func normalize(handle string) string {
	if IsHandle(handle) {
		return handle
	}
	return HandlePrefix + handle
}
