package service

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Result is the envelope returned by write operations. The cause of a
// failure stays available through Err for transport-level status mapping;
// it is never serialized beyond its message.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	err     error
}

// Err returns the underlying error of a failed result, or nil.
func (r Result[T]) Err() error { return r.err }

// Ack is the result of writes that return no record.
type Ack = Result[any]

// Succeed wraps v in a successful result.
func Succeed[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: v}
}

// Fail wraps err in a failed result.
func Fail[T any](err error) Result[T] {
	return Result[T]{Error: err.Error(), err: err}
}

func Acked() Ack { return Ack{Success: true} }

func loggerOrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	nl := logrus.New()
	nl.SetOutput(io.Discard)
	return nl
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
