package structured

import (
	"github.com/sandevgo/gtmsuite/internal/core"
)

// Shape describes how to turn parsed fields into T and what to return
// when that is impossible.
type Shape[T any] struct {
	Decode   func(Fields) (T, error)
	Fallback func(raw string, err error) T
}

// Extract never fails. Any parse or decode error is handed to Fallback.
func Extract[T any](raw string, shape Shape[T]) T {
	fields, err := Parse(raw)
	if err != nil {
		return shape.Fallback(raw, err)
	}

	v, err := shape.Decode(fields)
	if err != nil {
		return shape.Fallback(raw, core.ParseError("decode", err))
	}
	return v
}

// FailureReason is the reasoning text stored in fallback results.
func FailureReason(err error) string {
	return "parsing failed: " + err.Error()
}
