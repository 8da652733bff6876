package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmbedding    = errors.New("embedding failed")
	ErrRetrieval    = errors.New("retrieval failed")
	ErrGeneration   = errors.New("generation failed")
	ErrParse        = errors.New("parse failed")
	ErrInvalidInput = errors.New("invalid input")
)

// Error tags a cause with one of the sentinel kinds above.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func EmbeddingError(op string, err error) error  { return newError(ErrEmbedding, op, err) }
func RetrievalError(op string, err error) error  { return newError(ErrRetrieval, op, err) }
func GenerationError(op string, err error) error { return newError(ErrGeneration, op, err) }
func ParseError(op string, err error) error      { return newError(ErrParse, op, err) }

func InvalidInput(op, format string, args ...any) error {
	return newError(ErrInvalidInput, op, fmt.Errorf(format, args...))
}
