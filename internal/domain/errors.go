package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema signals a corpus source that cannot be normalized into patent records.
	ErrSchema = errors.New("corpus schema error")
	// ErrModelUnavailable signals that the embedding model cannot be acquired.
	ErrModelUnavailable = errors.New("embedding model unavailable")
	// ErrEmptyQuery signals a query that is empty after trimming.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidK signals a negative result count.
	ErrInvalidK = errors.New("invalid result count")
	// ErrNotReady signals that the corpus index has not been built yet.
	ErrNotReady = errors.New("corpus index not ready")
	// ErrPatentNotFound signals an unknown publication number.
	ErrPatentNotFound = errors.New("patent not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrQueryFailed signals an unexpected failure while answering a single query.
	ErrQueryFailed = errors.New("query failed")
)

// SchemaError wraps ErrSchema with the offending columns or identifiers.
type SchemaError struct {
	Missing    []string // required columns absent after normalization
	Duplicates []string // publication numbers seen more than once
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns %q", e.Missing))
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate publication numbers %q", e.Duplicates))
	}
	if len(parts) == 0 {
		return ErrSchema.Error()
	}
	return ErrSchema.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrSchema }
