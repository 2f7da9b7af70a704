package store

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when a query asks for a non-positive number of results.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrInvalidDimension indicates an invalid configured embedding dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrDimensionMismatch indicates an embedding whose length differs from the
// store's configured dimension. Add fails with this error before any mutation.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrLengthMismatch indicates that the parallel inputs to Add do not all have
// the same length.
type ErrLengthMismatch struct {
	IDs        int
	Documents  int
	Embeddings int
	Metadatas  int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("parallel input length mismatch: ids=%d documents=%d embeddings=%d metadatas=%d",
		e.IDs, e.Documents, e.Embeddings, e.Metadatas)
}

// ErrPersistence indicates a failure writing or removing a persisted artifact.
//
// When returned from a mutating operation the in-memory store has already been
// mutated: the records exist in this process only and are at risk of loss on
// restart. Callers should retry the save or abort the process.
//
// The underlying error can be accessed via errors.Unwrap.
type ErrPersistence struct {
	Op    string
	Path  string
	cause error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence failure (%s %s): %v", e.Op, e.Path, e.cause)
}

func (e *ErrPersistence) Unwrap() error { return e.cause }
