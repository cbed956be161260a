package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a collaborator failure.
type ErrorKind int

const (
	// KindFetch covers transport failures and unusable input URLs.
	KindFetch ErrorKind = iota + 1
	// KindStatus is an upstream non-success status.
	KindStatus
	// KindDecode is a body that could not be parsed (HTML or JSON).
	KindDecode
	// KindEmpty means a required field came back empty.
	KindEmpty
	// KindStream is a completion stream that failed to open or broke mid-way.
	KindStream
)

func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindEmpty:
		return "empty"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Error is returned by every collaborator.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError wraps err with a kind and the failing operation.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
