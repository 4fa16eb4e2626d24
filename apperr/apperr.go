// Package apperr carries the error taxonomy shared by the catalog, scanner
// and archive packages. Errors are tagged with a Kind so callers can branch
// on the failure class; they only become display strings at the command
// boundary.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Catalog Kind = iota + 1 // catalog connection/query failures
	Filesystem              // I/O, permission, missing path
	Config                  // required setting absent, seed data malformed
	NotFound                // referenced id/slug absent
	Conflict                // duplicate name/path
	OrphanedAsset           // catalog row with no matching disk folder
	InvalidInput            // empty/illegal names
)

func (k Kind) String() string {
	switch k {
	case Catalog:
		return "catalog"
	case Filesystem:
		return "filesystem"
	case Config:
		return "config"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case OrphanedAsset:
		return "orphaned asset"
	case InvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is a tagged error with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and context message.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the Kind of err if it is (or wraps) a tagged error,
// and zero otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
