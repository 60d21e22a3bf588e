// Package editerr defines the error taxonomy shared by the addressing,
// schema, UI schema and editor layers. Callers match failures with errors.Is
// against the exported sentinels; the concrete *Error carries the operation
// and the offending path for messages.
package editerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPathNotFound reports a schema or UI path that does not resolve.
	ErrPathNotFound = errors.New("path not found")
	// ErrNameCollision reports a rename or definition name that already exists.
	ErrNameCollision = errors.New("name collision")
	// ErrInvalidMove reports a move whose destination is the source or lies inside it.
	ErrInvalidMove = errors.New("invalid move")
	// ErrDanglingReference reports a $ref without a matching definition.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrInvalidName reports an empty, reserved or malformed name.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidSegment reports a path segment that cannot be encoded.
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrUnknownAction reports an action envelope with an unsupported type.
	ErrUnknownAction = errors.New("unknown action")
)

// Error annotates a sentinel with the operation and path that produced it.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := "edit failed"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	op := strings.TrimSpace(e.Op)
	switch {
	case op != "" && e.Path != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Path)
	case op != "":
		return op + ": " + msg
	case e.Path != "":
		return fmt.Sprintf("%s (%s)", msg, e.Path)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with operation and path context.
func New(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}

// Is reports whether err matches one of the supplied sentinels.
func Is(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
