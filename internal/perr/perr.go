// Package perr tags the planner's errors with the taxonomy from spec section 7, so
// callers can branch on Kind without parsing messages, while still getting
// github.com/pkg/errors-style wrapping and stack traces.
package perr

import (
	"github.com/pkg/errors"
)

// Kind identifies which bucket of spec section 7's error taxonomy an error belongs to.
type Kind int

const (
	// InvalidConfig: non-positive n_iterations/depth, negative exploration constant,
	// widening parameters outside their domain, a missing mandatory seam.
	InvalidConfig Kind = iota
	// ModelViolation: actions(mdp,s) empty at a non-terminal state, a non-finite
	// reward, a discount outside [0,1].
	ModelViolation
	// UnsupportedCombination: e.g. DPW action widening enabled with no next_action seam.
	UnsupportedCombination
	// SeamMisuse: an object-form seam lacks the required operation.
	SeamMisuse
)

func (k Kind) String() string {
	switch k {
	case InvalidConfig:
		return "invalid configuration"
	case ModelViolation:
		return "model contract violation"
	case UnsupportedCombination:
		return "unsupported combination"
	case SeamMisuse:
		return "seam misuse"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.cause.Error() }
func (e *Error) Unwrap() error { return e.cause }

// New creates a *Error of the given kind from a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrap annotates err with a message and tags it with kind.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrapf(err, format, args...)}
}

// Is reports whether err (or any error it wraps) is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
