package shortname

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAlias is returned for empty aliases or aliases containing whitespace.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrInvalidAffix is returned when a prefix or suffix is empty.
	ErrInvalidAffix = errors.New("invalid affix")
	// ErrInvalidReplacement is returned for a zero Replacement or a nil resolver.
	ErrInvalidReplacement = errors.New("invalid replacement")
)

// AliasError records the alias that failed validation.
type AliasError struct {
	Alias string
	Err   error
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("alias %q: %v", e.Alias, e.Err)
}

func (e *AliasError) Unwrap() error { return e.Err }

// ResolveError wraps an error returned by a resolver function.
type ResolveError struct {
	Alias string
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving %q: %v", e.Alias, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
