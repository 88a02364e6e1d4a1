package shortname

type replacementKind uint8

const (
	kindLiteral replacementKind = iota + 1
	kindResolver
)

// ResolveFunc computes replacement content for an alias.
type ResolveFunc func(alias string) (string, error)

// Replacement is either a literal string or a resolver function. The zero
// value is not valid and is rejected by Register.
type Replacement struct {
	kind    replacementKind
	literal string
	resolve ResolveFunc
}

// Literal returns a Replacement that always yields s.
func Literal(s string) Replacement {
	return Replacement{kind: kindLiteral, literal: s}
}

// Resolver returns a Replacement that calls fn with the matched alias.
func Resolver(fn ResolveFunc) Replacement {
	return Replacement{kind: kindResolver, resolve: fn}
}

// ResolverFunc adapts an infallible function into a Replacement.
func ResolverFunc(fn func(alias string) string) Replacement {
	return Resolver(func(alias string) (string, error) {
		return fn(alias), nil
	})
}

// IsLiteral reports whether r holds a literal string.
func (r Replacement) IsLiteral() bool { return r.kind == kindLiteral }

// IsResolver reports whether r holds a resolver function.
func (r Replacement) IsResolver() bool { return r.kind == kindResolver }

func (r Replacement) valid() bool {
	switch r.kind {
	case kindLiteral:
		return true
	case kindResolver:
		return r.resolve != nil
	default:
		return false
	}
}

func (r Replacement) apply(alias string) (string, error) {
	switch r.kind {
	case kindLiteral:
		return r.literal, nil
	case kindResolver:
		return r.resolve(alias)
	default:
		return "", ErrInvalidReplacement
	}
}
