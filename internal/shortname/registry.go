// Package shortname matches delimited shortname tokens such as :smile: and
// resolves them against a registry of aliases.
//
// A token is a prefix, a non-empty run of non-whitespace characters (the
// alias) and a suffix. The alias run is matched non-greedily, so the nearest
// suffix closes the token. A single backslash in front of a token escapes it:
// the backslash is dropped and the token is kept verbatim without a lookup.
//
// A Registry is not safe for concurrent mutation. Callers that rewrite from
// several goroutines while aliases change should publish Clone()d registries.
package shortname

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	// DefaultPrefix opens a token.
	DefaultPrefix = ":"
	// DefaultSuffix closes a token.
	DefaultSuffix = ":"

	escapeMarker = `\`
	// Unicode whitespace plus the information separators U+001C..U+001F.
	aliasClass = `[^\s\v\p{Z}\x{85}\x{1c}-\x{1f}]`
)

// Match is one token occurrence found while scanning text.
type Match struct {
	// Escaped is true when the token was preceded by the escape marker.
	Escaped bool
	// Text is the token including delimiters, without the escape marker.
	Text string
	// Alias is the bare alias between the delimiters.
	Alias string
}

// Stats counts what happened to the tokens of one scan.
type Stats struct {
	Replaced int
	Escaped  int
	Unknown  int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Replaced += o.Replaced
	s.Escaped += o.Escaped
	s.Unknown += o.Unknown
}

// Total is the number of tokens seen.
func (s Stats) Total() int { return s.Replaced + s.Escaped + s.Unknown }

// Registry maps aliases to replacements and owns the compiled token pattern.
type Registry struct {
	prefix       string
	suffix       string
	pattern      *regexp.Regexp
	escapedIdx   int
	textIdx      int
	aliasIdx     int
	replacements map[string]Replacement
}

// New returns an empty Registry using the default ":" affixes.
func New() *Registry {
	r := &Registry{replacements: make(map[string]Replacement)}
	// The defaults are always valid.
	_ = r.SetAffixes(DefaultPrefix, DefaultSuffix)
	return r
}

// NewWithAffixes returns an empty Registry using the given affixes.
func NewWithAffixes(prefix, suffix string) (*Registry, error) {
	r := New()
	if err := r.SetAffixes(prefix, suffix); err != nil {
		return nil, err
	}
	return r, nil
}

// SetAffixes recompiles the token pattern for a new prefix and suffix.
// Registered aliases are kept. Empty affixes are rejected with
// ErrInvalidAffix and leave the current pattern in place.
func (r *Registry) SetAffixes(prefix, suffix string) error {
	if prefix == "" || suffix == "" {
		return ErrInvalidAffix
	}
	pattern, err := compilePattern(prefix, suffix)
	if err != nil {
		return err
	}
	r.prefix, r.suffix, r.pattern = prefix, suffix, pattern
	r.escapedIdx = pattern.SubexpIndex("escaped")
	r.textIdx = pattern.SubexpIndex("text")
	r.aliasIdx = pattern.SubexpIndex("alias")
	return nil
}

func compilePattern(prefix, suffix string) (*regexp.Regexp, error) {
	expr := `(?P<escaped>` + regexp.QuoteMeta(escapeMarker) + `)?` +
		`(?P<text>` + regexp.QuoteMeta(prefix) +
		`(?P<alias>` + aliasClass + `+?)` +
		regexp.QuoteMeta(suffix) + `)`
	return regexp.Compile(expr)
}

// Affixes returns the current prefix and suffix.
func (r *Registry) Affixes() (prefix, suffix string) {
	return r.prefix, r.suffix
}

// Register maps alias to repl, overwriting any previous mapping.
func (r *Registry) Register(alias string, repl Replacement) error {
	if err := ValidateAlias(alias); err != nil {
		return err
	}
	if !repl.valid() {
		return &AliasError{Alias: alias, Err: ErrInvalidReplacement}
	}
	r.replacements[alias] = repl
	return nil
}

// Add maps every alias in aliases to the same replacement. It stops at the
// first invalid alias; aliases before it stay registered.
func (r *Registry) Add(aliases []string, repl Replacement) error {
	for _, alias := range aliases {
		if err := r.Register(alias, repl); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the mapping for alias and reports whether it existed.
func (r *Registry) Remove(alias string) bool {
	_, ok := r.replacements[alias]
	delete(r.replacements, alias)
	return ok
}

// Lookup returns the replacement registered for alias.
func (r *Registry) Lookup(alias string) (Replacement, bool) {
	repl, ok := r.replacements[alias]
	return repl, ok
}

// Len returns the number of registered aliases.
func (r *Registry) Len() int { return len(r.replacements) }

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []string {
	out := make([]string, 0, len(r.replacements))
	for alias := range r.replacements {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy that shares nothing mutable with r.
func (r *Registry) Clone() *Registry {
	c := *r
	c.replacements = make(map[string]Replacement, len(r.replacements))
	for alias, repl := range r.replacements {
		c.replacements[alias] = repl
	}
	return &c
}

// Resolve returns the substitution text for a single match.
func (r *Registry) Resolve(m Match) (string, error) {
	out, _, err := r.resolve(m)
	return out, err
}

type outcome uint8

const (
	outcomeReplaced outcome = iota
	outcomeEscaped
	outcomeUnknown
)

func (r *Registry) resolve(m Match) (string, outcome, error) {
	if m.Escaped {
		return m.Text, outcomeEscaped, nil
	}
	repl, ok := r.replacements[m.Alias]
	if !ok {
		return m.Text, outcomeUnknown, nil
	}
	out, err := repl.apply(m.Alias)
	if err != nil {
		return "", outcomeReplaced, &ResolveError{Alias: m.Alias, Err: err}
	}
	return out, outcomeReplaced, nil
}

// FindAll returns every token in text, left to right and non-overlapping.
func (r *Registry) FindAll(text string) []Match {
	locs := r.pattern.FindAllStringSubmatchIndex(text, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, r.matchAt(text, loc))
	}
	return matches
}

func (r *Registry) matchAt(text string, loc []int) Match {
	return Match{
		Escaped: loc[2*r.escapedIdx] >= 0,
		Text:    text[loc[2*r.textIdx]:loc[2*r.textIdx+1]],
		Alias:   text[loc[2*r.aliasIdx]:loc[2*r.aliasIdx+1]],
	}
}

// ReplaceText substitutes every token in text. Replacement output is never
// rescanned. A resolver error aborts the scan and is returned.
func (r *Registry) ReplaceText(text string) (string, Stats, error) {
	var stats Stats
	locs := r.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, stats, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		out, kind, err := r.resolve(r.matchAt(text, loc))
		if err != nil {
			return "", stats, err
		}
		switch kind {
		case outcomeReplaced:
			stats.Replaced++
		case outcomeEscaped:
			stats.Escaped++
		case outcomeUnknown:
			stats.Unknown++
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(out)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), stats, nil
}

// ValidateAlias reports whether alias can appear inside a token.
func ValidateAlias(alias string) error {
	if alias == "" {
		return &AliasError{Alias: alias, Err: ErrInvalidAlias}
	}
	if strings.IndexFunc(alias, isAliasSpace) >= 0 {
		return &AliasError{Alias: alias, Err: ErrInvalidAlias}
	}
	return nil
}

func isAliasSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
