// Package rewriter substitutes shortname tokens inside the text nodes of an
// HTML document. Tags, attributes and comments are never scanned.
package rewriter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/haytac/emojiril/internal/shortname"
)

// ParseError wraps a failure of the HTML parser or renderer.
type ParseError struct {
	Op  string // "parse" or "render"
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("html %s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Observer receives the token counts of every successful rewrite.
type Observer func(stats shortname.Stats)

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithSanitizer runs the document through policy before rewriting.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(rw *Rewriter) { rw.policy = policy }
}

// WithSkipElements leaves the text under the named elements untouched.
func WithSkipElements(tags ...string) Option {
	return func(rw *Rewriter) {
		for _, tag := range tags {
			rw.skip[strings.ToLower(tag)] = true
		}
	}
}

// WithObserver registers fn to be called after each successful rewrite.
func WithObserver(fn Observer) Option {
	return func(rw *Rewriter) { rw.observer = fn }
}

// Rewriter applies a registry to HTML documents.
type Rewriter struct {
	registry *shortname.Registry
	policy   *bluemonday.Policy
	skip     map[string]bool
	observer Observer
}

// New creates a Rewriter for reg.
func New(reg *shortname.Registry, opts ...Option) *Rewriter {
	rw := &Rewriter{registry: reg, skip: make(map[string]bool)}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Registry returns the registry used by rw.
func (rw *Rewriter) Registry() *shortname.Registry { return rw.registry }

// Rewrite parses document, substitutes tokens in its text nodes and
// serializes the result.
func (rw *Rewriter) Rewrite(document string) (string, error) {
	out, _, err := rw.RewriteStats(document)
	return out, err
}

// RewriteStats is Rewrite that also reports token counts.
func (rw *Rewriter) RewriteStats(document string) (string, shortname.Stats, error) {
	var total shortname.Stats
	if rw.policy != nil {
		document = rw.policy.Sanitize(document)
	}

	tree, err := parse(document)
	if err != nil {
		return "", total, err
	}

	// Text nodes are collected before any are touched so the walk never
	// observes a half-rewritten tree.
	var texts []*html.Node
	for _, root := range tree.roots {
		texts = rw.collectText(root, texts)
	}

	for _, n := range texts {
		out, stats, err := rw.registry.ReplaceText(n.Data)
		if err != nil {
			return "", total, err
		}
		total.Add(stats)
		n.Data = out
	}

	var buf bytes.Buffer
	buf.Grow(len(document))
	if err := tree.render(&buf); err != nil {
		return "", total, &ParseError{Op: "render", Err: err}
	}

	if rw.observer != nil {
		rw.observer(total)
	}
	return buf.String(), total, nil
}

// collectText appends the text nodes under n in document order.
func (rw *Rewriter) collectText(n *html.Node, acc []*html.Node) []*html.Node {
	switch n.Type {
	case html.TextNode:
		if n.Data != "" {
			acc = append(acc, n)
		}
		return acc
	case html.ElementNode:
		if rw.skip[n.Data] {
			return acc
		}
	case html.CommentNode, html.DoctypeNode:
		return acc
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		acc = rw.collectText(c, acc)
	}
	return acc
}

// Rewrite rewrites document with reg using default options.
func Rewrite(document string, reg *shortname.Registry) (string, error) {
	return New(reg).Rewrite(document)
}

// RewriteText substitutes tokens in a plain string that is not parsed as HTML.
func RewriteText(text string, reg *shortname.Registry) (string, error) {
	out, _, err := reg.ReplaceText(text)
	return out, err
}
