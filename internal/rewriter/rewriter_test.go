package rewriter

import (
	"errors"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haytac/emojiril/internal/shortname"
)

func newTestRegistry(t *testing.T) *shortname.Registry {
	t.Helper()
	reg := shortname.New()
	require.NoError(t, reg.Register("smile", shortname.Literal("😀")))
	require.NoError(t, reg.Register("x", shortname.Literal("X")))
	require.NoError(t, reg.Register("user", shortname.ResolverFunc(func(alias string) string { return "@" + alias })))
	require.NoError(t, reg.Register("tag", shortname.Literal("<b>bold</b>")))
	return reg
}

func TestRewrite(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Hi :smile:!", "Hi 😀!"},
		{"resolver", ":user:", "@user"},
		{"attribute untouched", `<a href=":x:">:x:</a>`, `<a href=":x:">X</a>`},
		{"title attribute untouched", `<img title=":smile:" src="a.png"/>`, `<img title=":smile:" src="a.png"/>`},
		{"nested text", "<div><p>a <b>:x:</b> <i>:smile:</i></p></div>", "<div><p>a <b>X</b> <i>😀</i></p></div>"},
		{"escaped token", `<p>\:x:</p>`, "<p>:x:</p>"},
		{"unknown token", "<p>:nope:</p>", "<p>:nope:</p>"},
		{"comment untouched", "<!-- :x: --><p>:x:</p>", "<!-- :x: --><p>X</p>"},
		{"markup in replacement stays text", "<p>:tag:</p>", "<p>&lt;b&gt;bold&lt;/b&gt;</p>"},
		{"token split across elements is not matched", "<p>:x</p><p>:</p>", "<p>:x</p><p>:</p>"},
		{"empty document", "", ""},
		{"empty elements", "<p></p><span></span>", "<p></p><span></span>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rewrite(tt.input, reg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewrite_FullDocument(t *testing.T) {
	reg := newTestRegistry(t)
	input := "<!DOCTYPE html><html><head><title>:x:</title></head><body><p>:smile:</p></body></html>"

	got, err := Rewrite(input, reg)
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html><head><title>X</title></head><body><p>😀</p></body></html>", got)
}

func TestRewrite_DocumentShapesPreserved(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "comment before doctype",
			input: "<!-- c --><!DOCTYPE html><html><head><title>:x:</title></head><body><p>:x:</p></body></html>",
			want:  "<!-- c --><!DOCTYPE html><html><head><title>X</title></head><body><p>X</p></body></html>",
		},
		{
			name:  "byte order mark",
			input: "\ufeff<!DOCTYPE html><html><head><title>:x:</title></head><body><p>:x:</p></body></html>",
			want:  "\ufeff<!DOCTYPE html><html><head><title>X</title></head><body><p>X</p></body></html>",
		},
		{
			name:  "head and body without html",
			input: `<head><title>:x:</title></head><body class="a"><p>:x:</p></body>`,
			want:  `<head><title>X</title></head><body class="a"><p>X</p></body>`,
		},
		{
			name:  "body only",
			input: `<body class="a"><p>:x:</p></body>`,
			want:  `<body class="a"><p>X</p></body>`,
		},
		{
			name:  "title before body",
			input: `<title>:x:</title><body id="b">:x:</body>`,
			want:  `<title>X</title><body id="b">X</body>`,
		},
		{
			name:  "doctype without document tags",
			input: "<!DOCTYPE html><p>:x:</p>",
			want:  "<!DOCTYPE html><p>X</p>",
		},
		{
			name:  "html attributes",
			input: `<html lang="en"><body><p>:x:</p></body></html>`,
			want:  `<html lang="en"><body><p>X</p></body></html>`,
		},
		{
			name:  "table row fragment",
			input: "<tr><td>:x:</td></tr>",
			want:  "<tr><td>X</td></tr>",
		},
		{
			name:  "table cell fragment",
			input: "<td>:x:</td><td>:y:</td>",
			want:  "<td>X</td><td>:y:</td>",
		},
		{
			name:  "option fragment",
			input: `<option value=":x:">:x:</option>`,
			want:  `<option value=":x:">X</option>`,
		},
		{
			name:  "fragment with byte order mark",
			input: "\ufeff<p>:x:</p>",
			want:  "\ufeff<p>X</p>",
		},
	}

	reg := newTestRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rewrite(tt.input, reg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewrite_FragmentGainsNoWrappers(t *testing.T) {
	reg := newTestRegistry(t)

	got, err := Rewrite("<p>:x:</p>", reg)
	require.NoError(t, err)
	assert.NotContains(t, got, "<body>")
	assert.NotContains(t, got, "<html>")
}

func TestRewrite_UnknownTokensIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	input := `<ul><li>:a:</li><li title=":b:">:b: and :c:</li></ul>`

	once, err := Rewrite(input, reg)
	require.NoError(t, err)
	twice, err := Rewrite(once, reg)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, input, once)
}

func TestRewrite_AffixChange(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.SetAffixes("[[", "]]"))

	got, err := Rewrite("<p>[[x]] :x:</p>", reg)
	require.NoError(t, err)
	assert.Equal(t, "<p>X :x:</p>", got)
}

func TestRewrite_ResolverErrorAborts(t *testing.T) {
	boom := errors.New("lookup failed")
	reg := shortname.New()
	require.NoError(t, reg.Register("bad", shortname.Resolver(func(string) (string, error) {
		return "", boom
	})))

	var observed bool
	rw := New(reg, WithObserver(func(shortname.Stats) { observed = true }))
	out, err := rw.Rewrite("<p>:bad:</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out)
	assert.False(t, observed)
}

func TestRewriter_SkipElements(t *testing.T) {
	reg := newTestRegistry(t)
	rw := New(reg, WithSkipElements("SCRIPT", "code"))

	got, err := rw.Rewrite("<script>var s = ':x:';</script><code>:x:</code><p>:x:</p>")
	require.NoError(t, err)
	assert.Equal(t, "<script>var s = ':x:';</script><code>:x:</code><p>X</p>", got)
}

func TestRewriter_Sanitizer(t *testing.T) {
	reg := newTestRegistry(t)
	rw := New(reg, WithSanitizer(bluemonday.UGCPolicy()))

	got, err := rw.Rewrite(`<script>alert(1)</script><p onclick="x()">:x:</p>`)
	require.NoError(t, err)
	assert.Equal(t, "<p>X</p>", got)
}

func TestRewriter_Stats(t *testing.T) {
	reg := newTestRegistry(t)
	var seen shortname.Stats
	rw := New(reg, WithObserver(func(s shortname.Stats) { seen = s }))

	_, stats, err := rw.RewriteStats(`<p>:x: \:x: :nope:</p><p>:smile:</p>`)
	require.NoError(t, err)
	assert.Equal(t, shortname.Stats{Replaced: 2, Escaped: 1, Unknown: 1}, stats)
	assert.Equal(t, stats, seen)
	assert.Same(t, reg, rw.Registry())
}

func TestRewriteText(t *testing.T) {
	reg := newTestRegistry(t)

	got, err := RewriteText("<p>:x:</p>", reg)
	require.NoError(t, err)
	assert.Equal(t, "<p>X</p>", got)
}

func TestParseError(t *testing.T) {
	inner := errors.New("bad input")
	err := error(&ParseError{Op: "parse", Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "html parse: bad input", err.Error())
}
