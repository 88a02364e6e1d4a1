package feed

import (
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/haytac/emojiril/internal/rewriter"
	"github.com/haytac/emojiril/internal/shortname"
)

// RewriteFeed substitutes shortnames in place: titles as plain text,
// descriptions and content as HTML. The first failure aborts the pass.
func RewriteFeed(f *gofeed.Feed, rw *rewriter.Rewriter) (shortname.Stats, error) {
	var total shortname.Stats

	text := func(s string) (string, error) {
		out, stats, err := rw.Registry().ReplaceText(s)
		total.Add(stats)
		return out, err
	}
	markup := func(s string) (string, error) {
		if s == "" {
			return s, nil
		}
		out, stats, err := rw.RewriteStats(s)
		total.Add(stats)
		return out, err
	}

	// Fields are stored only on success so a failed pass leaves them as fetched.
	apply := func(field *string, fn func(string) (string, error), where string) error {
		out, err := fn(*field)
		if err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		*field = out
		return nil
	}

	if err := apply(&f.Title, text, "feed title"); err != nil {
		return total, err
	}
	if err := apply(&f.Description, markup, "feed description"); err != nil {
		return total, err
	}

	for i, item := range f.Items {
		if err := apply(&item.Title, text, fmt.Sprintf("item %d title", i)); err != nil {
			return total, err
		}
		if err := apply(&item.Description, markup, fmt.Sprintf("item %d description", i)); err != nil {
			return total, err
		}
		if err := apply(&item.Content, markup, fmt.Sprintf("item %d content", i)); err != nil {
			return total, err
		}
	}
	return total, nil
}
