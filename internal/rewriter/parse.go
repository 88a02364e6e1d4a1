package rewriter

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const byteOrderMark = "\ufeff"

// tree is a parsed input together with what is needed to render it back
// in the shape it came in.
type tree struct {
	roots []*html.Node
	bom   bool
	// explicit records which of html, head and body appeared as tags in
	// the source. Elements the parser inserted on its own are rendered as
	// their children only.
	explicit map[atom.Atom]bool
}

// parse builds the node tree of document. Input that carries a doctype or
// an html, head or body tag before any content goes through html.Parse;
// anything else is parsed as a fragment whose context is picked from the
// first element, so table rows and list options keep their markup.
func parse(document string) (*tree, error) {
	t := &tree{explicit: make(map[atom.Atom]bool)}
	if strings.HasPrefix(document, byteOrderMark) {
		t.bom = true
		document = document[len(byteOrderMark):]
	}

	full, first := sniff(document, t.explicit)
	if full {
		doc, err := html.Parse(strings.NewReader(document))
		if err != nil {
			return nil, &ParseError{Op: "parse", Err: err}
		}
		t.roots = []*html.Node{doc}
		return t, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(document), fragmentContext(first))
	if err != nil {
		return nil, &ParseError{Op: "parse", Err: err}
	}
	t.roots = nodes
	return t, nil
}

// sniff tokenizes document once. It reports whether document is a full
// document, the first content element, and fills explicit with the
// document-level tags present anywhere in the source.
func sniff(document string, explicit map[atom.Atom]bool) (full bool, first atom.Atom) {
	z := html.NewTokenizer(strings.NewReader(document))
	decided := false
	inMetadata := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return full, first
		case html.DoctypeToken:
			if !decided {
				full, decided = true, true
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch a {
			case atom.Html, atom.Head, atom.Body:
				explicit[a] = true
				if !decided {
					full, decided = true, true
				}
			case atom.Title, atom.Meta, atom.Link, atom.Base, atom.Style, atom.Script:
				// Head content may precede an explicit <head> or <body>.
				inMetadata = !decided
			default:
				if !decided {
					first, decided = a, true
				}
			}
		case html.EndTagToken:
			inMetadata = false
		case html.TextToken:
			if !decided && !inMetadata && len(bytes.TrimSpace(z.Text())) > 0 {
				decided = true
			}
		}
	}
}

// fragmentContext returns the element a fragment starting with first is
// parsed inside of.
func fragmentContext(first atom.Atom) *html.Node {
	ctx := atom.Body
	switch first {
	case atom.Tr:
		ctx = atom.Tbody
	case atom.Td, atom.Th:
		ctx = atom.Tr
	case atom.Thead, atom.Tbody, atom.Tfoot, atom.Caption, atom.Colgroup:
		ctx = atom.Table
	case atom.Col:
		ctx = atom.Colgroup
	case atom.Option, atom.Optgroup:
		ctx = atom.Select
	}
	return &html.Node{Type: html.ElementNode, Data: ctx.String(), DataAtom: ctx}
}

func (t *tree) render(w io.Writer) error {
	if t.bom {
		if _, err := io.WriteString(w, byteOrderMark); err != nil {
			return err
		}
	}
	for _, root := range t.roots {
		if err := t.renderNode(w, root); err != nil {
			return err
		}
	}
	return nil
}

func (t *tree) renderNode(w io.Writer, n *html.Node) error {
	if !t.implied(n) {
		return html.Render(w, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := t.renderNode(w, c); err != nil {
			return err
		}
	}
	return nil
}

// implied reports whether n exists only because the parser inserted it.
func (t *tree) implied(n *html.Node) bool {
	switch n.Type {
	case html.DocumentNode:
		return true
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Html, atom.Head, atom.Body:
			return !t.explicit[n.DataAtom]
		}
	}
	return false
}
