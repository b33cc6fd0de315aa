package transfer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moyoez/editor-bridge/chunk"
)

// elements that render as content without any text
var mediaElements = map[atom.Atom]bool{
	atom.Img:    true,
	atom.Video:  true,
	atom.Audio:  true,
	atom.Iframe: true,
	atom.Embed:  true,
	atom.Object: true,
	atom.Hr:     true,
}

// RenderedEmpty reports whether doc renders as an empty editor, such as
// "<p>&nbsp;</p>" or "<p><br></p>".
func RenderedEmpty(doc string) bool {
	if strings.TrimSpace(doc) == "" {
		return true
	}
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return false
	}
	return !hasContent(root)
}

func hasContent(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			return true
		}
	case html.ElementNode:
		if mediaElements[n.DataAtom] {
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasContent(c) {
			return true
		}
	}
	return false
}

// SyncText sends doc as one change event. A document that renders empty is
// sent as a single empty final chunk.
func SyncText(ctx context.Context, t Transport, doc string, chunkSize int) error {
	if RenderedEmpty(doc) {
		doc = ""
	}
	chunks, err := chunk.Split(doc, chunkSize)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("text sync cancelled: %w", err)
		}
		if err := t.TextChanged(ctx, c.Text, c.IsLast); err != nil {
			return fmt.Errorf("text chunk %d/%d: %w", c.Index+1, len(chunks), err)
		}
	}
	return nil
}
