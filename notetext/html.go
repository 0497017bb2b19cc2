package notetext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML flattens pasted HTML to plain note lines. Headings,
// paragraphs and list items become lines; inline markup only
// contributes its text.
func FromHTML(source string) string {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		// html.Parse recovers from almost anything; treat a hard
		// failure as plain text input.
		return strings.TrimSpace(source)
	}
	f := &htmlFlattener{}
	f.walk(doc)
	f.flush()
	return joinLines(f.lines)
}

// htmlFlattener accumulates inline text between block boundaries so
// "before <b>bold</b> after" stays one line.
type htmlFlattener struct {
	lines   []string
	pending strings.Builder
}

func (f *htmlFlattener) flush() {
	if text := strings.Join(strings.Fields(f.pending.String()), " "); text != "" {
		f.lines = append(f.lines, text)
	}
	f.pending.Reset()
}

func (f *htmlFlattener) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.P:
			f.flush()
			f.lines = append(f.lines, extractText(n))
			return
		case atom.Li:
			f.flush()
			f.lines = append(f.lines, "- "+extractText(n))
			return
		case atom.Br:
			f.flush()
			return
		case atom.Script, atom.Style:
			return
		}
	}
	if n.Type == html.TextNode {
		f.pending.WriteString(n.Data)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
