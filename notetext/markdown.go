package notetext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown flattens a markdown string to plain note lines using
// goldmark. Headings and paragraphs become lines, list items become
// dashed lines, and inline styling collapses to its text.
func FromMarkdown(source string) string {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var lines []string
	walkMarkdown(doc, src, "", &lines)
	return joinLines(lines)
}

func walkMarkdown(node ast.Node, source []byte, prefix string, lines *[]string) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			*lines = append(*lines, prefix+string(n.Text(source)))
		case *ast.Paragraph:
			*lines = append(*lines, prefix+paragraphText(n, source))
		case *ast.List:
			walkMarkdown(n, source, prefix, lines)
		case *ast.ListItem:
			walkListItem(n, source, prefix, lines)
		case *ast.FencedCodeBlock:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				*lines = append(*lines, prefix+strings.TrimRight(string(seg.Value(source)), "\n"))
			}
		case *ast.Blockquote:
			walkMarkdown(n, source, prefix, lines)
		}
	}
}

func walkListItem(n *ast.ListItem, source []byte, prefix string, lines *[]string) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Paragraph:
			*lines = append(*lines, prefix+"- "+paragraphText(c, source))
		case *ast.TextBlock:
			*lines = append(*lines, prefix+"- "+paragraphText(c, source))
		case *ast.List:
			// Nested list: indent one level.
			walkMarkdown(c, source, prefix+"  ", lines)
		default:
			*lines = append(*lines, prefix+"- "+string(c.Text(source)))
		}
	}
}

// paragraphText concatenates the inline segments of a block, turning
// soft and hard line breaks into spaces.
func paragraphText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.WriteString(string(child.Text(source)))
	}
	return strings.TrimSpace(sb.String())
}
