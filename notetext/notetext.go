// Package notetext flattens host-supplied note text into the plain
// lines a text note stores. Hosts hand over whatever their input
// surface produced: plain strings, markdown, or HTML pasted from
// another viewer.
package notetext

import (
	"regexp"
	"strings"
)

var htmlTag = regexp.MustCompile(`(?s)</?[a-zA-Z][^>]*>`)

// Normalize rewrites text for a note commit. HTML and markdown inputs
// are flattened to plain lines; anything else passes through trimmed.
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return ""
	case htmlTag.MatchString(trimmed):
		return FromHTML(trimmed)
	case looksLikeMarkdown(trimmed):
		return FromMarkdown(trimmed)
	}
	return trimmed
}

func looksLikeMarkdown(s string) bool {
	if strings.Contains(s, "**") || strings.Contains(s, "](") || strings.Contains(s, "`") {
		return true
	}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			return true
		}
	}
	return false
}

// joinLines drops empty lines and joins the rest with newlines.
func joinLines(lines []string) string {
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
