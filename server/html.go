package server

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"learning_diagram_generator/generator"
)

// renderBundleHTML builds a self-contained page for one bundle: per
// section the role description, the inline SVG, and the explanation prose
// converted from markdown. Degraded sections are labeled so placeholders
// are never mistaken for real output.
func renderBundleHTML(b generator.Bundle) (string, error) {
	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>")
	sb.WriteString(html.EscapeString(b.Topic))
	sb.WriteString("</title></head><body>\n")
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(b.Topic))

	for _, sec := range b.Sections {
		fmt.Fprintf(&sb, "<section>\n<h2>Part %d of %d</h2>\n", sec.Index, b.Count)
		fmt.Fprintf(&sb, "<p><em>%s</em></p>\n", html.EscapeString(sec.Role))

		sb.WriteString("<figure>\n")
		// Diagram markup passed stage validation (or is the fixed
		// placeholder), so it is inlined as-is.
		sb.WriteString(sec.Diagram.SVG)
		sb.WriteString("\n")
		if note := sec.Explanation.DiagramNote; note != "" {
			fmt.Fprintf(&sb, "<figcaption>%s</figcaption>\n", html.EscapeString(note))
		}
		sb.WriteString("</figure>\n")

		proseHTML, err := mdToHTML(sec.Explanation.Text)
		if err != nil {
			return "", err
		}
		sb.WriteString(proseHTML)

		if sec.Diagram.Degraded || sec.Explanation.Degraded {
			sb.WriteString("<p><small>This part is incomplete: generation degraded to a placeholder.</small></p>\n")
		}
		sb.WriteString("</section>\n")
	}

	sb.WriteString("</body></html>\n")
	return sb.String(), nil
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
