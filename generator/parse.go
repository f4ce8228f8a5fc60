package generator

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// checkSentinel verifies the response ends with the completion sentinel and
// returns the body with the sentinel stripped.
func checkSentinel(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasSuffix(trimmed, CompletionSentinel) {
		return "", ErrTruncatedResponse
	}
	return strings.TrimSpace(strings.TrimSuffix(trimmed, CompletionSentinel)), nil
}

var bareIntRe = regexp.MustCompile(`^[0-9]+$`)

// ParseCount enforces the count stage contract: a bare numeral in [1,5]
// with no surrounding prose or punctuation.
func ParseCount(raw string) (int, error) {
	body, err := checkSentinel(raw)
	if err != nil {
		return 0, err
	}
	if !bareIntRe.MatchString(body) {
		return 0, fmt.Errorf("%w: not a bare integer", ErrValidation)
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("%w: %d outside range [1,5]", ErrValidation, n)
	}
	return n, nil
}

var planTagRe = regexp.MustCompile(`(?m)^\s*t([0-9]+)\s*:\s*`)

// ParsePlan splits the plan stage output into its t<number>: blocks and
// checks that the indices are exactly 1..n with no gaps or duplicates.
// Only tag completeness is validated; the descriptions themselves are free
// text. Blocks are returned sorted by index.
func ParsePlan(raw string, n int) ([]Subtopic, error) {
	body, err := checkSentinel(raw)
	if err != nil {
		return nil, err
	}
	locs := planTagRe.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return nil, fmt.Errorf("%w: no t<number>: blocks found", ErrStructure)
	}
	if len(locs) != n {
		return nil, fmt.Errorf("%w: expected %d blocks, got %d", ErrStructure, n, len(locs))
	}

	subs := make([]Subtopic, 0, n)
	seen := make(map[int]bool, n)
	for k, loc := range locs {
		idx, _ := strconv.Atoi(body[loc[2]:loc[3]])
		if idx < 1 || idx > n {
			return nil, fmt.Errorf("%w: index t%d outside 1..%d", ErrStructure, idx, n)
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: duplicate index t%d", ErrStructure, idx)
		}
		seen[idx] = true

		end := len(body)
		if k+1 < len(locs) {
			end = locs[k+1][0]
		}
		role := strings.TrimSpace(body[loc[1]:end])
		if role == "" {
			return nil, fmt.Errorf("%w: block t%d has no description", ErrStructure, idx)
		}
		subs = append(subs, Subtopic{Index: idx, Role: role})
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].Index < subs[j].Index })
	return subs, nil
}

// ParseDiagram enforces the diagram stage contract: the body must be
// nothing but a single well-formed SVG document, with no prose around it
// and no code-fence wrapping.
func ParseDiagram(raw string) (string, error) {
	body, err := checkSentinel(raw)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", fmt.Errorf("%w: no markup in response", ErrRender)
	}
	if strings.HasPrefix(body, "```") || strings.HasSuffix(body, "```") {
		return "", fmt.Errorf("%w: code-fence wrapping around markup", ErrRender)
	}
	if !strings.HasPrefix(body, "<") {
		return "", fmt.Errorf("%w: prose before markup", ErrRender)
	}
	if err := validateSVG(body); err != nil {
		return "", err
	}
	return body, nil
}

// validateSVG checks the markup parses as a single document rooted at
// <svg> with matching tag structure and nothing but whitespace outside
// the root.
func validateSVG(markup string) error {
	dec := xml.NewDecoder(strings.NewReader(markup))
	depth := 0
	seenRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if seenRoot {
					return fmt.Errorf("%w: multiple root elements", ErrRender)
				}
				if t.Name.Local != "svg" {
					return fmt.Errorf("%w: root element is <%s>, want <svg>", ErrRender, t.Name.Local)
				}
				seenRoot = true
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				return fmt.Errorf("%w: text outside the svg root", ErrRender)
			}
		}
	}
	if !seenRoot {
		return fmt.Errorf("%w: no svg element found", ErrRender)
	}
	if depth != 0 {
		return fmt.Errorf("%w: unclosed element", ErrRender)
	}
	return nil
}

var diagramNoteRe = regexp.MustCompile(`(?s)\[([^\[\]]+)\]\s*$`)

// ParseExplanation enforces the explanation stage contract: non-empty
// prose, with the optional trailing bracketed sentence split out as the
// diagram note.
func ParseExplanation(raw string) (Explanation, error) {
	body, err := checkSentinel(raw)
	if err != nil {
		return Explanation{}, err
	}
	if body == "" {
		return Explanation{}, ErrEmptyOutput
	}
	expl := Explanation{Text: body}
	if m := diagramNoteRe.FindStringSubmatch(body); m != nil {
		text := strings.TrimSpace(body[:len(body)-len(m[0])])
		if text == "" {
			// a bare bracketed note is not an explanation
			return Explanation{}, ErrEmptyOutput
		}
		expl.Text = text
		expl.DiagramNote = strings.TrimSpace(m[1])
	}
	return expl, nil
}
