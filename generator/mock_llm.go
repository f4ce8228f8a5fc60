package generator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MockLLM is an offline gateway that emits contract-conforming output for
// every stage, so the whole pipeline can be exercised without credentials.
type MockLLM struct{}

var mockPlanCountRe = regexp.MustCompile(`Create ([0-9]+) sub sections`)

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch {
	case strings.Contains(prompt.System, "how many topics"):
		return "2" + CompletionSentinel, nil

	case strings.Contains(prompt.System, "t<number>:"):
		n := 2
		if mm := mockPlanCountRe.FindStringSubmatch(prompt.User); mm != nil {
			if v, err := strconv.Atoi(mm[1]); err == nil {
				n = v
			}
		}
		var sb strings.Builder
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&sb, "t%d: Placeholder sub section %d. It introduces part %d of the topic and states what the reader should take away from it.\n", i, i, i)
		}
		sb.WriteString(CompletionSentinel)
		return sb.String(), nil

	case strings.Contains(prompt.System, "SVG code"):
		return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 320 120">` +
			`<rect x="10" y="10" width="300" height="100" fill="none" stroke="#333"/>` +
			`<text x="160" y="65" text-anchor="middle">mock diagram</text>` +
			`</svg>` + CompletionSentinel, nil

	default:
		return "This section walks through the concept step by step, using the diagram as a visual anchor. " +
			"[The diagram shows the main parts of the concept and how they connect.]" + CompletionSentinel, nil
	}
}
