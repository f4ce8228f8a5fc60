package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealed(body string) string {
	return body + CompletionSentinel
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr error
	}{
		{name: "bare integer", raw: sealed("4"), want: 4},
		{name: "surrounding whitespace", raw: sealed("  3\n"), want: 3},
		{name: "lower bound", raw: sealed("1"), want: 1},
		{name: "upper bound", raw: sealed("5"), want: 5},
		{name: "prose around number", raw: sealed("I think 3 topics"), wantErr: ErrValidation},
		{name: "signed number", raw: sealed("+3"), wantErr: ErrValidation},
		{name: "trailing punctuation", raw: sealed("3."), wantErr: ErrValidation},
		{name: "zero out of range", raw: sealed("0"), wantErr: ErrValidation},
		{name: "six out of range", raw: sealed("6"), wantErr: ErrValidation},
		{name: "empty body", raw: sealed(""), wantErr: ErrValidation},
		{name: "missing sentinel", raw: "4", wantErr: ErrTruncatedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCount(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlan(t *testing.T) {
	valid := "t1: The opening part introduces the topic.\n" +
		"t2: The middle part explains the mechanism in detail.\n" +
		"t3: The closing part summarizes and gives an example.\n"

	t.Run("valid three-block plan", func(t *testing.T) {
		subs, err := ParsePlan(sealed(valid), 3)
		require.NoError(t, err)
		require.Len(t, subs, 3)
		for i, sub := range subs {
			assert.Equal(t, i+1, sub.Index)
			assert.NotEmpty(t, sub.Role)
		}
		assert.Equal(t, "The middle part explains the mechanism in detail.", subs[1].Role)
	})

	t.Run("out-of-order blocks are sorted by index", func(t *testing.T) {
		raw := sealed("t2: Second part.\nt1: First part.\n")
		subs, err := ParsePlan(raw, 2)
		require.NoError(t, err)
		assert.Equal(t, "First part.", subs[0].Role)
		assert.Equal(t, "Second part.", subs[1].Role)
	})

	t.Run("preamble before the first tag is ignored", func(t *testing.T) {
		raw := sealed("Here is the plan:\nt1: Only part, covering everything.\n")
		subs, err := ParsePlan(raw, 1)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "Only part, covering everything.", subs[0].Role)
	})

	t.Run("multi-line descriptions stay attached to their block", func(t *testing.T) {
		raw := sealed("t1: First sentence.\nSecond sentence of the same block.\nt2: Next block.\n")
		subs, err := ParsePlan(raw, 2)
		require.NoError(t, err)
		assert.Equal(t, "First sentence.\nSecond sentence of the same block.", subs[0].Role)
	})

	errTests := []struct {
		name string
		raw  string
		n    int
	}{
		{name: "too few blocks", raw: sealed(valid), n: 4},
		{name: "too many blocks", raw: sealed(valid), n: 2},
		{name: "no tags at all", raw: sealed("just prose with no tags"), n: 2},
		{name: "duplicate index", raw: sealed("t1: One.\nt1: One again.\n"), n: 2},
		{name: "index outside range", raw: sealed("t1: One.\nt3: Three.\n"), n: 2},
		{name: "empty description", raw: sealed("t1:\nt2: Two.\n"), n: 2},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(tt.raw, tt.n)
			assert.ErrorIs(t, err, ErrStructure)
		})
	}

	t.Run("missing sentinel", func(t *testing.T) {
		_, err := ParsePlan(valid, 3)
		assert.ErrorIs(t, err, ErrTruncatedResponse)
	})
}

func TestParseDiagram(t *testing.T) {
	const svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="40"/></svg>`

	t.Run("well-formed svg", func(t *testing.T) {
		got, err := ParseDiagram(sealed(svg))
		require.NoError(t, err)
		assert.Equal(t, svg, got)
	})

	t.Run("svg with nested elements and text", func(t *testing.T) {
		raw := sealed(`<svg xmlns="http://www.w3.org/2000/svg"><g><rect x="1" y="1" width="10" height="10"/><text x="5" y="5">label</text></g></svg>`)
		_, err := ParseDiagram(raw)
		assert.NoError(t, err)
	})

	errTests := []struct {
		name string
		raw  string
	}{
		{name: "code fence wrapping", raw: sealed("```xml\n" + svg + "\n```")},
		{name: "prose preamble", raw: sealed("Here is your diagram:\n" + svg)},
		{name: "unclosed element", raw: sealed(`<svg xmlns="x"><rect x="1"></svg>`)},
		{name: "mismatched tags", raw: sealed(`<svg><g></svg></g>`)},
		{name: "wrong root element", raw: sealed(`<div>not a diagram</div>`)},
		{name: "trailing prose after root", raw: sealed(svg + "\nHope this helps!")},
		{name: "two root elements", raw: sealed(svg + svg)},
		{name: "empty body", raw: sealed("")},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDiagram(tt.raw)
			assert.ErrorIs(t, err, ErrRender)
		})
	}

	t.Run("missing sentinel", func(t *testing.T) {
		_, err := ParseDiagram(svg)
		assert.ErrorIs(t, err, ErrTruncatedResponse)
	})
}

func TestParseExplanation(t *testing.T) {
	t.Run("plain prose", func(t *testing.T) {
		expl, err := ParseExplanation(sealed("The handshake establishes shared state before data flows."))
		require.NoError(t, err)
		assert.Equal(t, "The handshake establishes shared state before data flows.", expl.Text)
		assert.Empty(t, expl.DiagramNote)
	})

	t.Run("trailing bracketed note becomes the diagram note", func(t *testing.T) {
		raw := sealed("The handshake establishes shared state. [The diagram shows the three exchanged segments.]")
		expl, err := ParseExplanation(raw)
		require.NoError(t, err)
		assert.Equal(t, "The handshake establishes shared state.", expl.Text)
		assert.Equal(t, "The diagram shows the three exchanged segments.", expl.DiagramNote)
	})

	t.Run("mid-text brackets are not a diagram note", func(t *testing.T) {
		raw := sealed("Frames [sometimes called cells] carry the payload onward.")
		expl, err := ParseExplanation(raw)
		require.NoError(t, err)
		assert.Empty(t, expl.DiagramNote)
		assert.Equal(t, "Frames [sometimes called cells] carry the payload onward.", expl.Text)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := ParseExplanation(sealed(""))
		assert.ErrorIs(t, err, ErrEmptyOutput)
	})

	t.Run("note with no prose", func(t *testing.T) {
		_, err := ParseExplanation(sealed("[The diagram shows a box.]"))
		assert.ErrorIs(t, err, ErrEmptyOutput)
	})

	t.Run("missing sentinel", func(t *testing.T) {
		_, err := ParseExplanation("Some prose")
		assert.ErrorIs(t, err, ErrTruncatedResponse)
	})
}
