package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStagePromptsRequestTheSentinel(t *testing.T) {
	prompts := map[string]Prompt{
		"count":       BuildCountPrompt("topic"),
		"plan":        BuildPlanPrompt("topic", 3),
		"diagram":     BuildDiagramPrompt("role"),
		"explanation": BuildExplanationPrompt("role", "<svg/>"),
	}
	for name, p := range prompts {
		assert.Contains(t, p.System, CompletionSentinel, "%s prompt must request the completion sentinel", name)
		assert.NotEmpty(t, p.User, name)
	}
}

func TestBuildCountPrompt(t *testing.T) {
	p := BuildCountPrompt("explain quicksort")
	assert.Contains(t, p.User, "explain quicksort")
	assert.Contains(t, p.System, "{1, 2, 3, 4, 5}")
	assert.Contains(t, p.System, "only the number")
	assert.InDelta(t, 0.3, p.Temperature, 0.001)
	assert.Equal(t, 50, p.MaxTokens)
}

func TestBuildPlanPrompt(t *testing.T) {
	p := BuildPlanPrompt("explain quicksort", 4)
	assert.Contains(t, p.User, "Create 4 sub sections")
	assert.Contains(t, p.User, "explain quicksort")
	assert.Contains(t, p.System, "t<number>:")
}

func TestBuildDiagramPrompt(t *testing.T) {
	p := BuildDiagramPrompt("the partition step")
	assert.Contains(t, p.User, "the partition step")
	assert.Contains(t, p.System, "raw SVG code")
	assert.Contains(t, p.System, "self-contained")
}

func TestBuildExplanationPrompt(t *testing.T) {
	const svg = `<svg xmlns="x"><rect/></svg>`
	p := BuildExplanationPrompt("the partition step", svg)
	assert.Contains(t, p.User, "the partition step")
	assert.Contains(t, p.User, svg, "the diagram must be in context so the prose describes what was actually drawn")
}
