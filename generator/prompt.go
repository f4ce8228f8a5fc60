package generator

import "fmt"

// CompletionSentinel must terminate every stage response. The orchestrator
// scans for it to tell a finished response from a truncated one, then
// strips it before stage parsing.
const CompletionSentinel = "<<<explanation_end>>>"

// Prompt is the message pair sent to the LLM for one stage call, together
// with the stage's generation parameters.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

const sentinelInstruction = "When you are done, end your response with " + CompletionSentinel + " and nothing after it."

// BuildCountPrompt asks for the number of subtopics as a bare numeral.
func BuildCountPrompt(topic string) Prompt {
	return Prompt{
		System: "You are to decide how many topics should be used to make up the explanation. " +
			"You may choose a number in the range {1, 2, 3, 4, 5} and no other. " +
			"Pick the smallest number that avoids over-complicating the explanation; " +
			"the number should reflect the structure of the topic itself, not how long its description is. " +
			"For example, explaining a protocol stack warrants 4 parts. " +
			"You must respond with only the number and not any other characters. " + sentinelInstruction,
		User:        fmt.Sprintf("Read this description of the topic that the user would like to learn more about:\n%s", topic),
		Temperature: 0.3,
		MaxTokens:   50,
	}
}

// BuildPlanPrompt asks for n sub sections tagged t1: .. tn:.
func BuildPlanPrompt(topic string, n int) Prompt {
	return Prompt{
		System: "Plan and create sub sections to explain the topic. " +
			"Provide a few sentences for each describing its role in the overall explanation. " +
			"Give every sub section a distinct purpose so they cover the topic without overlapping. " +
			"Differentiate each topic with t<number>: format, numbering from t1. " + sentinelInstruction,
		User:        fmt.Sprintf("Create %d sub sections for explaining: %s", n, topic),
		Temperature: 0.7,
		MaxTokens:   500,
	}
}

// BuildDiagramPrompt asks for a standalone SVG supporting one sub section.
func BuildDiagramPrompt(role string) Prompt {
	return Prompt{
		System: "You are a helpful explainer and diagram creator. " +
			"You will receive the role description of one sub section of an explanation. " +
			"Create a diagram in SVG code that visually supports it. Your diagram should be informative. " +
			"The SVG must be self-contained, with no external references. " +
			"Respond only with raw SVG code without formatting or commentary. " + sentinelInstruction,
		User:        fmt.Sprintf("Generate a diagram for this sub section:\n%s\nRespond only with the SVG code.", role),
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// BuildExplanationPrompt asks for the prose accompanying one sub section's
// diagram. The diagram markup is included so the text describes what was
// actually drawn rather than an imagined figure.
func BuildExplanationPrompt(role, diagramSVG string) Prompt {
	return Prompt{
		System: "You are a helpful explainer. Write a few lines of accompanying text for one sub section " +
			"of an explanation, based on its role description and the diagram shown beside it. " +
			"Reference only concepts present in the role description and in the diagram you are given. " +
			"You may end with one sentence in square brackets clarifying what the diagram depicts, " +
			"but only if the diagram is visually ambiguous without it. " + sentinelInstruction,
		User:        fmt.Sprintf("Sub section role:\n%s\n\nDiagram SVG:\n%s\n\nWrite the accompanying text.", role, diagramSVG),
		Temperature: 0.7,
		MaxTokens:   500,
	}
}
