package generator

import (
	"errors"
	"fmt"
)

// Stage failure taxonomy. A raw model response that violates its stage
// contract is classified as one of these and wrapped in a *StageError
// carrying the stage name and the offending output.
var (
	ErrValidation        = errors.New("output failed validation")
	ErrStructure         = errors.New("wrong structure in multi-part output")
	ErrRender            = errors.New("malformed diagram markup")
	ErrEmptyOutput       = errors.New("empty output")
	ErrTruncatedResponse = errors.New("missing completion sentinel")
)

// Stage names as they appear in errors and logs.
const (
	StageCount       = "count"
	StagePlan        = "plan"
	StageDiagram     = "diagram"
	StageExplanation = "explanation"
)

// StageError records which stage produced an unusable response, for which
// subtopic (0 for the topic-level stages), and what the model actually said.
type StageError struct {
	Stage string
	Index int
	Raw   string
	Err   error
}

func (e *StageError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("%s stage (subtopic %d): %v; raw output: %q", e.Stage, e.Index, e.Err, clipRaw(e.Raw))
	}
	return fmt.Sprintf("%s stage: %v; raw output: %q", e.Stage, e.Err, clipRaw(e.Raw))
}

func (e *StageError) Unwrap() error { return e.Err }

// clipRaw keeps diagnostics readable when the model dumps a large response.
func clipRaw(s string) string {
	const limit = 240
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
