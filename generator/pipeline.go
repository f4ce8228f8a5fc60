package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Each stage gets at most one retry with the same prompt.
const maxStageAttempts = 2

// Placeholder artifacts used when a per-subtopic stage degrades.
const (
	PlaceholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 320 80">` +
		`<rect x="1" y="1" width="318" height="78" fill="none" stroke="#999" stroke-dasharray="6 4"/>` +
		`<text x="160" y="45" text-anchor="middle" fill="#999">diagram unavailable</text>` +
		`</svg>`
	PlaceholderExplanation = "(explanation unavailable)"
)

// Pipeline drives one topic through the count, plan, diagram, and
// explanation stages and assembles the resulting bundle.
//
// The count and plan stages are pipeline-critical: if either fails after
// its retry, the run aborts before any per-subtopic work starts. The
// diagram and explanation stages degrade locally into placeholders
// instead, so a planned run always reaches a complete bundle.
type Pipeline struct {
	llm     LLMClient
	log     zerolog.Logger
	timeout time.Duration
}

// NewPipeline wires a pipeline over the given gateway. timeout bounds each
// individual gateway call; zero means a 60s default.
func NewPipeline(llm LLMClient, log zerolog.Logger, timeout time.Duration) (*Pipeline, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Pipeline{llm: llm, log: log, timeout: timeout}, nil
}

// Explain runs the full pipeline for one topic.
//
// Subtopics share no mutable state, so their diagram+explanation work fans
// out concurrently across indices; within an index the diagram always
// completes (or degrades) before the explanation is attempted, because the
// explanation prompt embeds the diagram that will accompany it.
func (p *Pipeline) Explain(ctx context.Context, topic string) (Bundle, error) {
	if strings.TrimSpace(topic) == "" {
		return Bundle{}, errors.New("topic is required")
	}

	count, err := p.decideCount(ctx, topic)
	if err != nil {
		return Bundle{}, err
	}
	p.log.Info().Int("count", count).Msg("subtopic count decided")

	plan, err := p.planSubtopics(ctx, topic, count)
	if err != nil {
		return Bundle{}, err
	}
	p.log.Info().Int("subtopics", len(plan)).Msg("plan ready")

	sections := make([]Section, count)
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range plan {
		i, sub := i, sub
		g.Go(func() error {
			sec, err := p.buildSection(gctx, sub)
			if err != nil {
				return err
			}
			sections[i] = sec
			return nil
		})
	}
	// buildSection only returns an error on context cancellation;
	// contract failures have already degraded into placeholders.
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}

	return Bundle{Topic: topic, Count: count, Sections: sections, CreatedAt: time.Now()}, nil
}

func (p *Pipeline) decideCount(ctx context.Context, topic string) (int, error) {
	prompt := BuildCountPrompt(topic)
	var raw string
	var lastErr error
	for attempt := 1; attempt <= maxStageAttempts; attempt++ {
		var err error
		raw, err = p.complete(ctx, prompt)
		if err == nil {
			var n int
			if n, err = ParseCount(raw); err == nil {
				return n, nil
			}
		}
		lastErr = err
		p.log.Warn().Err(err).Int("attempt", attempt).Msg("count stage attempt failed")
	}
	return 0, &StageError{Stage: StageCount, Raw: raw, Err: lastErr}
}

func (p *Pipeline) planSubtopics(ctx context.Context, topic string, n int) ([]Subtopic, error) {
	prompt := BuildPlanPrompt(topic, n)
	var raw string
	var lastErr error
	for attempt := 1; attempt <= maxStageAttempts; attempt++ {
		var err error
		raw, err = p.complete(ctx, prompt)
		if err == nil {
			var subs []Subtopic
			if subs, err = ParsePlan(raw, n); err == nil {
				return subs, nil
			}
		}
		lastErr = err
		p.log.Warn().Err(err).Int("attempt", attempt).Msg("plan stage attempt failed")
	}
	return nil, &StageError{Stage: StagePlan, Raw: raw, Err: lastErr}
}

// buildSection produces one subtopic's diagram and explanation, in that
// order. Exhausted retries degrade into placeholders; only cancellation
// propagates as an error.
func (p *Pipeline) buildSection(ctx context.Context, sub Subtopic) (Section, error) {
	sec := Section{Index: sub.Index, Role: sub.Role}

	svg, err := p.generateDiagram(ctx, sub)
	if err != nil {
		if ctx.Err() != nil {
			return Section{}, ctx.Err()
		}
		p.log.Warn().Err(err).Int("subtopic", sub.Index).Msg("diagram degraded to placeholder")
		sec.Diagram = Diagram{SVG: PlaceholderSVG, Degraded: true}
	} else {
		sec.Diagram = Diagram{SVG: svg}
	}

	// The explanation always sees the diagram it will be shown with,
	// placeholder included.
	expl, err := p.explain(ctx, sub, sec.Diagram.SVG)
	if err != nil {
		if ctx.Err() != nil {
			return Section{}, ctx.Err()
		}
		p.log.Warn().Err(err).Int("subtopic", sub.Index).Msg("explanation degraded to placeholder")
		sec.Explanation = Explanation{Text: PlaceholderExplanation, Degraded: true}
	} else {
		sec.Explanation = expl
	}

	return sec, nil
}

func (p *Pipeline) generateDiagram(ctx context.Context, sub Subtopic) (string, error) {
	prompt := BuildDiagramPrompt(sub.Role)
	var raw string
	var lastErr error
	for attempt := 1; attempt <= maxStageAttempts; attempt++ {
		var err error
		raw, err = p.complete(ctx, prompt)
		if err == nil {
			var svg string
			if svg, err = ParseDiagram(raw); err == nil {
				return svg, nil
			}
		}
		lastErr = err
		p.log.Warn().Err(err).Int("subtopic", sub.Index).Int("attempt", attempt).Msg("diagram stage attempt failed")
	}
	return "", &StageError{Stage: StageDiagram, Index: sub.Index, Raw: raw, Err: lastErr}
}

func (p *Pipeline) explain(ctx context.Context, sub Subtopic, diagramSVG string) (Explanation, error) {
	prompt := BuildExplanationPrompt(sub.Role, diagramSVG)
	var raw string
	var lastErr error
	for attempt := 1; attempt <= maxStageAttempts; attempt++ {
		var err error
		raw, err = p.complete(ctx, prompt)
		if err == nil {
			var expl Explanation
			if expl, err = ParseExplanation(raw); err == nil {
				return expl, nil
			}
		}
		lastErr = err
		p.log.Warn().Err(err).Int("subtopic", sub.Index).Int("attempt", attempt).Msg("explanation stage attempt failed")
	}
	return Explanation{}, &StageError{Stage: StageExplanation, Index: sub.Index, Raw: raw, Err: lastErr}
}

// complete performs one gateway exchange with the per-call timeout applied.
func (p *Pipeline) complete(ctx context.Context, prompt Prompt) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.llm.Complete(cctx, prompt)
}
