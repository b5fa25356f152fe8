// Package agents holds the shared execution machinery for the pipeline's
// task units: prompt dispatch, output recovery, fallback substitution,
// metadata tagging and the append-only execution records.
package agents

import (
	"context"
	"errors"
	"strings"
	"time"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/domain/entity"
	"policy-agent/internal/usecase/extract"
)

// Config carries the model knobs every task unit shares. FallbackOnly is
// read once at construction and never re-checked per call.
type Config struct {
	Temperature  float32
	MaxTokens    int
	FallbackOnly bool
}

// Recovery describes how one model invocation's output is recovered: the
// field names the scraper may look for, the expected-shape predicate and
// the static substitute used when everything else fails.
type Recovery struct {
	Fields   []string
	Shape    func(value map[string]any, partial bool) bool
	Fallback func() map[string]any
}

type Base struct {
	name    string
	llm     output.LLMPort
	logger  output.LoggerPort
	cfg     Config
	records []entity.ExecutionRecord
}

func NewBase(name string, llm output.LLMPort, logger output.LoggerPort, cfg Config) Base {
	return Base{
		name:   name,
		llm:    llm,
		logger: logger.WithField("task", name),
		cfg:    cfg,
	}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) Logger() output.LoggerPort {
	return b.logger
}

// Records returns a copy of the unit's audit trail. The trail is never
// consulted for control decisions.
func (b *Base) Records() []entity.ExecutionRecord {
	records := make([]entity.ExecutionRecord, len(b.records))
	copy(records, b.records)
	return records
}

// Known refusal openers. A response matching one of these is not going to
// contain structure worth scraping.
var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"i cannot comply",
	"i can't comply",
	"as a large language model",
}

func isRefusal(raw string) bool {
	lower := strings.ToLower(raw)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Generate runs one prompt round: invoke the model, recover structure from
// the raw text, shape-check it and substitute the fallback payload when
// anything short of a configuration problem goes wrong. The returned
// boolean reports whether the value is synthetic. Only errors wrapping
// entity.ErrConfiguration surface to the caller.
func (b *Base) Generate(ctx context.Context, system, prompt string, rec Recovery) (map[string]any, bool, error) {
	if b.cfg.FallbackOnly {
		b.logger.Debug("fallback-only mode, skipping model call")
		return rec.Fallback(), true, nil
	}

	raw, err := b.llm.Invoke(ctx, output.InvokeRequest{
		System:      system,
		Prompt:      prompt,
		Temperature: b.cfg.Temperature,
		MaxTokens:   b.cfg.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, entity.ErrConfiguration) {
			return nil, false, err
		}
		b.logger.Warn("model call failed, substituting fallback", "error", err.Error())
		return rec.Fallback(), true, nil
	}

	if isRefusal(raw) {
		b.logger.Warn("model refused, substituting fallback", "responseLen", len(raw))
		return rec.Fallback(), true, nil
	}

	result := extract.Extract(raw, rec.Fields)
	if result.Failed() {
		b.logger.Warn("extraction exhausted all strategies, substituting fallback", "responseLen", len(raw))
		return rec.Fallback(), true, nil
	}

	partial := result.Status == entity.ExtractionPartial
	if rec.Shape != nil && !rec.Shape(result.Value, partial) {
		b.logger.Warn("recovered value failed shape check, substituting fallback", "partial", partial)
		return rec.Fallback(), true, nil
	}

	return result.Value, false, nil
}

// Finish tags the outputs with execution metadata and appends the
// immutable execution record for this run.
func (b *Base) Finish(inputs, outputs map[string]any, start time.Time, synthetic bool) map[string]any {
	outputs["metadata"] = map[string]any{
		"task":      b.name,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     b.llm.Model(),
		"synthetic": synthetic,
	}

	b.records = append(b.records, entity.ExecutionRecord{
		Timestamp:  time.Now().UTC(),
		TaskName:   b.name,
		Inputs:     snapshot(inputs),
		Outputs:    snapshot(outputs),
		DurationMs: time.Since(start).Milliseconds(),
		Success:    true,
	})

	return outputs
}

// Fail records a hard failure and returns the error unchanged.
func (b *Base) Fail(inputs map[string]any, start time.Time, err error) error {
	b.records = append(b.records, entity.ExecutionRecord{
		Timestamp:  time.Now().UTC(),
		TaskName:   b.name,
		Inputs:     snapshot(inputs),
		DurationMs: time.Since(start).Milliseconds(),
		Success:    false,
		Error:      err.Error(),
	})
	return err
}

func snapshot(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	s := make(map[string]any, len(m))
	for k, v := range m {
		s[k] = v
	}
	return s
}
