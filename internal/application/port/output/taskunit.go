package output

import (
	"context"

	"policy-agent/internal/domain/entity"
)

// TaskUnit is one schema-bound unit of work: it builds a prompt from its
// inputs, invokes the model service, recovers structure from the raw text
// and always returns a shape-valid output map. Only configuration problems
// surface as errors; everything else is absorbed by fallback substitution.
type TaskUnit interface {
	Name() string
	Execute(ctx context.Context, inputs map[string]any) (map[string]any, error)
	Records() []entity.ExecutionRecord
}

type TaskRegistry interface {
	Register(unit TaskUnit)
	Get(name string) (TaskUnit, bool)
	Names() []string
}
