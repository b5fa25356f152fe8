package input

import (
	"context"

	"policy-agent/internal/domain/entity"
)

type WorkflowRunner interface {
	Run(ctx context.Context, initial entity.InitialContext) (*entity.WorkflowResult, error)
}
