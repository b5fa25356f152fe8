package output

import "policy-agent/internal/domain/entity"

// ProgressPort surfaces run progress to an interactive user. Implementations
// must tolerate being called with a nil context-free fire-and-forget style.
type ProgressPort interface {
	ShowRunStart(totalStages int)
	ShowStageStart(name string, index, total int)
	ShowStageResult(result entity.StageResult)
	ShowRunResult(result *entity.WorkflowResult)
}
