package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"policy-agent/internal/application/port/input"
	"policy-agent/internal/application/port/output"
	"policy-agent/internal/domain/entity"
	"policy-agent/internal/usecase/report"
)

var _ input.WorkflowRunner = (*UseCase)(nil)

type UseCase struct {
	stages          []entity.StageDefinition
	units           output.TaskRegistry
	store           output.ArtifactStore
	logger          output.LoggerPort
	progress        output.ProgressPort
	continueOnError bool
}

func New(
	stages []entity.StageDefinition,
	units output.TaskRegistry,
	store output.ArtifactStore,
	logger output.LoggerPort,
	progress output.ProgressPort,
	continueOnError bool,
) *UseCase {
	return &UseCase{
		stages:          stages,
		units:           units,
		store:           store,
		logger:          logger,
		progress:        progress,
		continueOnError: continueOnError,
	}
}

// Run executes the configured stages strictly in declaration order,
// folding each successful stage's outputs into the workflow state. A
// failed stage halts the run unless continueOnError is set, in which case
// later stages simply see the failed stage's keys as absent.
func (uc *UseCase) Run(ctx context.Context, initial entity.InitialContext) (*entity.WorkflowResult, error) {
	runStart := time.Now()
	runID := uuid.NewString()

	uc.logger.Info("Workflow started", "runId", runID, "stages", len(uc.stages))
	if uc.progress != nil {
		uc.progress.ShowRunStart(len(uc.stages))
	}

	state := entity.NewWorkflowState()
	initialInputs := initial.AsInputs()
	stageResults := make([]entity.StageResult, 0, len(uc.stages))

	for i, stage := range uc.stages {
		if uc.progress != nil {
			uc.progress.ShowStageStart(stage.Name, i+1, len(uc.stages))
		}

		result := uc.executeStage(ctx, stage, initialInputs, state)
		stageResults = append(stageResults, result)

		if uc.progress != nil {
			uc.progress.ShowStageResult(result)
		}

		if result.Status == entity.StageStatusSuccess {
			state.Merge(result.Outputs)
			continue
		}

		uc.logger.Error("Stage failed", "stage", stage.Name, "error", result.Error)
		if !uc.continueOnError {
			break
		}
	}

	status := entity.WorkflowStatusSuccess
	for _, result := range stageResults {
		if result.Status != entity.StageStatusSuccess {
			status = entity.WorkflowStatusFailed
			break
		}
	}

	workflowResult := &entity.WorkflowResult{
		RunID:           runID,
		Status:          status,
		TotalDurationMs: time.Since(runStart).Milliseconds(),
		StageResults:    stageResults,
		FinalState:      state.Snapshot(),
		Timestamp:       time.Now().UTC(),
	}

	if err := uc.store.WriteSummary("workflow_summary.txt", report.Render(workflowResult)); err != nil {
		uc.logger.Error("Failed to write summary report", "error", err.Error())
	}

	uc.logger.Info("Workflow completed",
		"runId", runID,
		"status", string(status),
		"durationMs", workflowResult.TotalDurationMs,
	)
	if uc.progress != nil {
		uc.progress.ShowRunResult(workflowResult)
	}

	return workflowResult, nil
}

// executeStage runs one stage to completion. Panics anywhere inside the
// stage are caught at this boundary and reported as a hard stage failure
// with the raw message attached.
func (uc *UseCase) executeStage(ctx context.Context, stage entity.StageDefinition, initialInputs map[string]any, state *entity.WorkflowState) (result entity.StageResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Stage panicked", "stage", stage.Name, "panic", fmt.Sprintf("%v", r))
			result = entity.StageResult{
				Name:       stage.Name,
				Status:     entity.StageStatusFailed,
				DurationMs: time.Since(start).Milliseconds(),
				Error:      fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	unit, ok := uc.units.Get(stage.TaskUnit)
	if !ok {
		return entity.StageResult{
			Name:       stage.Name,
			Status:     entity.StageStatusFailed,
			DurationMs: time.Since(start).Milliseconds(),
			Error:      fmt.Sprintf("unknown task unit %q", stage.TaskUnit),
		}
	}

	inputs := assembleInputs(stage, initialInputs, state)
	uc.logger.Debug("Executing stage", "stage", stage.Name, "taskUnit", stage.TaskUnit, "inputKeys", len(inputs))

	outputs, err := unit.Execute(ctx, inputs)
	if err != nil {
		return entity.StageResult{
			Name:       stage.Name,
			Status:     entity.StageStatusFailed,
			DurationMs: time.Since(start).Milliseconds(),
			Error:      err.Error(),
		}
	}

	if err := uc.store.WriteArtifact(stage.Name, outputs); err != nil {
		return entity.StageResult{
			Name:       stage.Name,
			Status:     entity.StageStatusFailed,
			DurationMs: time.Since(start).Milliseconds(),
			Error:      fmt.Sprintf("persist artifact: %v", err),
		}
	}

	return entity.StageResult{
		Name:       stage.Name,
		Status:     entity.StageStatusSuccess,
		DurationMs: time.Since(start).Milliseconds(),
		Outputs:    outputs,
	}
}

// assembleInputs builds a stage's input map from the initial context plus
// exactly the upstream keys the stage declares. Declared keys missing from
// the state are skipped, which is how a failed upstream stage shows up
// downstream when the run continues past it.
func assembleInputs(stage entity.StageDefinition, initialInputs map[string]any, state *entity.WorkflowState) map[string]any {
	inputs := make(map[string]any, len(initialInputs)+len(stage.Inputs))
	for k, v := range initialInputs {
		inputs[k] = v
	}
	for _, key := range stage.Inputs {
		if value, ok := state.Get(key); ok {
			inputs[key] = value
		}
	}
	return inputs
}
