package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	port "policy-agent/internal/application/port/output"
	"policy-agent/internal/application/service"
	"policy-agent/internal/domain/entity"
)

type stubUnit struct {
	name    string
	outputs map[string]any
	err     error
	panics  bool
	called  bool
	got     map[string]any
}

func (u *stubUnit) Name() string { return u.name }

func (u *stubUnit) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	u.called = true
	u.got = inputs
	if u.panics {
		panic("unit exploded")
	}
	return u.outputs, u.err
}

func (u *stubUnit) Records() []entity.ExecutionRecord { return nil }

type memStore struct {
	artifacts map[string]any
	summaries map[string]string
}

func newMemStore() *memStore {
	return &memStore{artifacts: make(map[string]any), summaries: make(map[string]string)}
}

func (s *memStore) WriteArtifact(key string, data any) error {
	s.artifacts[key] = data
	return nil
}

func (s *memStore) WriteSummary(name, text string) error {
	s.summaries[name] = text
	return nil
}

func (s *memStore) Dir() string { return "mem" }

type testLogger struct{}

func (testLogger) Debug(string, ...any)                  {}
func (testLogger) Info(string, ...any)                   {}
func (testLogger) Warn(string, ...any)                   {}
func (testLogger) Error(string, ...any)                  {}
func (testLogger) WithField(string, any) port.LoggerPort { return testLogger{} }
func (testLogger) Close() error                          { return nil }

func threeStages() []entity.StageDefinition {
	return []entity.StageDefinition{
		{Name: "first", TaskUnit: "first", Inputs: nil},
		{Name: "second", TaskUnit: "second", Inputs: []string{"alpha"}},
		{Name: "third", TaskUnit: "third", Inputs: []string{"alpha", "beta"}},
	}
}

func newRun(t *testing.T, units []*stubUnit, continueOnError bool) (*UseCase, *memStore) {
	t.Helper()
	registry := service.NewTaskRegistry()
	for _, u := range units {
		registry.Register(u)
	}
	store := newMemStore()
	return New(threeStages(), registry, store, testLogger{}, nil, continueOnError), store
}

func TestRun_HaltsAtFirstFailureByDefault(t *testing.T) {
	first := &stubUnit{name: "first", outputs: map[string]any{"alpha": 1}}
	second := &stubUnit{name: "second", err: errors.New("model unreachable")}
	third := &stubUnit{name: "third", outputs: map[string]any{}}
	uc, _ := newRun(t, []*stubUnit{first, second, third}, false)

	result, err := uc.Run(context.Background(), entity.InitialContext{PolicyDocument: "doc"})
	require.NoError(t, err)

	assert.Equal(t, entity.WorkflowStatusFailed, result.Status)
	require.Len(t, result.StageResults, 2)
	assert.Equal(t, entity.StageStatusFailed, result.StageResults[1].Status)
	assert.False(t, third.called, "stage after the failure must not run")
}

func TestRun_ContinueOnErrorRunsRemainingStages(t *testing.T) {
	first := &stubUnit{name: "first", outputs: map[string]any{"alpha": 1}}
	second := &stubUnit{name: "second", err: errors.New("model unreachable")}
	third := &stubUnit{name: "third", outputs: map[string]any{"gamma": 3}}
	uc, _ := newRun(t, []*stubUnit{first, second, third}, true)

	result, err := uc.Run(context.Background(), entity.InitialContext{PolicyDocument: "doc"})
	require.NoError(t, err)

	assert.Equal(t, entity.WorkflowStatusFailed, result.Status)
	require.Len(t, result.StageResults, 3)
	assert.True(t, third.called)

	_, hasAlpha := third.got["alpha"]
	_, hasBeta := third.got["beta"]
	assert.True(t, hasAlpha, "output of the successful first stage is visible")
	assert.False(t, hasBeta, "output of the failed second stage is absent, not nil")

	assert.Equal(t, 3, result.FinalState["gamma"])
}

func TestRun_InputAssemblyIsDependencyKeyed(t *testing.T) {
	first := &stubUnit{name: "first", outputs: map[string]any{"alpha": 1, "hidden": true}}
	second := &stubUnit{name: "second", outputs: map[string]any{"beta": 2}}
	third := &stubUnit{name: "third", outputs: map[string]any{}}
	uc, _ := newRun(t, []*stubUnit{first, second, third}, false)

	_, err := uc.Run(context.Background(), entity.InitialContext{
		PolicyDocument:     "doc",
		DetectedPolicyType: "Work Visa",
	})
	require.NoError(t, err)

	assert.Equal(t, "doc", second.got["policy_document"], "initial context reaches every stage")
	assert.Equal(t, "Work Visa", second.got["detected_policy_type"])
	assert.Equal(t, 1, second.got["alpha"])
	_, leaked := second.got["hidden"]
	assert.False(t, leaked, "undeclared state keys must not leak into stage inputs")

	assert.Equal(t, 1, third.got["alpha"])
	assert.Equal(t, 2, third.got["beta"])
}

func TestRun_PanicBecomesStageFailure(t *testing.T) {
	first := &stubUnit{name: "first", panics: true}
	second := &stubUnit{name: "second", outputs: map[string]any{}}
	third := &stubUnit{name: "third", outputs: map[string]any{}}
	uc, _ := newRun(t, []*stubUnit{first, second, third}, false)

	result, err := uc.Run(context.Background(), entity.InitialContext{PolicyDocument: "doc"})
	require.NoError(t, err)

	assert.Equal(t, entity.WorkflowStatusFailed, result.Status)
	require.NotEmpty(t, result.StageResults)
	assert.Contains(t, result.StageResults[0].Error, "panic: unit exploded")
}

func TestRun_UnknownTaskUnitFailsStage(t *testing.T) {
	registry := service.NewTaskRegistry()
	store := newMemStore()
	stages := []entity.StageDefinition{{Name: "only", TaskUnit: "ghost"}}
	uc := New(stages, registry, store, testLogger{}, nil, false)

	result, err := uc.Run(context.Background(), entity.InitialContext{PolicyDocument: "doc"})
	require.NoError(t, err)

	assert.Equal(t, entity.WorkflowStatusFailed, result.Status)
	assert.Contains(t, result.StageResults[0].Error, `unknown task unit "ghost"`)
}

func TestRun_WritesArtifactsAndSummary(t *testing.T) {
	first := &stubUnit{name: "first", outputs: map[string]any{"alpha": 1}}
	second := &stubUnit{name: "second", outputs: map[string]any{"beta": 2}}
	third := &stubUnit{name: "third", outputs: map[string]any{}}
	uc, store := newRun(t, []*stubUnit{first, second, third}, false)

	result, err := uc.Run(context.Background(), entity.InitialContext{PolicyDocument: "doc"})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkflowStatusSuccess, result.Status)

	assert.Contains(t, store.artifacts, "first")
	assert.Contains(t, store.artifacts, "second")
	assert.Contains(t, store.artifacts, "third")
	assert.Contains(t, store.summaries, "workflow_summary.txt")
	assert.Contains(t, store.summaries["workflow_summary.txt"], result.RunID)
}
