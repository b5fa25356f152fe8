package di

import (
	"fmt"
	"time"

	"policy-agent/internal/application/port/input"
	"policy-agent/internal/application/port/output"
	"policy-agent/internal/application/service"
	"policy-agent/internal/infrastructure/config"
	"policy-agent/internal/infrastructure/llm/openrouter"
	"policy-agent/internal/infrastructure/logger"
	"policy-agent/internal/infrastructure/store"
	"policy-agent/internal/infrastructure/userinteraction"
	"policy-agent/internal/usecase/agents"
	"policy-agent/internal/usecase/agents/consolidation"
	"policy-agent/internal/usecase/agents/policyeval"
	"policy-agent/internal/usecase/agents/questions"
	"policy-agent/internal/usecase/agents/requirements"
	"policy-agent/internal/usecase/agents/validation"
	"policy-agent/internal/usecase/orchestrator"
)

type Container struct {
	LLM      output.LLMPort
	Logger   output.LoggerPort
	Units    output.TaskRegistry
	Store    output.ArtifactStore
	Runner   input.WorkflowRunner
	Progress output.ProgressPort
}

type Config struct {
	Workflow     config.Config
	APIKey       string
	FallbackOnly bool
	Debug        bool
	Quiet        bool
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(logger.Config{
		RunName: cfg.Workflow.Workflow.Name,
		Debug:   cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	llmCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.Workflow.LLM.Model)
	llmCfg.BaseURL = cfg.Workflow.LLM.BaseURL
	llmCfg.RetryAttempts = cfg.Workflow.Execution.RetryAttempts
	llmCfg.CallTimeout = cfg.Workflow.Execution.CallTimeout
	llmCfg.Logger = log
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	artifacts, err := store.NewFileStore(cfg.Workflow.Output.Dir, time.Now().Format("2006-01-02_15-04-05"))
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("create artifact store: %w", err)
	}

	unitCfg := agents.Config{
		Temperature:  cfg.Workflow.LLM.Temperature,
		MaxTokens:    cfg.Workflow.LLM.MaxTokens,
		FallbackOnly: cfg.FallbackOnly,
	}
	units := service.NewTaskRegistry()
	registerTaskUnits(units, llm, log, unitCfg)

	var progress output.ProgressPort
	if !cfg.Quiet {
		progress = userinteraction.NewConsoleProgress()
	}

	runner := orchestrator.New(
		cfg.Workflow.Workflow.Stages,
		units,
		artifacts,
		log,
		progress,
		cfg.Workflow.Execution.ContinueOnError,
	)

	return &Container{
		LLM:      llm,
		Logger:   log,
		Units:    units,
		Store:    artifacts,
		Runner:   runner,
		Progress: progress,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func registerTaskUnits(registry *service.TaskRegistryImpl, llm output.LLMPort, log output.LoggerPort, cfg agents.Config) {
	registry.Register(policyeval.New(llm, log, cfg))
	registry.Register(requirements.New(llm, log, cfg))
	registry.Register(questions.New(llm, log, cfg))
	registry.Register(validation.New(llm, log, cfg))
	registry.Register(consolidation.New(llm, log, cfg))
}
