// Package config loads and validates the workflow definition file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"policy-agent/internal/domain/entity"
)

type Config struct {
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Execution ExecutionConfig `yaml:"execution"`
	LLM       LLMConfig       `yaml:"llm"`
	Output    OutputConfig    `yaml:"output"`
}

type WorkflowConfig struct {
	Name   string                   `yaml:"name"`
	Stages []entity.StageDefinition `yaml:"stages"`
}

type ExecutionConfig struct {
	ContinueOnError bool          `yaml:"continue_on_error"`
	CallTimeout     time.Duration `yaml:"call_timeout"`
	RetryAttempts   int           `yaml:"retry_attempts"`
}

type LLMConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in five-stage policy workflow. A config file
// overrides it wholesale for the sections it defines.
func Default() Config {
	return Config{
		Workflow: WorkflowConfig{
			Name: "policy_requirements",
			Stages: []entity.StageDefinition{
				{
					Name:     "policy_evaluation",
					TaskUnit: "policy_evaluator",
					Inputs:   []string{"policy_document", "detected_policy_type", "detected_policy_code", "force_type"},
				},
				{
					Name:     "requirements_capture",
					TaskUnit: "requirements_capture",
					Inputs:   []string{"policy_structure", "eligibility_rules", "conditions", "policy_synthetic"},
				},
				{
					Name:     "question_generation",
					TaskUnit: "question_generator",
					Inputs:   []string{"functional_requirements", "data_requirements", "validation_rules", "requirements_synthetic"},
				},
				{
					Name:     "validation",
					TaskUnit: "validation",
					Inputs: []string{
						"functional_requirements", "data_requirements", "business_rules",
						"questions", "sections",
						"policy_synthetic", "requirements_synthetic", "questions_synthetic",
					},
				},
				{
					Name:     "consolidation",
					TaskUnit: "consolidation",
					Inputs: []string{
						"policy_structure", "functional_requirements", "data_requirements",
						"business_rules", "validation_rules", "questions", "question_flow",
						"validation_report", "gap_analysis", "recommendations",
					},
				},
			},
		},
		Execution: ExecutionConfig{
			ContinueOnError: true,
			CallTimeout:     90 * time.Second,
			RetryAttempts:   2,
		},
		LLM: LLMConfig{
			Model:       "anthropic/claude-3.5-sonnet",
			BaseURL:     "https://openrouter.ai/api/v1",
			Temperature: 0.1,
			MaxTokens:   4096,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}

// Load reads a YAML workflow file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, validate(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	if len(cfg.Workflow.Stages) == 0 {
		return fmt.Errorf("workflow defines no stages")
	}
	seen := make(map[string]bool, len(cfg.Workflow.Stages))
	for i, stage := range cfg.Workflow.Stages {
		if stage.Name == "" {
			return fmt.Errorf("stage %d has no name", i)
		}
		if stage.TaskUnit == "" {
			return fmt.Errorf("stage %q names no task unit", stage.Name)
		}
		if seen[stage.Name] {
			return fmt.Errorf("duplicate stage name %q", stage.Name)
		}
		seen[stage.Name] = true
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm model is empty")
	}
	return nil
}
