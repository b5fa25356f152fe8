package userinteraction

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/domain/entity"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

type ConsoleProgress struct{}

func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{}
}

func (c *ConsoleProgress) ShowRunStart(totalStages int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n━━━ Policy requirements workflow: %d stages ━━━\n", totalStages)
}

func (c *ConsoleProgress) ShowStageStart(name string, index, total int) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n[%d/%d] %s\n", index, total, name)
}

func (c *ConsoleProgress) ShowStageResult(result entity.StageResult) {
	if result.Status == entity.StageStatusSuccess {
		green := color.New(color.FgGreen)
		green.Printf("✓ %s (%d ms)", result.Name, result.DurationMs)
		if usedFallback(result.Outputs) {
			dim := color.New(color.Faint)
			dim.Print("  [fallback data]")
		}
		fmt.Println()
		return
	}

	red := color.New(color.FgRed)
	red.Printf("✗ %s: %s\n", result.Name, truncate(result.Error, 200))
}

func (c *ConsoleProgress) ShowRunResult(result *entity.WorkflowResult) {
	fmt.Println()
	if result.Status == entity.WorkflowStatusSuccess {
		green := color.New(color.FgGreen, color.Bold)
		green.Printf("Run %s completed in %d ms\n", result.RunID, result.TotalDurationMs)
	} else {
		red := color.New(color.FgRed, color.Bold)
		red.Printf("Run %s finished with failures (%d ms)\n", result.RunID, result.TotalDurationMs)
	}

	if report, ok := result.FinalState["validation_report"].(map[string]any); ok {
		if score, ok := report["overall_score"].(float64); ok {
			fmt.Printf("Overall score: %.2f", score)
			if confidence, ok := report["confidence"].(float64); ok {
				fmt.Printf(" (confidence %.2f)", confidence)
			}
			fmt.Println()
		}
	}
}

// usedFallback reports whether any *_synthetic flag in the outputs is set.
func usedFallback(outputs map[string]any) bool {
	for key, value := range outputs {
		if flag, ok := value.(bool); ok && flag && strings.HasSuffix(key, "_synthetic") {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
