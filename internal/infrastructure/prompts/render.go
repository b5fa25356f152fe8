package prompts

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

// Render formats an embedded template with the given variables using
// Go-template syntax.
func Render(template string, vars map[string]any) (string, error) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	tmpl := prompts.PromptTemplate{
		Template:       template,
		InputVariables: names,
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}

	rendered, err := tmpl.Format(vars)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return rendered, nil
}
