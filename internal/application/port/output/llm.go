package output

import "context"

type LLMPort interface {
	// Invoke sends one prompt to the model service and returns raw text.
	// Errors wrap entity.ErrConfiguration for credential/auth problems
	// and entity.ErrTransport for everything else.
	Invoke(ctx context.Context, req InvokeRequest) (string, error)
	// Model identifies the configured model for output metadata.
	Model() string
}

type InvokeRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}
