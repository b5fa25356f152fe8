package entity

import "errors"

// Failure taxonomy. ErrConfiguration is the only hard class: it propagates
// to the orchestrator and fails the stage. Transport problems are soft and
// are handled by fallback substitution inside the task unit.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
)
