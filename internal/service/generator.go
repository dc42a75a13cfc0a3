package service

import "context"

// Message roles for generation requests.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged entry of a generation prompt.
type Message struct {
	Role    string
	Content string
}

// GenerationRequest describes a single call to the text-generation gateway.
type GenerationRequest struct {
	Model       string // empty means the default model
	Messages    []Message
	Temperature float32
}

// Temperatures used by the pipeline: extraction and summarization favor
// determinism, scenario generation allows some variation.
const (
	ExtractionTemperature float32 = 0.3
	GenerationTemperature float32 = 0.5
)

// TextGenerator is the gateway the suggestion step, adapter, draft helper
// and scoring pass all talk to. Implementations must be safe for concurrent
// use.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
