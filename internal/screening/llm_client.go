package screening

import "context"

// LLMRequest is a single-shot oracle prompt. Every oracle in this service
// (phrasing, interpretation, summary) is one prompt and one reply; no chat
// history is replayed.
type LLMRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

type LLMResponse struct {
	Text       string
	StopReason string
}

type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
