package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Interpreter classifies one free-text reply against the question it
// answers, using the interpretation oracle.
type Interpreter struct {
	client LLMClient
	model  string
}

// NewInterpreter creates an answer interpreter backed by the given oracle
// client.
func NewInterpreter(client LLMClient, model string) *Interpreter {
	return &Interpreter{client: client, model: model}
}

// Interpret returns the categorical label for reply. Oracle transport
// failures are returned as errors and fail the whole turn; malformed oracle
// output is not an error, it forces LabelIndeterminate so the question gets
// re-asked.
func (i *Interpreter) Interpret(ctx context.Context, questionText, reply string) (AnswerLabel, error) {
	resp, err := i.client.Complete(ctx, LLMRequest{
		Model:     i.model,
		Prompt:    parserFor(questionText, reply),
		MaxTokens: 50,
	})
	if err != nil {
		return LabelIndeterminate, fmt.Errorf("screening: interpretation oracle: %w", err)
	}
	return parseAnswer(resp.Text), nil
}

// parseAnswer extracts the structured label from raw oracle output. Anything
// that does not decode to a recognized answer collapses to indeterminate.
func parseAnswer(raw string) AnswerLabel {
	content := strings.TrimSpace(raw)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")

	// The oracle may wrap the JSON in prose; take the outermost object.
	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var result struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return LabelIndeterminate
	}

	switch AnswerLabel(strings.ToLower(strings.TrimSpace(result.Answer))) {
	case LabelAffirmative:
		return LabelAffirmative
	case LabelNegative:
		return LabelNegative
	default:
		return LabelIndeterminate
	}
}
