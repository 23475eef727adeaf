package screening

import (
	"context"
	"errors"
	"fmt"

	"github.com/screenline/screening-ai-platform/internal/observability/metrics"
	"github.com/screenline/screening-ai-platform/pkg/logging"
)

// ErrOracleUnavailable marks a turn that failed because an outbound oracle
// call did not complete. The client keeps its previous state and retries the
// same turn.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// AnswerInterpreter maps one reply to a categorical label.
type AnswerInterpreter interface {
	Interpret(ctx context.Context, questionText, reply string) (AnswerLabel, error)
}

// PredictionResult is the classifier's verdict for a completed interview.
type PredictionResult struct {
	Label      int
	Confidence float64
}

// Scorer turns the accumulated answers into a prediction. Implemented by the
// scoring pipeline; stubbed in tests.
type Scorer interface {
	Score(ctx context.Context, initial InitialContext, features map[string]int) (PredictionResult, error)
}

// Machine advances a session one transition per inbound turn: ask, interpret,
// store-or-reask, and score exactly once when the sequence is exhausted.
type Machine struct {
	llm           LLMClient
	interpreter   AnswerInterpreter
	scorer        Scorer
	questionModel string
	summaryModel  string
	metrics       *metrics.ScreeningMetrics
	logger        *logging.Logger
}

// MachineConfig wires a Machine's collaborators.
type MachineConfig struct {
	LLM           LLMClient
	Interpreter   AnswerInterpreter
	Scorer        Scorer
	QuestionModel string
	SummaryModel  string
	Metrics       *metrics.ScreeningMetrics
	Logger        *logging.Logger
}

func NewMachine(cfg MachineConfig) *Machine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Machine{
		llm:           cfg.LLM,
		interpreter:   cfg.Interpreter,
		scorer:        cfg.Scorer,
		questionModel: cfg.QuestionModel,
		summaryModel:  cfg.SummaryModel,
		metrics:       cfg.Metrics,
		logger:        logger,
	}
}

// Start initializes a fresh session and phrases the first question.
func (m *Machine) Start(ctx context.Context, initial InitialContext) (SessionState, string, error) {
	if err := initial.Validate(); err != nil {
		return SessionState{}, "", err
	}

	state := newSessionState(initial)
	question, _ := state.CurrentQuestion()
	message, err := m.phrase(ctx, question)
	if err != nil {
		return SessionState{}, "", err
	}
	state.appendTranscript(SpeakerAssistant, message)
	return state, message, nil
}

// Continue processes one user reply against the current question. The caller
// has already validated the state and rejected finished sessions.
func (m *Machine) Continue(ctx context.Context, state SessionState, reply string) (SessionState, string, error) {
	question, ok := state.CurrentQuestion()
	if !ok {
		return SessionState{}, "", fmt.Errorf("%w: no current question", ErrInvalidState)
	}

	state.appendTranscript(SpeakerUser, reply)

	label, err := m.interpreter.Interpret(ctx, question.Text, reply)
	if err != nil {
		m.metrics.ObserveOracle("interpretation", "error")
		return SessionState{}, "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	m.metrics.ObserveOracle("interpretation", "ok")

	if label == LabelIndeterminate {
		phrased, err := m.phrase(ctx, question)
		if err != nil {
			return SessionState{}, "", err
		}
		// One assistant entry per re-ask: acknowledgment plus the question.
		message := reaskAcknowledgment + "\n\n" + phrased
		state.appendTranscript(SpeakerAssistant, message)
		m.logger.Info("re-asking question", "question", question.Key)
		return state, message, nil
	}

	value, err := FeatureValue(question.Key, label)
	if err != nil {
		return SessionState{}, "", err
	}
	state.CollectedFeatures[question.Key] = value
	state.RemainingQuestions = state.RemainingQuestions[1:]

	if next, ok := state.CurrentQuestion(); ok {
		message, err := m.phrase(ctx, next)
		if err != nil {
			return SessionState{}, "", err
		}
		state.appendTranscript(SpeakerAssistant, message)
		return state, message, nil
	}

	return m.finish(ctx, state)
}

// finish runs the one-shot scoring hand-off and the final summary.
func (m *Machine) finish(ctx context.Context, state SessionState) (SessionState, string, error) {
	result, err := m.scorer.Score(ctx, state.InitialContext, state.CollectedFeatures)
	if err != nil {
		m.metrics.ObserveOracle("scoring", "error")
		return SessionState{}, "", fmt.Errorf("screening: scoring failed: %w", err)
	}
	m.metrics.ObserveOracle("scoring", "ok")

	message, err := m.summarize(ctx, result, state.Transcript)
	if err != nil {
		return SessionState{}, "", err
	}

	state.appendTranscript(SpeakerAssistant, message)
	label := result.Label
	confidence := result.Confidence
	state.Prediction = &label
	state.Confidence = &confidence
	state.Finished = true

	m.logger.Info("screening complete",
		"prediction", result.Label,
		"confidence", result.Confidence,
	)
	return state, message, nil
}

func (m *Machine) phrase(ctx context.Context, question Question) (string, error) {
	resp, err := m.llm.Complete(ctx, LLMRequest{
		Model:       m.questionModel,
		Prompt:      phrasingFor(question.Text),
		MaxTokens:   200,
		Temperature: 0.6,
	})
	if err != nil {
		m.metrics.ObserveOracle("phrasing", "error")
		return "", fmt.Errorf("%w: phrasing: %v", ErrOracleUnavailable, err)
	}
	m.metrics.ObserveOracle("phrasing", "ok")
	return resp.Text, nil
}

func (m *Machine) summarize(ctx context.Context, result PredictionResult, transcript []TranscriptEntry) (string, error) {
	resp, err := m.llm.Complete(ctx, LLMRequest{
		Model:       m.summaryModel,
		Prompt:      summaryFor(result.Label, result.Confidence, transcript),
		MaxTokens:   600,
		Temperature: 0.7,
	})
	if err != nil {
		m.metrics.ObserveOracle("summary", "error")
		return "", fmt.Errorf("%w: summary: %v", ErrOracleUnavailable, err)
	}
	m.metrics.ObserveOracle("summary", "ok")
	return resp.Text, nil
}
