package screening

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/screenline/screening-ai-platform/internal/observability/metrics"
	"github.com/screenline/screening-ai-platform/pkg/logging"
)

var (
	ErrMissingInitialData = errors.New("initial data is required to start a session")
	ErrMissingReply       = errors.New("user response is required")
	ErrSessionFinished    = errors.New("session is already finished")
)

var turnTracer = otel.Tracer("screening.internal.screening.turn")

// TurnRequest is the single operation's input: either a fresh session
// (initial_data, no state) or a continuation (state plus user_response).
type TurnRequest struct {
	State        *SessionState   `json:"state"`
	UserResponse string          `json:"user_response"`
	InitialData  *InitialContext `json:"initial_data"`
}

// TurnResponse carries the updated client-held state and the next message.
type TurnResponse struct {
	State      SessionState `json:"state"`
	AIMessage  string       `json:"ai_message"`
	IsFinished bool         `json:"is_finished"`
	Prediction *int         `json:"prediction"`
	Confidence *float64     `json:"confidence"`
}

// Service is the stateless turn boundary. Every call is self-contained given
// its inputs; no session data survives between calls on the server.
type Service struct {
	machine *Machine
	metrics *metrics.ScreeningMetrics
	logger  *logging.Logger
}

func NewService(machine *Machine, m *metrics.ScreeningMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{machine: machine, metrics: m, logger: logger}
}

// Turn drives the state machine one step.
func (s *Service) Turn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	ctx, span := turnTracer.Start(ctx, "screening.turn")
	defer span.End()

	start := time.Now()
	turnID := uuid.NewString()
	logger := s.logger.With("turn_id", turnID)

	state, message, err := s.dispatch(ctx, req)
	outcome := outcomeFor(req, state, err)
	s.metrics.ObserveTurn(outcome, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("screening.outcome", outcome),
		attribute.Bool("screening.finished", state.Finished),
		attribute.Int("screening.remaining", len(state.RemainingQuestions)),
	)
	if err != nil {
		span.RecordError(err)
		logger.Error("turn failed", "outcome", outcome, "error", err)
		return TurnResponse{}, err
	}

	if state.Finished && state.Prediction != nil {
		s.metrics.ObservePrediction(labelName(*state.Prediction))
	}
	logger.Info("turn completed",
		"outcome", outcome,
		"collected", len(state.CollectedFeatures),
		"remaining", len(state.RemainingQuestions),
		"finished", state.Finished,
	)

	return TurnResponse{
		State:      state,
		AIMessage:  message,
		IsFinished: state.Finished,
		Prediction: state.Prediction,
		Confidence: state.Confidence,
	}, nil
}

func (s *Service) dispatch(ctx context.Context, req TurnRequest) (SessionState, string, error) {
	if req.State == nil {
		if req.InitialData == nil {
			return SessionState{}, "", ErrMissingInitialData
		}
		return s.machine.Start(ctx, *req.InitialData)
	}

	state := *req.State
	if err := state.Validate(); err != nil {
		return SessionState{}, "", err
	}
	if state.Finished {
		return SessionState{}, "", ErrSessionFinished
	}
	if strings.TrimSpace(req.UserResponse) == "" {
		return SessionState{}, "", ErrMissingReply
	}
	return s.machine.Continue(ctx, state, req.UserResponse)
}

func outcomeFor(req TurnRequest, state SessionState, err error) string {
	switch {
	case err != nil:
		return "error"
	case req.State == nil:
		return "started"
	case state.Finished:
		return "finished"
	case len(state.RemainingQuestions) == len(req.State.RemainingQuestions):
		return "reask"
	default:
		return "accepted"
	}
}

func labelName(prediction int) string {
	if prediction == 1 {
		return "positive"
	}
	if prediction == 0 {
		return "negative"
	}
	return strconv.Itoa(prediction)
}
