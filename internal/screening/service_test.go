package screening

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenline/screening-ai-platform/pkg/logging"
)

func newTestService(machine *Machine) *Service {
	return NewService(machine, nil, logging.New("error"))
}

func TestServiceTurnStartsSession(t *testing.T) {
	machine := newTestMachine(&stubLLM{text: "Welcome, first question."}, &scriptedInterpreter{}, &stubScorer{})
	service := newTestService(machine)

	initial := validInitialContext()
	resp, err := service.Turn(context.Background(), TurnRequest{InitialData: &initial})
	require.NoError(t, err)

	assert.Equal(t, "Welcome, first question.", resp.AIMessage)
	assert.False(t, resp.IsFinished)
	assert.Nil(t, resp.Prediction)
	assert.Nil(t, resp.Confidence)
	assert.Len(t, resp.State.RemainingQuestions, TotalQuestions())
	require.NoError(t, resp.State.Validate())
}

func TestServiceTurnRequiresInitialData(t *testing.T) {
	service := newTestService(newTestMachine(&stubLLM{}, &scriptedInterpreter{}, &stubScorer{}))

	_, err := service.Turn(context.Background(), TurnRequest{})
	require.ErrorIs(t, err, ErrMissingInitialData)
}

func TestServiceTurnRequiresReply(t *testing.T) {
	service := newTestService(newTestMachine(&stubLLM{}, &scriptedInterpreter{}, &stubScorer{}))

	state := newSessionState(validInitialContext())
	_, err := service.Turn(context.Background(), TurnRequest{State: &state, UserResponse: "   "})
	require.ErrorIs(t, err, ErrMissingReply)
}

func TestServiceTurnRejectsFinishedSession(t *testing.T) {
	service := newTestService(newTestMachine(&stubLLM{}, &scriptedInterpreter{}, &stubScorer{}))

	prediction := 0
	confidence := 0.75
	state := newSessionState(validInitialContext())
	for _, key := range MasterKeys() {
		state.CollectedFeatures[key] = 0
	}
	state.RemainingQuestions = nil
	state.Finished = true
	state.Prediction = &prediction
	state.Confidence = &confidence
	require.NoError(t, state.Validate())

	_, err := service.Turn(context.Background(), TurnRequest{State: &state, UserResponse: "hello again"})
	require.ErrorIs(t, err, ErrSessionFinished)
}

func TestServiceTurnRejectsTamperedState(t *testing.T) {
	service := newTestService(newTestMachine(&stubLLM{}, &scriptedInterpreter{}, &stubScorer{}))

	state := newSessionState(validInitialContext())
	state.RemainingQuestions[0], state.RemainingQuestions[1] = state.RemainingQuestions[1], state.RemainingQuestions[0]

	_, err := service.Turn(context.Background(), TurnRequest{State: &state, UserResponse: "yes"})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestServiceTurnFullInterview(t *testing.T) {
	scorer := &stubScorer{result: PredictionResult{Label: 0, Confidence: 0.93}}
	machine := newTestMachine(&stubLLM{}, &scriptedInterpreter{labels: []AnswerLabel{LabelNegative}}, scorer)
	service := newTestService(machine)

	initial := validInitialContext()
	resp, err := service.Turn(context.Background(), TurnRequest{InitialData: &initial})
	require.NoError(t, err)

	turns := 0
	for !resp.IsFinished {
		state := resp.State
		resp, err = service.Turn(context.Background(), TurnRequest{State: &state, UserResponse: "no, not really"})
		require.NoError(t, err)
		turns++
		require.LessOrEqual(t, turns, TotalQuestions(), "interview must terminate after one accepted answer per question")
	}

	assert.Equal(t, TotalQuestions(), turns)
	require.NotNil(t, resp.Prediction)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, 0, *resp.Prediction)
	assert.InDelta(t, 0.93, *resp.Confidence, 1e-9)
	require.NoError(t, resp.State.Validate())

	// The finished state must be refused if replayed.
	state := resp.State
	_, err = service.Turn(context.Background(), TurnRequest{State: &state, UserResponse: "one more"})
	require.ErrorIs(t, err, ErrSessionFinished)
}

func TestOutcomeFor(t *testing.T) {
	started := newSessionState(validInitialContext())

	accepted := started
	accepted.RemainingQuestions = accepted.RemainingQuestions[1:]

	finished := started
	finished.RemainingQuestions = nil
	finished.Finished = true

	tests := []struct {
		name  string
		req   TurnRequest
		state SessionState
		err   error
		want  string
	}{
		{"error", TurnRequest{}, SessionState{}, ErrMissingInitialData, "error"},
		{"started", TurnRequest{}, started, nil, "started"},
		{"finished", TurnRequest{State: &started}, finished, nil, "finished"},
		{"reask", TurnRequest{State: &started}, started, nil, "reask"},
		{"accepted", TurnRequest{State: &started}, accepted, nil, "accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeFor(tt.req, tt.state, tt.err))
		})
	}
}
