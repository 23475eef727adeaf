package screening

import (
	"errors"
	"fmt"
	"strings"
)

// StateVersion is the current SessionState schema version. Blobs produced by
// this server carry it; blobs with any other version are rejected so that
// in-flight sessions never deserialize into the wrong shape silently.
const StateVersion = 1

const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

var (
	ErrInvalidState       = errors.New("invalid session state")
	ErrInvalidInitialData = errors.New("invalid initial data")
)

// InitialContext carries the demographic fields collected before the
// interview starts.
type InitialContext struct {
	Age                int    `json:"age"`
	Gender             int    `json:"gender"`
	Ethnicity          string `json:"ethnicity"`
	CountryOfResidence string `json:"country_of_residence"`
}

// Validate checks the bounds the classifier was trained on.
func (c InitialContext) Validate() error {
	if c.Age < 18 || c.Age > 64 {
		return fmt.Errorf("%w: age must be between 18 and 64", ErrInvalidInitialData)
	}
	if c.Gender != 0 && c.Gender != 1 {
		return fmt.Errorf("%w: gender must be 0 or 1", ErrInvalidInitialData)
	}
	if strings.TrimSpace(c.Ethnicity) == "" {
		return fmt.Errorf("%w: ethnicity is required", ErrInvalidInitialData)
	}
	if strings.TrimSpace(c.CountryOfResidence) == "" {
		return fmt.Errorf("%w: country_of_residence is required", ErrInvalidInitialData)
	}
	return nil
}

// TranscriptEntry is one turn record. The transcript is append-only.
type TranscriptEntry struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// SessionState is the full conversation state. It is owned by the client and
// round-tripped on every turn; the server never stores it.
type SessionState struct {
	Version            int               `json:"version"`
	InitialContext     InitialContext    `json:"initial_context"`
	CollectedFeatures  map[string]int    `json:"collected_features"`
	RemainingQuestions []string          `json:"remaining_questions"`
	Transcript         []TranscriptEntry `json:"transcript"`
	Finished           bool              `json:"finished"`
	Prediction         *int              `json:"prediction,omitempty"`
	Confidence         *float64          `json:"confidence,omitempty"`
}

func newSessionState(initial InitialContext) SessionState {
	return SessionState{
		Version:            StateVersion,
		InitialContext:     initial,
		CollectedFeatures:  map[string]int{},
		RemainingQuestions: MasterKeys(),
		Transcript:         []TranscriptEntry{},
	}
}

// CurrentQuestion returns the head of the remaining sequence.
func (s *SessionState) CurrentQuestion() (Question, bool) {
	if len(s.RemainingQuestions) == 0 {
		return Question{}, false
	}
	return QuestionByKey(s.RemainingQuestions[0])
}

func (s *SessionState) appendTranscript(speaker, text string) {
	s.Transcript = append(s.Transcript, TranscriptEntry{Speaker: speaker, Text: text})
}

// Validate rejects tampered or stale client blobs before any oracle call.
// Invariants: remaining_questions is a suffix of the master sequence,
// collected_features covers exactly the consumed prefix, and finished holds
// iff nothing remains and a prediction was computed.
func (s SessionState) Validate() error {
	if s.Version != StateVersion {
		return fmt.Errorf("%w: unsupported state version %d", ErrInvalidState, s.Version)
	}

	master := MasterKeys()
	if len(s.RemainingQuestions) > len(master) {
		return fmt.Errorf("%w: too many remaining questions", ErrInvalidState)
	}
	consumed := len(master) - len(s.RemainingQuestions)
	for i, key := range s.RemainingQuestions {
		if master[consumed+i] != key {
			return fmt.Errorf("%w: remaining questions are not a suffix of the master sequence", ErrInvalidState)
		}
	}

	if len(s.CollectedFeatures) != consumed {
		return fmt.Errorf("%w: collected features do not match consumed questions", ErrInvalidState)
	}
	for _, key := range master[:consumed] {
		if _, ok := s.CollectedFeatures[key]; !ok {
			return fmt.Errorf("%w: missing collected feature for %q", ErrInvalidState, key)
		}
	}

	if len(s.RemainingQuestions) == 0 {
		if !s.Finished || s.Prediction == nil {
			return fmt.Errorf("%w: exhausted session without a recorded prediction", ErrInvalidState)
		}
	} else if s.Finished || s.Prediction != nil {
		return fmt.Errorf("%w: finished flag inconsistent with progress", ErrInvalidState)
	}
	return nil
}
