package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/voca-ai/voca-backend/internal/model/interview"
	"github.com/voca-ai/voca-backend/internal/model/persona"
	"github.com/voca-ai/voca-backend/internal/service/speech"
)

// Session owns the deterministic interview state machine for one candidate.
// A session is driven by exactly one connection at a time, so its state is not
// guarded by a lock; only the Registry is shared across connections.
type Session struct {
	id         string
	persona    persona.Persona
	resumeText string
	jdText     string

	conv       interview.Conversation
	state      interview.State
	turnCount  int
	transcript []interview.TranscriptEntry
}

// NewSession builds a session around an already-opened conversation handle.
func NewSession(id string, p persona.Persona, resumeText, jdText string, conv interview.Conversation) *Session {
	return &Session{
		id:         id,
		persona:    p,
		resumeText: truncate(resumeText, maxResumeChars),
		jdText:     truncate(jdText, maxJDChars),
		conv:       conv,
		state:      interview.StateNotStarted,
	}
}

// ID returns the registry key for this session.
func (s *Session) ID() string { return s.id }

// Persona returns the interviewer chosen at creation.
func (s *Session) Persona() persona.Persona { return s.persona }

// State reports the current lifecycle state.
func (s *Session) State() interview.State { return s.state }

// TurnCount reports completed LLM-backed exchanges. Never exceeds MaxTurns.
func (s *Session) TurnCount() int { return s.turnCount }

// Transcript returns a copy of the recorded exchanges.
func (s *Session) Transcript() []interview.TranscriptEntry {
	return append([]interview.TranscriptEntry(nil), s.transcript...)
}

// Start emits the opening interviewer line. Equivalent to advancing with an
// empty answer on a fresh session.
func (s *Session) Start(ctx context.Context) (string, bool, error) {
	return s.Advance(ctx, interview.Signal{Kind: interview.SignalAnswer})
}

// Advance consumes one inbound signal and produces the interviewer's next
// line plus a finished flag. Precedence: time-up first, then the local turn
// budget, then silence handling, then the normal answer path. A conversation
// failure is fatal to the session and is propagated.
func (s *Session) Advance(ctx context.Context, sig interview.Signal) (string, bool, error) {
	if s.state == interview.StateNotStarted {
		s.state = interview.StateInProgress
	}
	if s.state != interview.StateInProgress {
		return "", false, fmt.Errorf("session %s cannot advance in state %s", s.id, s.state)
	}

	if sig.Kind == interview.SignalTimeUp {
		reply, err := s.conv.Send(ctx, timeUpPrompt)
		if err != nil {
			return "", false, fmt.Errorf("conversation failed: %w", err)
		}
		s.state = interview.StateAwaitingFeedback
		return speech.CleanForSpeech(reply), true, nil
	}

	if s.turnCount >= MaxTurns {
		s.state = interview.StateAwaitingFeedback
		return turnLimitMessage, true, nil
	}

	var prompt, userEntry string
	switch {
	case sig.Kind == interview.SignalSilence:
		prompt = nudgePrompt
		userEntry = silenceSentinel
	case s.turnCount == 0 && strings.TrimSpace(sig.Text) == "":
		prompt = beginPrompt
		userEntry = silenceSentinel
	default:
		prompt = evaluatePrompt(sig.Text)
		userEntry = sig.Text
	}

	reply, err := s.conv.Send(ctx, prompt)
	if err != nil {
		return "", false, fmt.Errorf("conversation failed: %w", err)
	}
	cleaned := speech.CleanForSpeech(reply)

	s.turnCount++
	s.transcript = append(s.transcript,
		interview.TranscriptEntry{Speaker: "user", Text: userEntry},
		interview.TranscriptEntry{Speaker: "assistant", Text: cleaned},
	)

	finished := containsTermination(cleaned)
	if finished {
		s.state = interview.StateAwaitingFeedback
	}
	return cleaned, finished, nil
}

// GenerateFeedback asks the LLM for the closing mentor feedback and moves the
// session to its terminal state.
func (s *Session) GenerateFeedback(ctx context.Context) (string, error) {
	if s.state == interview.StateDone {
		return "", fmt.Errorf("session %s already finished", s.id)
	}

	feedback, err := s.conv.Send(ctx, feedbackPrompt)
	if err != nil {
		return "", fmt.Errorf("conversation failed: %w", err)
	}
	s.state = interview.StateDone
	return speech.CleanForSpeech(feedback), nil
}

func containsTermination(reply string) bool {
	lowered := strings.ToLower(reply)
	for _, phrase := range terminationPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
