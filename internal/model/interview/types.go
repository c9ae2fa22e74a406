package interview

import "context"

// Conversation is the opaque handle to the LLM-side dialogue. The accumulated
// message history lives behind the handle, not in the session.
type Conversation interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// SignalKind discriminates the inbound turn events a session reacts to.
type SignalKind int

const (
	// SignalAnswer carries the candidate's transcribed utterance. An empty
	// text on the very first call is treated as the session start.
	SignalAnswer SignalKind = iota
	// SignalSilence reports that the candidate said nothing for a while.
	SignalSilence
	// SignalTimeUp forces termination regardless of the turn counter.
	SignalTimeUp
)

// Signal is one inbound turn event.
type Signal struct {
	Kind SignalKind
	Text string
}

// State tracks where a session is in its lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateAwaitingFeedback
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateAwaitingFeedback:
		return "awaiting_feedback"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// TranscriptEntry is one side of a completed exchange. Entries are append-only.
type TranscriptEntry struct {
	Speaker string `json:"speaker"` // "user" or "assistant"
	Text    string `json:"text"`
}
