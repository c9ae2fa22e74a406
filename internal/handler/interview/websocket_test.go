package interview

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/voca-ai/voca-backend/internal/model/persona"
	interviewservice "github.com/voca-ai/voca-backend/internal/service/interview"
)

// promptedConversation answers based on the prompt it receives, so the test
// can steer the interview through its terminal states.
type promptedConversation struct{}

func (promptedConversation) Send(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Start the interview"):
		return "Hello, I am your interviewer. Tell me about yourself.", nil
	case strings.Contains(prompt, "time has expired"):
		return "Time is up. Let's conclude the interview.", nil
	case strings.Contains(prompt, "entire transcript"):
		return "Strengths: you communicate clearly.", nil
	default:
		return "Interesting. Next question: what is a goroutine?", nil
	}
}

type staticSynthesizer struct {
	audio []byte
}

func (s staticSynthesizer) Synthesize(context.Context, string, string, string) []byte {
	return s.audio
}

type wireMessage struct {
	Type       string `json:"type"`
	Data       string `json:"data"`
	Text       string `json:"text"`
	IsFinished bool   `json:"is_finished"`
}

func startSocketServer(t *testing.T, registry *interviewservice.Registry, synth Synthesizer) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewSocketHandler(registry, synth).RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/interview/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return msg
}

func TestSocketUnknownSessionClosesWithCode(t *testing.T) {
	registry := interviewservice.NewRegistry()
	server := startSocketServer(t, registry, staticSynthesizer{})

	conn := dial(t, server, "does-not-exist")

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("expected close error, got %v", err)
	}
	if closeErr.Code != CloseCodeSessionNotFound {
		t.Fatalf("expected close code %d, got %d", CloseCodeSessionNotFound, closeErr.Code)
	}
}

func TestSocketInterviewFlow(t *testing.T) {
	registry := interviewservice.NewRegistry()
	interviewer := persona.Seed()[0]
	session := interviewservice.NewSession("flow-session", interviewer, "", "Backend Engineer role", promptedConversation{})
	registry.Add(session)

	server := startSocketServer(t, registry, staticSynthesizer{audio: []byte("mp3-bytes")})
	conn := dial(t, server, "flow-session")

	// Opening turn arrives unprompted.
	opening := readWire(t, conn)
	if opening.Type != "audio" {
		t.Fatalf("expected audio message, got %q", opening.Type)
	}
	if opening.Text == "" {
		t.Fatal("expected non-empty opening text")
	}
	decoded, err := base64.StdEncoding.DecodeString(opening.Data)
	if err != nil || string(decoded) != "mp3-bytes" {
		t.Fatalf("unexpected audio payload: %q (%v)", opening.Data, err)
	}

	// A couple of normal exchanges.
	for i := 0; i < 2; i++ {
		if err := conn.WriteJSON(map[string]string{"type": "answer", "text": "my answer"}); err != nil {
			t.Fatalf("write answer: %v", err)
		}
		turn := readWire(t, conn)
		if turn.Type != "audio" || turn.Text == "" {
			t.Fatalf("unexpected turn message: %+v", turn)
		}
	}

	// Time up mid-interview: wrap-up turn, then feedback, then close.
	if err := conn.WriteJSON(map[string]string{"type": "time_up"}); err != nil {
		t.Fatalf("write time_up: %v", err)
	}
	wrapUp := readWire(t, conn)
	if wrapUp.Type != "audio" {
		t.Fatalf("expected wrap-up audio message, got %q", wrapUp.Type)
	}
	if !strings.Contains(strings.ToLower(wrapUp.Text), "time is up") {
		t.Fatalf("unexpected wrap-up text: %q", wrapUp.Text)
	}

	feedback := readWire(t, conn)
	if feedback.Type != "feedback" || !feedback.IsFinished {
		t.Fatalf("unexpected feedback message: %+v", feedback)
	}
	if feedback.Text == "" {
		t.Fatal("expected feedback text")
	}

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected server to close the channel after feedback")
	}

	if _, err := registry.Get("flow-session"); err == nil {
		t.Fatal("session should be released after the interview ends")
	}
}

func TestSocketSilenceSignal(t *testing.T) {
	registry := interviewservice.NewRegistry()
	session := interviewservice.NewSession("silent-session", persona.Seed()[1], "", "role", promptedConversation{})
	registry.Add(session)

	server := startSocketServer(t, registry, staticSynthesizer{})
	conn := dial(t, server, "silent-session")

	readWire(t, conn) // opening turn

	if err := conn.WriteJSON(map[string]string{"type": "silence_timeout"}); err != nil {
		t.Fatalf("write silence: %v", err)
	}
	nudge := readWire(t, conn)
	if nudge.Type != "audio" || nudge.Text == "" {
		t.Fatalf("expected nudge turn, got %+v", nudge)
	}
	if nudge.Data != "" {
		t.Fatalf("expected empty audio data when synthesis yields nothing, got %q", nudge.Data)
	}
}

func TestSocketDisconnectReleasesSession(t *testing.T) {
	registry := interviewservice.NewRegistry()
	session := interviewservice.NewSession("gone-session", persona.Seed()[2], "", "role", promptedConversation{})
	registry.Add(session)

	server := startSocketServer(t, registry, staticSynthesizer{})
	conn := dial(t, server, "gone-session")

	readWire(t, conn) // opening turn
	conn.Close()

	for i := 0; i < 100; i++ {
		if registry.Len() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("session not released after disconnect")
}
