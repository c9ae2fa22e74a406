package interview

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	interviewmodel "github.com/voca-ai/voca-backend/internal/model/interview"
	interviewservice "github.com/voca-ai/voca-backend/internal/service/interview"
)

// CloseCodeSessionNotFound is sent before any message exchange when the
// channel is opened with an unknown session id.
const CloseCodeSessionNotFound = 4004

// Synthesizer produces best-effort audio for a turn. An empty payload means
// no audio is available; the turn text is delivered regardless.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, fallbackLocale string) []byte
}

// SocketHandler drives one interview over a WebSocket connection.
type SocketHandler struct {
	registry *interviewservice.Registry
	speech   Synthesizer
	upgrader websocket.Upgrader
}

// NewSocketHandler creates the interview WebSocket handler.
func NewSocketHandler(registry *interviewservice.Registry, speech Synthesizer) *SocketHandler {
	return &SocketHandler{
		registry: registry,
		speech:   speech,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the interview channel route.
func (h *SocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/interview/{sessionID}", h.handleInterview)
}

type inboundMessage struct {
	Text string `json:"text"`
	Type string `json:"type"` // "answer", "silence_timeout", "time_up"
}

type audioMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
	Text string `json:"text"`
}

type feedbackMessage struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	IsFinished bool   `json:"is_finished"`
}

// handleInterview runs the turn loop: opening line, then one exchange per
// inbound message until the session reports finished, then feedback.
func (h *SocketHandler) handleInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.registry.Get(sessionID)
	if err != nil {
		msg := websocket.FormatCloseMessage(CloseCodeSessionNotFound, "session not found")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		return
	}
	defer h.registry.Remove(sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	log.Printf("[websocket] interview channel open session=%s persona=%s", sessionID, session.Persona().ID)

	reply, finished, err := session.Start(ctx)
	if err != nil {
		log.Printf("[websocket] session %s start failed: %v", sessionID, err)
		return
	}
	if err := h.sendTurn(ctx, conn, session, reply); err != nil {
		return
	}

	for !finished {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] session %s read error: %v", sessionID, err)
			}
			return
		}

		reply, finished, err = session.Advance(ctx, toSignal(msg))
		if err != nil {
			log.Printf("[websocket] session %s advance failed: %v", sessionID, err)
			return
		}
		if err := h.sendTurn(ctx, conn, session, reply); err != nil {
			return
		}
	}

	feedback, err := session.GenerateFeedback(ctx)
	if err != nil {
		log.Printf("[websocket] session %s feedback failed: %v", sessionID, err)
		return
	}
	if err := conn.WriteJSON(feedbackMessage{Type: "feedback", Text: feedback, IsFinished: true}); err != nil {
		log.Printf("[websocket] session %s write feedback failed: %v", sessionID, err)
	}
	log.Printf("[websocket] interview finished session=%s turns=%d", sessionID, session.TurnCount())
}

// sendTurn synthesizes audio for the reply and delivers both. Missing audio
// is not an error: the text still goes out with an empty data field.
func (h *SocketHandler) sendTurn(ctx context.Context, conn *websocket.Conn, session *interviewservice.Session, text string) error {
	interviewer := session.Persona()
	audio := h.speech.Synthesize(ctx, text, interviewer.VoiceID, interviewer.FallbackLocale)

	encoded := ""
	if len(audio) > 0 {
		encoded = base64.StdEncoding.EncodeToString(audio)
	}

	if err := conn.WriteJSON(audioMessage{Type: "audio", Data: encoded, Text: text}); err != nil {
		log.Printf("[websocket] session %s write turn failed: %v", session.ID(), err)
		return err
	}
	return nil
}

func toSignal(msg inboundMessage) interviewmodel.Signal {
	switch msg.Type {
	case "silence_timeout":
		return interviewmodel.Signal{Kind: interviewmodel.SignalSilence}
	case "time_up":
		return interviewmodel.Signal{Kind: interviewmodel.SignalTimeUp}
	default:
		return interviewmodel.Signal{Kind: interviewmodel.SignalAnswer, Text: msg.Text}
	}
}
