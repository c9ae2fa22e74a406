package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	edgeWSURL          = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeTrustedToken   = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeOrigin         = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	edgeOutputFormat   = "audio-24khz-48kbitrate-mono-mp3"
	edgeBinaryHeadSize = 2 // big-endian header length prefix on binary frames
)

// EdgeClient streams synthesis from the Edge read-aloud WebSocket service.
// It is the highest-fidelity layer of the chain and the only one that honors
// named neural voices.
type EdgeClient struct {
	dialer *websocket.Dialer
	wsURL  string
}

// NewEdgeClient creates an Edge TTS client.
func NewEdgeClient() *EdgeClient {
	return &EdgeClient{
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		wsURL:  edgeWSURL,
	}
}

func (c *EdgeClient) Name() string { return "edge-tts" }

// Synthesize speaks text with the given voice and collects every streamed
// audio frame into a single buffer. The caller bounds the attempt through ctx.
func (c *EdgeClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(voice) == "" {
		return nil, fmt.Errorf("edge-tts: voice is empty")
	}

	connID := strings.ReplaceAll(uuid.NewString(), "-", "")
	url := fmt.Sprintf("%s?TrustedClientToken=%s&ConnectionId=%s", c.wsURL, edgeTrustedToken, connID)

	header := http.Header{}
	header.Set("Origin", edgeOrigin)

	conn, _, err := c.dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("edge-tts: dial: %w", err)
	}
	defer conn.Close()

	// Unblock reads when the caller's deadline fires.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	timestamp := time.Now().UTC().Format(time.RFC1123)

	configMsg := fmt.Sprintf(
		"X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
			`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"%s"}}}}`,
		timestamp, edgeOutputFormat)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		return nil, fmt.Errorf("edge-tts: send config: %w", err)
	}

	ssmlMsg := fmt.Sprintf(
		"X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%s\r\nPath:ssml\r\n\r\n%s",
		connID, timestamp, buildSSML(voice, text))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return nil, fmt.Errorf("edge-tts: send ssml: %w", err)
	}

	var audio bytes.Buffer
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("edge-tts: %w", ctx.Err())
			}
			return nil, fmt.Errorf("edge-tts: read: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, fmt.Errorf("edge-tts: no audio received")
				}
				return audio.Bytes(), nil
			}
		case websocket.BinaryMessage:
			if len(data) < edgeBinaryHeadSize {
				continue
			}
			headLen := int(binary.BigEndian.Uint16(data[:edgeBinaryHeadSize]))
			if edgeBinaryHeadSize+headLen > len(data) {
				continue
			}
			head := string(data[edgeBinaryHeadSize : edgeBinaryHeadSize+headLen])
			if strings.Contains(head, "Path:audio") {
				audio.Write(data[edgeBinaryHeadSize+headLen:])
			}
		}
	}
}

func buildSSML(voice, text string) string {
	return fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'><voice name='%s'>%s</voice></speak>",
		voice, escapeSSML(text))
}

func escapeSSML(text string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(text)
}
