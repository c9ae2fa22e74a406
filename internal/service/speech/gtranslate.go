package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// translateChunkLimit is the per-request text cap the unofficial Google
// Translate TTS endpoint imposes.
const translateChunkLimit = 200

// TranslateClient synthesizes speech through the Google Translate TTS
// endpoint. No named voices; the voice argument selects an accent locale.
// Lower fidelity than Edge TTS, but a dependable fallback.
type TranslateClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewTranslateClient creates a Google Translate TTS client.
func NewTranslateClient() *TranslateClient {
	return &TranslateClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://translate.google.com/translate_tts",
	}
}

func (c *TranslateClient) Name() string { return "google-translate" }

// Synthesize fetches MP3 audio for text, splitting it into endpoint-sized
// chunks at sentence boundaries and concatenating the payloads.
func (c *TranslateClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	locale := strings.TrimSpace(voice)
	if locale == "" {
		return nil, fmt.Errorf("google-translate: locale is empty")
	}

	var audio []byte
	for _, chunk := range splitForSynthesis(text, translateChunkLimit) {
		part, err := c.fetchChunk(ctx, chunk, locale)
		if err != nil {
			return nil, err
		}
		audio = append(audio, part...)
	}

	if len(audio) == 0 {
		return nil, fmt.Errorf("google-translate: no audio received")
	}
	return audio, nil
}

func (c *TranslateClient) fetchChunk(ctx context.Context, chunk, locale string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", locale)
	query.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google-translate: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google-translate: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google-translate: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google-translate: read body: %w", err)
	}
	return body, nil
}

// splitForSynthesis cuts text into chunks of at most limit runes, preferring
// sentence boundaries and falling back to word boundaries for long sentences.
func splitForSynthesis(text string, limit int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, sentence := range splitSentences(text) {
		if utf8.RuneCountInString(sentence) > limit {
			flush()
			chunks = append(chunks, splitWords(sentence, limit)...)
			continue
		}
		if utf8.RuneCountInString(current.String())+utf8.RuneCountInString(sentence)+1 > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// splitSentences breaks text on '.', '!', '?' and newlines, retaining the
// punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch r {
		case '.', '!', '?':
			b.WriteRune(r)
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		case '\n', '\r':
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func splitWords(sentence string, limit int) []string {
	var chunks []string
	var current strings.Builder
	for _, word := range strings.Fields(sentence) {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(word)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
