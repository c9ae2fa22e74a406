package speech

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/voca-ai/voca-backend/internal/config"
)

// Backend is one synthesis layer. The voice argument is whatever selector the
// backend understands: a named voice for Edge TTS, a locale for the Google
// Translate endpoint.
type Backend interface {
	Name() string
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Chain tries an ordered ladder of synthesis backends, best fidelity first,
// each wrapped in its own timeout. Synthesis backends are third-party,
// rate-limited network services; the ladder keeps the conversational loop
// from blocking on a single flaky provider.
type Chain struct {
	primary   Backend
	secondary Backend
	tertiary  Backend

	primaryTimeout   time.Duration
	secondaryTimeout time.Duration
	defaultLocale    string
}

// NewChain wires the production ladder: Edge TTS with the persona voice,
// Google Translate TTS with the persona's fallback locale, then Google
// Translate TTS with the default locale as the last line of defense.
func NewChain(cfg config.SpeechConfig) *Chain {
	translate := NewTranslateClient()
	return &Chain{
		primary:          NewEdgeClient(),
		secondary:        translate,
		tertiary:         translate,
		primaryTimeout:   cfg.PrimaryTimeout,
		secondaryTimeout: cfg.SecondaryTimeout,
		defaultLocale:    cfg.DefaultLocale,
	}
}

// NewChainWithBackends builds a chain over explicit backends. Used by tests
// to exercise the fallback policy with stubs.
func NewChainWithBackends(primary, secondary, tertiary Backend, primaryTimeout, secondaryTimeout time.Duration, defaultLocale string) *Chain {
	return &Chain{
		primary:          primary,
		secondary:        secondary,
		tertiary:         tertiary,
		primaryTimeout:   primaryTimeout,
		secondaryTimeout: secondaryTimeout,
		defaultLocale:    defaultLocale,
	}
}

// Synthesize turns sanitized text into an audio payload. It never fails:
// exhausting every layer yields an empty payload, and the caller still
// delivers the text. The tertiary attempt runs with no chain-side timeout.
func (c *Chain) Synthesize(ctx context.Context, text, voiceID, fallbackLocale string) []byte {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	attempts := []struct {
		backend Backend
		voice   string
		timeout time.Duration
	}{
		{c.primary, voiceID, c.primaryTimeout},
		{c.secondary, fallbackLocale, c.secondaryTimeout},
		{c.tertiary, c.defaultLocale, 0},
	}

	for _, attempt := range attempts {
		if attempt.backend == nil {
			continue
		}

		audio := c.try(ctx, attempt.backend, text, attempt.voice, attempt.timeout)
		if len(audio) > 0 {
			return audio
		}
	}

	log.Printf("[tts] all synthesis layers failed, delivering text without audio")
	return nil
}

func (c *Chain) try(ctx context.Context, backend Backend, text, voice string, timeout time.Duration) []byte {
	attemptCtx := ctx
	cancel := func() {}
	if timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	audio, err := backend.Synthesize(attemptCtx, text, voice)
	if err != nil {
		log.Printf("[tts] %s failed (voice=%s): %v", backend.Name(), voice, err)
		return nil
	}
	if len(audio) == 0 {
		log.Printf("[tts] %s returned empty audio (voice=%s)", backend.Name(), voice)
		return nil
	}
	return audio
}
