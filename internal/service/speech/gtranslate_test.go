package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitForSynthesisShortText(t *testing.T) {
	chunks := splitForSynthesis("Tell me about yourself.", translateChunkLimit)
	if len(chunks) != 1 {
		t.Fatalf("expected single chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "Tell me about yourself." {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplitForSynthesisRespectsLimit(t *testing.T) {
	long := strings.Repeat("This sentence pads the text towards the limit. ", 20)
	for _, chunk := range splitForSynthesis(long, translateChunkLimit) {
		if utf8.RuneCountInString(chunk) > translateChunkLimit {
			t.Fatalf("chunk exceeds limit (%d runes): %q", utf8.RuneCountInString(chunk), chunk)
		}
	}
}

func TestSplitForSynthesisLongSentenceFallsBackToWords(t *testing.T) {
	sentence := strings.Repeat("word ", 100) + "end."
	chunks := splitForSynthesis(sentence, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected word-level split, got %v", chunks)
	}
	for _, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 50 {
			t.Fatalf("chunk exceeds limit: %q", chunk)
		}
	}
}

func TestTranslateClientConcatenatesChunks(t *testing.T) {
	var locales []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locales = append(locales, r.URL.Query().Get("tl"))
		_, _ = w.Write([]byte("mp3|"))
	}))
	defer server.Close()

	client := NewTranslateClient()
	client.baseURL = server.URL

	text := "First sentence. Second sentence. " + strings.Repeat("Filler sentence to force another chunk. ", 8)
	audio, err := client.Synthesize(context.Background(), text, "en-GB")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}

	if len(locales) < 2 {
		t.Fatalf("expected multiple chunk requests, got %d", len(locales))
	}
	for _, locale := range locales {
		if locale != "en-GB" {
			t.Fatalf("unexpected locale: %q", locale)
		}
	}
	if string(audio) != strings.Repeat("mp3|", len(locales)) {
		t.Fatalf("audio not concatenated in order: %q", audio)
	}
}

func TestTranslateClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTranslateClient()
	client.baseURL = server.URL

	if _, err := client.Synthesize(context.Background(), "hello there.", "en"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestTranslateClientEmptyLocale(t *testing.T) {
	client := NewTranslateClient()
	if _, err := client.Synthesize(context.Background(), "hello.", "  "); err == nil {
		t.Fatal("expected error for empty locale")
	}
}
