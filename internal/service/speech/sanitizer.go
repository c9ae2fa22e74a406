package speech

import "strings"

// CleanForSpeech strips the markdown artifacts LLM replies tend to carry
// ('*' and '#') and trims surrounding whitespace, so they are never spoken
// aloud. Idempotent.
func CleanForSpeech(text string) string {
	cleaned := strings.NewReplacer("*", "", "#", "").Replace(text)
	return strings.TrimSpace(cleaned)
}
