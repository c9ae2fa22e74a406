package persona

// Persona captures the interviewer identity fixed for a session's lifetime.
// VoiceID selects the primary synthesis voice; FallbackLocale steers the
// lower-fidelity fallback backend, which has no concept of named voices.
type Persona struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Style          string `json:"style"`
	VoiceID        string `json:"voiceId"`
	FallbackLocale string `json:"fallbackLocale"`
	Gender         string `json:"gender,omitempty"` // cosmetic only
}

// Seed provides the default interviewer roster.
func Seed() []Persona {
	return []Persona{
		{
			ID:             "elon-musk",
			Name:           "Mr. Elon Musk",
			Style:          "direct and first-principles driven; pushes for precise engineering reasoning and concrete numbers",
			VoiceID:        "en-US-GuyNeural",
			FallbackLocale: "en-US",
			Gender:         "male",
		},
		{
			ID:             "bill-gates",
			Name:           "Mr. Bill Gates",
			Style:          "calm and analytical; probes fundamentals patiently and rewards structured answers",
			VoiceID:        "en-US-ChristopherNeural",
			FallbackLocale: "en-GB",
			Gender:         "male",
		},
		{
			ID:             "tony-stark",
			Name:           "Mr. Tony Stark",
			Style:          "fast-paced and witty; cross-examines sharply and expects candidates to keep up",
			VoiceID:        "en-US-EricNeural",
			FallbackLocale: "en-AU",
			Gender:         "male",
		},
		{
			ID:             "bruce-wayne",
			Name:           "Mr. Bruce Wayne",
			Style:          "reserved and exacting; asks few questions but expects depth in every answer",
			VoiceID:        "en-US-DavisNeural",
			FallbackLocale: "en-IN",
			Gender:         "male",
		},
	}
}
