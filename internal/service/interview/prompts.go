package interview

import (
	"fmt"

	"github.com/voca-ai/voca-backend/internal/model/persona"
)

const (
	// MaxTurns bounds the number of LLM-backed exchanges per session.
	MaxTurns = 15

	// Context embedded in the system instruction is truncated hard: prompt
	// size must stay bounded no matter what the client uploads.
	maxResumeChars = 3000
	maxJDChars     = 1500

	silenceSentinel = "[SILENCE]"
)

// turnLimitMessage is returned locally once the turn budget is exhausted,
// without consulting the LLM.
const turnLimitMessage = "The interview is now over. Please give me a moment to generate your feedback."

// terminationPhrases end the interview when they appear in a sanitized reply,
// matched case-insensitively. This is a heuristic carried over from the
// product behavior, not a structured protocol.
var terminationPhrases = []string{
	"interview is now over",
	"time is up",
}

const beginPrompt = "Start the interview now. Ask the Introduction question."

const nudgePrompt = "The candidate has been silent for 10 seconds. Politely nudge them."

const timeUpPrompt = "The interview time has expired. Politely tell the candidate the time is up and you will now provide feedback."

func evaluatePrompt(answer string) string {
	return fmt.Sprintf(`Candidate Answer: %q
Instructions: Evaluate the answer, cross-question if needed, otherwise move on to the next topic. Keep it spoken and concise.`, answer)
}

const feedbackPrompt = `Based on the entire transcript, provide detailed feedback as a mentor to the candidate.
Structure:
1. Strengths
2. Weaknesses
3. Improvements
4. Resources
5. Resume feedback and matching score against the job description, including whether the resume would pass ATS filters for this role (0-100%)
6. Resume improvement suggestions
7. Final remarks`

// BuildSystemInstruction renders the system prompt that opens the LLM
// conversation. Resume and job description are truncated before embedding.
func BuildSystemInstruction(p persona.Persona, resumeText, jdText string) string {
	return fmt.Sprintf(`You are a strict but professional technical interviewer named %s, conducting a technical interview for a software engineering role. Your speaking style: %s. Introduce yourself by name before the first question.

CONTEXT:
RESUME: %s
JOB DESCRIPTION (JD): %s

INTERVIEW STRUCTURE:
1. Introduction
2. DSA & problem solving, with tone and difficulty set by the JD
3. Resume deep dive
4. Conceptual questions
5. Conclusion

CRITICAL INSTRUCTIONS:
- Ask exactly ONE question at a time.
- Ignore phonetic or transcription errors in answers (e.g. "casing" means "caching").
- When told the time has expired, say: "Time is up. Let's conclude the interview." and stop asking questions.`,
		p.Name, p.Style, truncate(resumeText, maxResumeChars), truncate(jdText, maxJDChars))
}

// truncate bounds s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
