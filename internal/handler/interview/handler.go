package interview

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	interviewmodel "github.com/voca-ai/voca-backend/internal/model/interview"
	"github.com/voca-ai/voca-backend/internal/model/persona"
	interviewservice "github.com/voca-ai/voca-backend/internal/service/interview"
	"github.com/voca-ai/voca-backend/internal/service/resume"
	"github.com/voca-ai/voca-backend/pkg/utils"
)

// maxUploadBytes caps the multipart form held in memory during context upload.
const maxUploadBytes = 10 << 20

// ConversationFactory opens LLM conversations for new sessions.
type ConversationFactory interface {
	NewConversation(systemInstruction string) interviewmodel.Conversation
}

// Handler creates interview sessions from uploaded context.
type Handler struct {
	registry      *interviewservice.Registry
	conversations ConversationFactory
	selector      persona.Selector
	extractor     resume.Extractor
}

// New creates the interview context-upload handler. A nil conversations
// factory means the LLM backend is not configured; uploads are then rejected
// with 503 instead of failing at interview time.
func New(registry *interviewservice.Registry, conversations ConversationFactory, selector persona.Selector, extractor resume.Extractor) *Handler {
	return &Handler{
		registry:      registry,
		conversations: conversations,
		selector:      selector,
		extractor:     extractor,
	}
}

// RegisterRoutes registers interview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload-context", h.handleUploadContext)
}

// handleUploadContext accepts a resume (PDF upload or literal text) plus a
// mandatory job description and provisions a new session.
func (h *Handler) handleUploadContext(w http.ResponseWriter, r *http.Request) {
	if h.conversations == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "interview service unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	jd := strings.TrimSpace(r.FormValue("jd"))
	if jd == "" {
		utils.RespondError(w, http.StatusBadRequest, "jd is required")
		return
	}

	resumeText := h.resolveResumeText(r)

	interviewer := h.selector.Pick()
	system := interviewservice.BuildSystemInstruction(interviewer, resumeText, jd)
	conv := h.conversations.NewConversation(system)

	session := interviewservice.NewSession(uuid.NewString(), interviewer, resumeText, jd, conv)
	h.registry.Add(session)

	log.Printf("[interview] session created id=%s persona=%s resume_chars=%d", session.ID(), interviewer.ID, len(resumeText))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"session_id": session.ID()})
}

// resolveResumeText prefers the uploaded document over literal text. A failed
// extraction degrades to an empty resume rather than aborting the upload.
func (h *Handler) resolveResumeText(r *http.Request) string {
	file, header, err := r.FormFile("resume")
	if err != nil {
		return r.FormValue("resume_text")
	}
	defer file.Close()

	if h.extractor == nil {
		return r.FormValue("resume_text")
	}

	text, err := h.extractor.ExtractText(file, header.Size)
	if err != nil {
		log.Printf("[interview] resume extraction failed (%s): %v", header.Filename, err)
		return ""
	}
	return text
}
