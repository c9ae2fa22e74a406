package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/voca-ai/voca-backend/internal/handler/interview"
	personaHandler "github.com/voca-ai/voca-backend/internal/handler/persona"
	middlewarePkg "github.com/voca-ai/voca-backend/internal/middleware"
	personaModel "github.com/voca-ai/voca-backend/internal/model/persona"
	interviewService "github.com/voca-ai/voca-backend/internal/service/interview"
	"github.com/voca-ai/voca-backend/internal/service/resume"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Personas       personaModel.Store
	Selector       personaModel.Selector
	Registry       *interviewService.Registry
	Conversations  interviewHandler.ConversationFactory
	Speech         interviewHandler.Synthesizer
	Extractor      resume.Extractor
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	uploadHandler := interviewHandler.New(deps.Registry, deps.Conversations, deps.Selector, deps.Extractor)
	socketHandler := interviewHandler.NewSocketHandler(deps.Registry, deps.Speech)

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(deps.Personas).RegisterRoutes(api)
		uploadHandler.RegisterRoutes(api)
	})

	socketHandler.RegisterRoutes(r)

	return r
}
