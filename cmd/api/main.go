package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voca-ai/voca-backend/internal/config"
	"github.com/voca-ai/voca-backend/internal/handler"
	interviewHandler "github.com/voca-ai/voca-backend/internal/handler/interview"
	"github.com/voca-ai/voca-backend/internal/model/persona"
	"github.com/voca-ai/voca-backend/internal/service/ai"
	interviewService "github.com/voca-ai/voca-backend/internal/service/interview"
	"github.com/voca-ai/voca-backend/internal/service/resume"
	"github.com/voca-ai/voca-backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	selector := persona.NewRandomSelector(personaStore.List(), nil)
	registry := interviewService.NewRegistry()

	var conversations interviewHandler.ConversationFactory
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without interview functionality - check Ark model environment variables")
		} else {
			conversations = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, interviews will be rejected")
	}

	router := handler.NewRouter(handler.Deps{
		Personas:       personaStore,
		Selector:       selector,
		Registry:       registry,
		Conversations:  conversations,
		Speech:         speech.NewChain(cfg.Speech),
		Extractor:      resume.NewPDFExtractor(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Voca backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
