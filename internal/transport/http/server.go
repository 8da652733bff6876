// Package http serves the suite's JSON API.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/dealsense"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

type AskService interface {
	Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error)
	Reset(ctx context.Context, sessionID string) error
	Ingest(ctx context.Context, docs []core.Document) (int, error)
	Stats(ctx context.Context) (core.KnowledgeStats, error)
}

type DealService interface {
	Score(ctx context.Context, rec core.DealRecord) (core.DealScore, error)
	ScoreRows(ctx context.Context, rows []dealsense.Row) []core.DealResult
}

type OutreachService interface {
	Generate(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error)
	GenerateVariants(ctx context.Context, p core.Profile, channel core.Channel, count int) ([]core.OutreachResult, error)
	GenerateReviewed(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error)
}

type Server struct {
	cfg      *config.AppConfig
	ask      AskService
	deals    DealService
	outreach OutreachService
	models   core.ModelLister

	srv *http.Server
}

func NewServer(
	cfg *config.AppConfig,
	ask AskService,
	deals DealService,
	outreach OutreachService,
	models core.ModelLister,
) *Server {
	s := &Server{
		cfg:      cfg,
		ask:      ask,
		deals:    deals,
		outreach: outreach,
		models:   models,
	}
	s.srv = &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s
}

// Handler returns the routed API with middleware applied.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /models", s.handleModels)

	mux.HandleFunc("POST /askgtm/ask", s.handleAsk)
	mux.HandleFunc("POST /askgtm/reset", s.handleReset)
	mux.HandleFunc("POST /askgtm/add-document", s.handleAddDocument)
	mux.HandleFunc("POST /askgtm/upload-docs", s.handleUploadDocs)
	mux.HandleFunc("GET /askgtm/stats", s.handleStats)

	mux.HandleFunc("POST /dealsense/analyze-deal", s.handleAnalyzeDeal)
	mux.HandleFunc("POST /dealsense/analyze-csv", s.handleAnalyzeCSV)

	mux.HandleFunc("POST /outreachai/generate", s.handleGenerate)
	mux.HandleFunc("POST /outreachai/generate-multiple", s.handleGenerateMultiple)
	mux.HandleFunc("POST /outreachai/generate-reviewed", s.handleGenerateReviewed)
	mux.HandleFunc("GET /outreachai/channels", s.handleChannels)

	var h http.Handler = mux
	h = withTimeout(h, s.cfg.RequestTimeout)
	h = withCORS(h, s.cfg.CORSOrigins)
	h = withRequestLogger(ctx, h)
	h = withRecovery(h)
	return h
}

func (s *Server) Start(ctx context.Context) error {
	s.srv.Handler = s.Handler(ctx)

	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting http api")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// ctx is already cancelled when services are stopped
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
