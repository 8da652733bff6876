package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/providers/llm"
	"github.com/sandevgo/gtmsuite/internal/providers/rag"
	"github.com/sandevgo/gtmsuite/internal/service/askgtm"
	"github.com/sandevgo/gtmsuite/internal/service/command"
	"github.com/sandevgo/gtmsuite/internal/service/dealsense"
	"github.com/sandevgo/gtmsuite/internal/service/knowledge"
	"github.com/sandevgo/gtmsuite/internal/service/outreach"
	"github.com/sandevgo/gtmsuite/internal/storage/sqlite"
	"github.com/sandevgo/gtmsuite/internal/transport/http"
	"github.com/sandevgo/gtmsuite/internal/transport/telegram"
	"github.com/sandevgo/gtmsuite/pkg/log"
	"github.com/sandevgo/gtmsuite/pkg/srv"
)

// suite holds the wired services shared by every command.
type suite struct {
	cfg    *config.AppConfig
	ai     llm.Provider
	store  *knowledge.Store
	ask    *askgtm.Pipeline
	deals  *dealsense.Scorer
	writer *outreach.Generator
	router *command.Router

	// cleanups run on shutdown, in order
	cleanups []srv.Service
}

func newSuite(ctx context.Context) (*suite, error) {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)
	agentsCfg := config.NewAgentsConfig(ctx)

	s := &suite{cfg: appCfg}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	s.cleanups = append(s.cleanups, srv.NewCleanup(db.Close))

	// 3. AI Provider
	s.ai, err = llm.NewProvider(ctx, appCfg)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	// 4. Knowledge base
	embedder, err := rag.NewEmbeddingModel(ragCfg, appCfg)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	s.cleanups = append(s.cleanups, srv.NewCleanup(embedder.Shutdown))

	s.store = knowledge.NewStore(sqlite.NewKnowledgeRepo(db), embedder, rag.ChunkerConfig{
		MaxTokens:     ragCfg.ChunkSize,
		OverlapTokens: ragCfg.ChunkOverlap,
	})
	if err := s.store.Initialize(ctx); err != nil {
		// The index can still be filled through ingest later
		logger.Error().Err(err).Msg("failed to seed knowledge base")
	}

	// 5. Assistants
	s.ask = askgtm.NewPipeline(s.store, s.ai, sqlite.NewConversationsRepo(db), askgtm.Config{
		TopK:          ragCfg.TopK,
		PreviewLength: ragCfg.PreviewLength,
		HistoryTurns:  appCfg.GetContextWindowSize(),
		Temperature:   agentsCfg.AskGTMTemperature,
	})
	s.deals = dealsense.NewScorer(s.ai, dealsense.Config{
		Temperature: agentsCfg.DealSenseTemperature,
		Workers:     agentsCfg.DealSenseWorkers,
	})
	s.writer = outreach.NewGenerator(s.ai, outreach.Config{
		Temperature: agentsCfg.OutreachTemperature,
		VariantStep: agentsCfg.OutreachVariantStep,
		MaxVariants: agentsCfg.OutreachMaxVariants,
	})

	s.router = command.New(command.NewCommands(s.ask, s.ask))

	return s, nil
}

// close releases storage and embedder resources.
func (s *suite) close(ctx context.Context) {
	for _, c := range s.cleanups {
		if err := c.Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", c)
		}
	}
}

// services returns the long-running transports of `gtm serve` followed by
// the cleanups.
func (s *suite) services(ctx context.Context) ([]srv.Service, error) {
	services := []srv.Service{
		http.NewServer(s.cfg, s.ask, s.deals, s.writer, s.ai),
	}

	// Telegram Bot
	if s.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, s.ask, s.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return append(services, s.cleanups...), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := config.AppConfig{RuntimePath: runtimePath}.GetEnvPath()

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

