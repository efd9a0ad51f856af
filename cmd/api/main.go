package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/JobSift/internal/analysis"
	"github.com/dharsanguruparan/JobSift/internal/config"
	"github.com/dharsanguruparan/JobSift/internal/extract"
	"github.com/dharsanguruparan/JobSift/internal/logging"
	"github.com/dharsanguruparan/JobSift/internal/notify"
	"github.com/dharsanguruparan/JobSift/internal/records"
	"github.com/dharsanguruparan/JobSift/internal/s3storage"
	"github.com/dharsanguruparan/JobSift/internal/server"
	"github.com/dharsanguruparan/JobSift/internal/upload"
	"github.com/dharsanguruparan/JobSift/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	store, err := s3storage.New(cfg)
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Fatal("ensure bucket", zap.Error(err))
	}

	if cfg.GeminiAPIKey == "" {
		logger.Fatal("GEMINI_API_KEY is not set")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.LLMModel),
	)
	if err != nil {
		logger.Fatal("init llm client", zap.Error(err))
	}

	var wordExtractor extract.Extractor
	if cfg.ExtractorURL != "" {
		wordExtractor = extract.NewRemoteExtractor(cfg.ExtractorURL, nil)
	} else {
		logger.Warn("no extractor endpoint configured; Word documents will fail analysis")
	}
	extractor := extract.NewTypeRouter(extract.NewPDFExtractor(http.DefaultClient), wordExtractor)

	hub := notify.NewHub(128, logger)
	recs := records.NewStore()
	viewctl := view.NewController()
	analyzer := analysis.NewAnalyzer(llm, cfg.LLMModel)
	orchestrator := analysis.NewOrchestrator(recs, extractor, analyzer, hub, viewctl, logger)
	coordinator := upload.NewCoordinator(recs, store, hub, cfg.MaxFileSize)

	srv := server.New(cfg, recs, coordinator, orchestrator, store, viewctl, hub, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
