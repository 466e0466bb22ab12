package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agi_race/archive"
	"agi_race/config"
	"agi_race/handlers"
	"agi_race/metrics"
	"agi_race/narrator"
	"agi_race/session"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gen narrator.Generator
	switch cfg.Provider {
	case config.ProviderOpenAI:
		gen = narrator.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Temperature)
	default:
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini client")
		}
		defer client.Close()
		gen = narrator.NewGemini(client, cfg.GeminiModel, cfg.Temperature)
	}

	m := metrics.New()
	n := narrator.NewClient(gen, cfg.Model(), m, logger)
	manager := session.NewManager(n, cfg.SessionTTL, m, logger)
	go manager.Run(ctx, sweepInterval)

	var arc *archive.Archive
	if cfg.ArchivePath != "" {
		arc, err = archive.Open(cfg.ArchivePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.ArchivePath).Msg("open archive")
		}
		defer arc.Close()
	}

	h := &handlers.Handler{
		Manager:        manager,
		Archive:        arc,
		Metrics:        m,
		Log:            logger.With().Str("component", "http").Logger(),
		Title:          "AGI Arms Race",
		RevealInterval: cfg.RevealInterval,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Str("addr", cfg.HTTPAddr).
		Str("provider", cfg.Provider).
		Str("model", cfg.Model()).
		Bool("archive", arc.Enabled()).
		Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("http server")
	}
	logger.Info().Msg("waiting for pending turns")
	h.Wait()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
