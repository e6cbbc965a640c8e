package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkarlsen/reportsmith/internal/config"
	"github.com/mkarlsen/reportsmith/internal/httpapi"
	"github.com/mkarlsen/reportsmith/internal/reportgen"
	"github.com/mkarlsen/reportsmith/internal/store"
	"github.com/mkarlsen/reportsmith/internal/telemetry"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "reportd").Logger()

	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("telemetry setup failed")
		}
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			_ = shutdown(flushCtx)
		}()
	}

	var caller reportgen.LLMCaller
	if cfg.LLM.Enabled {
		c, err := reportgen.NewAnthropicCaller(cfg.LLM.APIKey)
		if err != nil {
			log.Warn().Err(err).Msg("llm unavailable, reports will use template generation")
		} else {
			caller = c
		}
	}

	archive, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer archive.Close()

	pipeline := reportgen.NewPipeline(caller)
	handler := httpapi.NewServer(pipeline, archive, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Server.Addr).Msg("reportd listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
