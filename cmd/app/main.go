// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lecture-transcription/internal/config"
	"lecture-transcription/internal/domain/ports/adapter"
	sttAdapters "lecture-transcription/internal/infra/adapters/stt"
	"lecture-transcription/internal/infra/audio"
	pg "lecture-transcription/internal/infra/db/postgres"
	"lecture-transcription/internal/infra/logging"
	"lecture-transcription/internal/infra/metrics"
	"lecture-transcription/internal/infra/queue"
	red "lecture-transcription/internal/infra/redis"
	"lecture-transcription/internal/infra/storage"
	"lecture-transcription/internal/infra/web"
	"lecture-transcription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop STT, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	notifier := red.NewStatusNotifier(redisClient, cfg.Redis.StatusChannel)

	// ---- Object storage ----
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage")
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("bucket")
	}

	// ---- STT engine ----
	var engine adapter.STTEngine
	if cfg.Runtime.Dev && cfg.STT.APIKey == "" {
		engine = sttAdapters.NewNoopEngine()
		logger.Warn().Msg("STT engine: noop (dev mode, no api key)")
	} else {
		engine, err = sttAdapters.NewWhisperAdapter(cfg.STT.APIKey, cfg.STT.BaseURL, cfg.STT.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("stt adapter")
		}
		logger.Info().Str("base_url", cfg.STT.BaseURL).Str("model", cfg.STT.Model).Msg("STT engine: whisper")
	}

	// ---- Audio ----
	ffmpeg := audio.NewFFmpegProcessor(cfg.Audio.FFmpegPath, cfg.Audio.FFprobePath)

	// ---- Repositories and use cases ----
	lectureRepo := pg.NewLectureRepo(pool)
	transcriptionUC := usecase.NewTranscriptionUseCase(lectureRepo, store, ffmpeg, engine, notifier, logger)

	dispatcher := queue.NewDispatcher(&cfg.Redis)
	defer dispatcher.Close()
	lectureUC := usecase.NewLectureUseCase(lectureRepo, dispatcher, logger)

	// ---- Worker ----
	processor := queue.NewProcessor(lectureRepo, transcriptionUC, locker, cfg.Worker, logger)
	asynqSrv := queue.NewServer(&cfg.Redis, cfg.Worker)
	go func() {
		if err := asynqSrv.Run(processor.Handler()); err != nil {
			logger.Error().Err(err).Msg("worker stopped")
		}
	}()

	// ---- HTTP API ----
	apiSrv := web.NewServer(lectureUC, cfg.Server.APIKey, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: apiSrv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	asynqSrv.Shutdown()
	cancel()
}
