package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lecture-transcription/internal/config"
	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/ports/repository"
	"lecture-transcription/internal/infra/logging"
	"lecture-transcription/internal/infra/metrics"
	red "lecture-transcription/internal/infra/redis"
	"lecture-transcription/internal/usecase"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Processor is plugged into the asynq worker loop. It is the dispatch
// boundary: per-lecture lock, per-job deadline, load, run, unlock.
type Processor struct {
	repo        repository.LectureRepository
	transcriber usecase.TranscriptionUseCase
	locker      red.Locker
	lockTTL     time.Duration
	jobTimeout  time.Duration
	log         *zerolog.Logger
}

func NewProcessor(
	repo repository.LectureRepository,
	transcriber usecase.TranscriptionUseCase,
	locker red.Locker,
	cfg config.WorkerConfig,
	log *zerolog.Logger,
) *Processor {
	return &Processor{
		repo:        repo,
		transcriber: transcriber,
		locker:      locker,
		lockTTL:     cfg.LockTTL,
		jobTimeout:  cfg.JobTimeout,
		log:         log,
	}
}

// Handler registers the transcription task handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTranscribeLecture, p.handleTranscribe)
	return mux
}

func (p *Processor) handleTranscribe(ctx context.Context, task *asynq.Task) error {
	var payload transcribePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	ctx = logging.WithLectureID(ctx, payload.LectureID)
	log := logging.With(ctx, p.log)

	ctx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	// Per-id lock: delivery is at-least-once and a second worker must not
	// load the same pending lecture before the first save lands.
	token, err := p.locker.TryLock(ctx, red.LockKey(payload.LectureID), p.lockTTL)
	if err != nil {
		return fmt.Errorf("lock lecture %s: %w", payload.LectureID, err)
	}
	defer func() {
		if err := p.locker.Unlock(context.Background(), red.LockKey(payload.LectureID), token); err != nil {
			log.Warn().Err(err).Msg("failed to release lecture lock")
		}
	}()

	lec, err := p.repo.FindByID(ctx, payload.LectureID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted before processing; nothing to do.
			log.Warn().Msg("lecture vanished before processing")
			return nil
		}
		return fmt.Errorf("load lecture %s: %w", payload.LectureID, err)
	}

	log.Info().Msg("processing transcription job")
	start := time.Now()

	err = p.transcriber.Execute(ctx, lec)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStateTransition) {
			// Duplicate delivery of an already-finished job; drop it.
			log.Info().Str("status", string(lec.Status)).Msg("skipping redelivered job")
			return nil
		}
		return fmt.Errorf("execute pipeline for %s: %w", lec.ID, err)
	}

	metrics.IncTranscriptionJob(string(lec.Status))
	metrics.ObserveTranscriptionJobSeconds(time.Since(start).Seconds())
	log.Info().
		Str("status", string(lec.Status)).
		Dur("duration", time.Since(start)).
		Msg("transcription job finished")
	return nil
}

// NewServer builds the asynq worker server bound to the same redis as the
// dispatcher.
func NewServer(rcfg *config.RedisConfig, wcfg config.WorkerConfig) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: rcfg.Addr, Password: rcfg.Password, DB: rcfg.DB},
		asynq.Config{Concurrency: wcfg.Concurrency},
	)
}
