package usecase

import (
	"context"
	"fmt"
	"time"

	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/domain/ports/adapter"
	"lecture-transcription/internal/domain/ports/repository"
	"lecture-transcription/internal/infra/logging"

	"github.com/rs/zerolog"
)

// TranscriptionUseCase drives one lecture through the pipeline:
// mark processing -> fetch -> normalize -> transcribe -> mark completed/failed.
type TranscriptionUseCase interface {
	Execute(ctx context.Context, lec *model.Lecture) error
}

var _ TranscriptionUseCase = (*transcriptionUC)(nil)

type transcriptionUC struct {
	repo     repository.LectureRepository
	storage  adapter.Storage
	audio    adapter.AudioProcessor
	engine   adapter.STTEngine
	notifier adapter.Notifier
	log      *zerolog.Logger
}

func NewTranscriptionUseCase(
	repo repository.LectureRepository,
	storage adapter.Storage,
	audio adapter.AudioProcessor,
	engine adapter.STTEngine,
	notifier adapter.Notifier,
	log *zerolog.Logger,
) *transcriptionUC {
	return &transcriptionUC{
		repo:     repo,
		storage:  storage,
		audio:    audio,
		engine:   engine,
		notifier: notifier,
		log:      log,
	}
}

// Execute runs the pipeline once, end to end. An illegal starting state is
// returned to the caller before any I/O happens. Every failure inside the
// fetch/normalize/transcribe sequence is contained: the lecture lands in
// failed with the error recorded, and Execute returns nil.
//
// Local artifacts are released on every exit path, each exactly once, even
// when normalization produced a file distinct from the download.
func (uc *transcriptionUC) Execute(ctx context.Context, lec *model.Lecture) error {
	defer logging.TraceDuration(uc.log, "TranscriptionUC.Execute")()

	if err := lec.StartProcessing(time.Now()); err != nil {
		return err
	}
	if err := uc.repo.Save(ctx, lec); err != nil {
		return fmt.Errorf("save processing state: %w", err)
	}
	uc.notify(ctx, lec)

	var localPath, normalizedPath string
	defer func() {
		uc.release(ctx, localPath)
		if normalizedPath != "" && normalizedPath != localPath {
			uc.release(ctx, normalizedPath)
		}
	}()

	if err := uc.run(ctx, lec, &localPath, &normalizedPath); err != nil {
		lec.Fail(time.Now())
		lec.LastError = err.Error()
		uc.log.Error().Err(err).Str("lecture_id", lec.ID).Msg("transcription pipeline failed")
	}

	if err := uc.repo.Save(ctx, lec); err != nil {
		return fmt.Errorf("save terminal state: %w", err)
	}
	uc.notify(ctx, lec)
	return nil
}

// run performs the fallible middle of the pipeline. It writes the artifact
// paths through pointers as soon as they exist so the deferred cleanup in
// Execute sees them no matter where run stops.
func (uc *transcriptionUC) run(ctx context.Context, lec *model.Lecture, localPath, normalizedPath *string) error {
	src, err := uc.storage.Download(ctx, lec.ObjectKey)
	if err != nil {
		return fmt.Errorf("download %q: %w", lec.ObjectKey, err)
	}
	*localPath = src

	norm, err := uc.audio.Normalize(ctx, src)
	if err != nil {
		return fmt.Errorf("normalize audio: %w", err)
	}
	*normalizedPath = norm

	duration, err := uc.audio.Duration(ctx, norm)
	if err != nil {
		return fmt.Errorf("measure duration: %w", err)
	}

	segments, err := uc.engine.Transcribe(ctx, model.AudioSegment{
		LocalPath:   norm,
		StartOffset: 0,
		EndOffset:   duration,
	})
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	result := model.AssembleResult(segments, uc.engine.ModelName(), duration, "")
	if result.IsEmpty() {
		uc.log.Warn().Str("lecture_id", lec.ID).Msg("engine returned an empty transcript")
	}
	return lec.Complete(result, time.Now())
}

func (uc *transcriptionUC) notify(ctx context.Context, lec *model.Lecture) {
	if err := uc.notifier.NotifyStatus(ctx, lec); err != nil {
		uc.log.Warn().Err(err).Str("lecture_id", lec.ID).Str("status", string(lec.Status)).Msg("status notification failed")
	}
}

func (uc *transcriptionUC) release(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := uc.storage.DeleteLocal(ctx, path); err != nil {
		uc.log.Warn().Err(err).Str("path", path).Msg("failed to remove local artifact")
	}
}
