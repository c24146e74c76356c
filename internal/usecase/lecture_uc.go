package usecase

import (
	"context"
	"fmt"
	"time"

	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/domain/ports/adapter"
	"lecture-transcription/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// LectureUseCase covers the management surface: create (which enqueues the
// transcription), read, metadata update and delete.
type LectureUseCase interface {
	Create(ctx context.Context, authorID, title string, tags []string, objectKey string) (*model.Lecture, error)
	Get(ctx context.Context, id string) (*model.Lecture, error)
	List(ctx context.Context, authorID string, offset, limit int) ([]*model.Lecture, int, error)
	UpdateInfo(ctx context.Context, id string, title *string, tags []string) (*model.Lecture, error)
	Delete(ctx context.Context, id string) error
}

var _ LectureUseCase = (*lectureUC)(nil)

type lectureUC struct {
	repo       repository.LectureRepository
	dispatcher adapter.Dispatcher
	log        *zerolog.Logger
}

func NewLectureUseCase(repo repository.LectureRepository, dispatcher adapter.Dispatcher, log *zerolog.Logger) *lectureUC {
	return &lectureUC{repo: repo, dispatcher: dispatcher, log: log}
}

// Create persists a pending lecture and hands its id to the queue. The
// dispatch happens after the save so the worker always finds the row.
func (uc *lectureUC) Create(ctx context.Context, authorID, title string, tags []string, objectKey string) (*model.Lecture, error) {
	vTitle, err := model.NewTitle(title)
	if err != nil {
		return nil, err
	}
	vTags, err := model.NewTags(tags)
	if err != nil {
		return nil, err
	}

	lec, err := model.NewLecture("", authorID, vTitle, vTags, objectKey, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, lec); err != nil {
		return nil, fmt.Errorf("save lecture: %w", err)
	}
	if err := uc.dispatcher.EnqueueTranscription(ctx, lec.ID); err != nil {
		return nil, fmt.Errorf("enqueue transcription: %w", err)
	}
	uc.log.Info().Str("lecture_id", lec.ID).Str("author_id", authorID).Msg("lecture created and enqueued")
	return lec, nil
}

func (uc *lectureUC) Get(ctx context.Context, id string) (*model.Lecture, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *lectureUC) List(ctx context.Context, authorID string, offset, limit int) ([]*model.Lecture, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, err := uc.repo.FindMany(ctx, authorID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.repo.Count(ctx, authorID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (uc *lectureUC) UpdateInfo(ctx context.Context, id string, title *string, tags []string) (*model.Lecture, error) {
	lec, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var vTitle *model.Title
	if title != nil {
		t, err := model.NewTitle(*title)
		if err != nil {
			return nil, err
		}
		vTitle = &t
	}
	var vTags []model.Tag
	if tags != nil {
		vTags, err = model.NewTags(tags)
		if err != nil {
			return nil, err
		}
	}

	lec.UpdateInfo(time.Now(), vTitle, vTags)
	if err := uc.repo.Save(ctx, lec); err != nil {
		return nil, fmt.Errorf("save lecture: %w", err)
	}
	return lec, nil
}

func (uc *lectureUC) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
