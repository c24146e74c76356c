package repository

import (
	"context"

	"lecture-transcription/internal/domain/model"
)

// LectureRepository persists lectures. Save is an upsert; the pipeline calls
// it after every status transition so the stored row always reflects the
// entity's current state.
type LectureRepository interface {
	Save(ctx context.Context, lec *model.Lecture) error
	FindByID(ctx context.Context, id string) (*model.Lecture, error)
	// FindMany lists lectures, newest first. authorID filters when non-empty.
	FindMany(ctx context.Context, authorID string, offset, limit int) ([]*model.Lecture, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, authorID string) (int, error)
}
