package model

import (
	"fmt"
	"time"

	"lecture-transcription/internal/domain"

	"github.com/google/uuid"
)

type LectureStatus string

const (
	LectureStatusPending    LectureStatus = "pending"
	LectureStatusProcessing LectureStatus = "processing"
	LectureStatusCompleted  LectureStatus = "completed"
	LectureStatusFailed     LectureStatus = "failed"
)

// Lecture is the tracked unit of transcription work. The Status field is a
// small state machine; transitions go through the methods below so the
// invariants (Content/PublishedAt set exactly when completed) hold.
//
// Timestamps are passed in by the caller, not read from a global clock, so
// transitions stay deterministic.
type Lecture struct {
	ID        string
	AuthorID  string
	Title     Title
	Tags      []Tag
	Status    LectureStatus
	Content   *TranscriptionResult
	LastError string
	ObjectKey string

	RegisteredAt time.Time
	UpdatedAt    time.Time
	PublishedAt  *time.Time
}

// NewLecture creates a pending lecture pointing at a stored audio object.
func NewLecture(id, authorID string, title Title, tags []Tag, objectKey string, now time.Time) (*Lecture, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if authorID == "" {
		return nil, fmt.Errorf("%w: author id is required", domain.ErrInvalidArgument)
	}
	if objectKey == "" {
		return nil, fmt.Errorf("%w: audio object key is required", domain.ErrInvalidArgument)
	}
	return &Lecture{
		ID:           id,
		AuthorID:     authorID,
		Title:        title,
		Tags:         tags,
		Status:       LectureStatusPending,
		ObjectKey:    objectKey,
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}

// StartProcessing is legal from pending or failed. Failed is re-enterable so
// a lecture can be re-processed after an infrastructure failure.
func (l *Lecture) StartProcessing(at time.Time) error {
	if l.Status != LectureStatusPending && l.Status != LectureStatusFailed {
		return fmt.Errorf("%w: cannot start processing from %s", domain.ErrInvalidStateTransition, l.Status)
	}
	l.Status = LectureStatusProcessing
	l.UpdatedAt = at
	return nil
}

// Complete attaches the transcription result and marks the lecture
// published. Only legal while processing.
func (l *Lecture) Complete(result *TranscriptionResult, at time.Time) error {
	if l.Status != LectureStatusProcessing {
		return fmt.Errorf("%w: can only complete from processing, not %s", domain.ErrInvalidStateTransition, l.Status)
	}
	if result == nil {
		return fmt.Errorf("%w: transcription result is required", domain.ErrInvalidArgument)
	}
	l.Content = result
	l.Status = LectureStatusCompleted
	published := at
	l.PublishedAt = &published
	l.UpdatedAt = at
	l.LastError = ""
	return nil
}

// Fail is the unconditional failure sink: the pipeline must always be able
// to reach a terminal-for-now state no matter where it stopped.
func (l *Lecture) Fail(at time.Time) {
	l.Status = LectureStatusFailed
	l.UpdatedAt = at
}

// UpdateInfo changes metadata without touching Status; legal from any state.
func (l *Lecture) UpdateInfo(at time.Time, title *Title, tags []Tag) {
	if title != nil {
		l.Title = *title
	}
	if tags != nil {
		l.Tags = tags
	}
	l.UpdatedAt = at
}

func (l *Lecture) IsZero() bool { return l == nil || l.ID == "" }
