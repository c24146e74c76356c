package adapter

import (
	"context"

	"lecture-transcription/internal/domain/model"
)

// Notifier publishes a read-only snapshot of the lecture after every status
// transition. Fire-and-forget: callers log failures and move on.
type Notifier interface {
	NotifyStatus(ctx context.Context, lec *model.Lecture) error
}
