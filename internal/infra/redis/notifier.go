package redis

import (
	"context"
	"encoding/json"
	"time"

	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*StatusNotifier)(nil)

// StatusNotifier publishes lecture status snapshots to a pub/sub channel.
// This is the push channel through which external systems observe progress
// without polling the API.
type StatusNotifier struct {
	cli     RedisClient
	channel string
}

func NewStatusNotifier(cli RedisClient, channel string) *StatusNotifier {
	return &StatusNotifier{cli: cli, channel: channel}
}

// statusEvent is the wire snapshot; it deliberately omits the transcript
// body to keep events small. Consumers fetch content through the API.
type statusEvent struct {
	LectureID string    `json:"lecture_id"`
	AuthorID  string    `json:"author_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *StatusNotifier) NotifyStatus(ctx context.Context, lec *model.Lecture) error {
	ev := statusEvent{
		LectureID: lec.ID,
		AuthorID:  lec.AuthorID,
		Status:    string(lec.Status),
		Error:     lec.LastError,
		UpdatedAt: lec.UpdatedAt,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.cli.Publish(ctx, n.channel, b)
}
