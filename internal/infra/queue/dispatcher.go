package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"lecture-transcription/internal/config"
	"lecture-transcription/internal/domain/ports/adapter"

	"github.com/hibiken/asynq"
)

const (
	// TaskTranscribeLecture is scheduled each time a lecture is created.
	TaskTranscribeLecture = "lecture:transcribe"
)

// transcribePayload is serialized into the task so the worker knows which
// lecture to process.
type transcribePayload struct {
	LectureID string `json:"lecture_id"`
}

var _ adapter.Dispatcher = (*Dispatcher)(nil)

// Dispatcher enqueues transcription tasks on the redis-backed queue.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(cfg *config.RedisConfig) *Dispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Dispatcher{client: client}
}

func (d *Dispatcher) EnqueueTranscription(ctx context.Context, lectureID string) error {
	data, err := json.Marshal(transcribePayload{LectureID: lectureID})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(TaskTranscribeLecture, data)
	// Retries cover pre-pipeline failures only (lock contention, row not yet
	// visible); once the orchestrator owns the job it runs exactly once.
	if _, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue transcription task: %w", err)
	}
	return nil
}

func (d *Dispatcher) Close() error { return d.client.Close() }
