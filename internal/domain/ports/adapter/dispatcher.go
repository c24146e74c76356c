package adapter

import "context"

// Dispatcher hands a lecture id to the asynchronous processing queue.
// Delivery is at-least-once; the lecture state machine guards duplicates.
type Dispatcher interface {
	EnqueueTranscription(ctx context.Context, lectureID string) error
}
