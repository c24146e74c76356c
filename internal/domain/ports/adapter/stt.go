package adapter

import (
	"context"

	"lecture-transcription/internal/domain/model"
)

// STTEngine is the port for the speech-to-text capability.
type STTEngine interface {
	// Transcribe recognizes speech in the given segment and returns the
	// ordered timed segments. Engine failures wrap domain.ErrProcessing.
	Transcribe(ctx context.Context, segment model.AudioSegment) ([]model.TranscriptionSegment, error)

	// ModelName identifies the engine model, recorded on every result.
	ModelName() string
}
