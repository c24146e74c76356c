package stt

import (
	"context"

	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/domain/ports/adapter"
)

var _ adapter.STTEngine = (*NoopEngine)(nil)

// NoopEngine is a stand-in engine for dev mode: it "recognizes" a fixed
// phrase spanning the whole segment so the pipeline can be exercised without
// credentials or a GPU.
type NoopEngine struct{}

func NewNoopEngine() *NoopEngine { return &NoopEngine{} }

func (NoopEngine) ModelName() string { return "noop" }

func (NoopEngine) Transcribe(ctx context.Context, segment model.AudioSegment) ([]model.TranscriptionSegment, error) {
	return []model.TranscriptionSegment{
		{
			Text:        "lorem ipsum transcription",
			StartOffset: segment.StartOffset,
			EndOffset:   segment.EndOffset,
		},
	}, nil
}
