package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lecture-transcription/internal/domain"
)

// Title is a validated lecture title. The zero value is invalid; use NewTitle.
type Title string

func NewTitle(s string) (Title, error) {
	// Length limits count characters, not bytes.
	if n := utf8.RuneCountInString(s); n < 1 || n > 255 {
		return "", fmt.Errorf("%w: title must be between 1 and 255 characters", domain.ErrInvalidArgument)
	}
	return Title(s), nil
}

func (t Title) String() string { return string(t) }

// Tag is a normalized (trimmed, lower-cased) label attached to a lecture.
type Tag string

func NewTag(s string) (Tag, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if n := utf8.RuneCountInString(norm); n < 1 || n > 20 {
		return "", fmt.Errorf("%w: tag must be 1-20 characters after normalization", domain.ErrInvalidArgument)
	}
	return Tag(norm), nil
}

func (t Tag) String() string { return string(t) }

// NewTags normalizes every element and collapses duplicates.
// Order of first appearance is preserved for stable persistence.
func NewTags(raw []string) ([]Tag, error) {
	seen := make(map[Tag]struct{}, len(raw))
	out := make([]Tag, 0, len(raw))
	for _, s := range raw {
		tag, err := NewTag(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}

// AudioSegment is a time-bounded slice of a local, engine-ready audio file.
type AudioSegment struct {
	LocalPath   string
	StartOffset float64
	EndOffset   float64
}

// TranscriptionSegment is one timed piece of recognized speech.
type TranscriptionSegment struct {
	Text        string  `json:"text"`
	StartOffset float64 `json:"start_offset"`
	EndOffset   float64 `json:"end_offset"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// TranscriptionResult is the immutable output of one successful pipeline
// run. It is assembled atomically and never partially attached to a lecture.
type TranscriptionResult struct {
	FullText    string                 `json:"full_text"`
	Language    string                 `json:"language,omitempty"`
	Confidence  float64                `json:"confidence,omitempty"`
	ModelName   string                 `json:"model_name"`
	DurationSec float64                `json:"duration_sec"`
	Segments    []TranscriptionSegment `json:"segments"`
}

// IsEmpty reports a degenerate transcription (no recognized text).
func (r *TranscriptionResult) IsEmpty() bool {
	return r == nil || len(strings.TrimSpace(r.FullText)) == 0
}

// AssembleResult builds a TranscriptionResult from engine segments. The full
// text is the space-joined, trimmed concatenation of the segment texts.
func AssembleResult(segments []TranscriptionSegment, modelName string, durationSec float64, language string) *TranscriptionResult {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	return &TranscriptionResult{
		FullText:    strings.TrimSpace(strings.Join(texts, " ")),
		Language:    language,
		ModelName:   modelName,
		DurationSec: durationSec,
		Segments:    segments,
	}
}
