//go:build !integration

package model

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"lecture-transcription/internal/domain"
)

// --- Value Object Tests ---

func TestNewTitle(t *testing.T) {
	t.Run("should accept boundary lengths", func(t *testing.T) {
		for _, s := range []string{"a", makeString(255)} {
			title, err := NewTitle(s)
			if err != nil {
				t.Fatalf("expected no error for length %d, but got: %v", len(s), err)
			}
			if title.String() != s {
				t.Errorf("expected title to round-trip, got %q", title)
			}
		}
	})

	t.Run("should count characters, not bytes", func(t *testing.T) {
		long := strings.Repeat("я", 255) // 510 bytes, 255 characters
		if _, err := NewTitle(long); err != nil {
			t.Fatalf("expected a 255-character multi-byte title to pass, got: %v", err)
		}
		if _, err := NewTitle(strings.Repeat("я", 256)); err == nil {
			t.Fatal("expected an error for a 256-character title, but got nil")
		}
	})

	t.Run("should reject empty and oversized titles", func(t *testing.T) {
		for _, s := range []string{"", makeString(256)} {
			_, err := NewTitle(s)
			if err == nil {
				t.Fatalf("expected an error for length %d, but got nil", len(s))
			}
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, but got %T", err)
			}
		}
	})
}

func TestNewTag(t *testing.T) {
	t.Run("should normalize case and whitespace", func(t *testing.T) {
		tag, err := NewTag("  PyThOn  ")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if tag.String() != "python" {
			t.Errorf("expected tag to be 'python', but got %q", tag)
		}
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		once, err := NewTag("  Distributed-Systems ")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		twice, err := NewTag(once.String())
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if once != twice {
			t.Errorf("expected %q == %q", once, twice)
		}
	})

	t.Run("should count characters, not bytes", func(t *testing.T) {
		tag, err := NewTag(strings.Repeat("я", 20)) // 40 bytes, 20 characters
		if err != nil {
			t.Fatalf("expected a 20-character multi-byte tag to pass, got: %v", err)
		}
		if got := utf8.RuneCountInString(tag.String()); got != 20 {
			t.Errorf("expected 20 characters, got %d", got)
		}
		if _, err := NewTag(strings.Repeat("я", 21)); err == nil {
			t.Fatal("expected an error for a 21-character tag, but got nil")
		}
	})

	t.Run("should reject out-of-bounds tags", func(t *testing.T) {
		for _, s := range []string{"", "   ", makeString(21)} {
			_, err := NewTag(s)
			if err == nil {
				t.Fatalf("expected an error for %q, but got nil", s)
			}
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, but got %T", err)
			}
		}
	})
}

func TestNewTags(t *testing.T) {
	tags, err := NewTags([]string{"Go", " go ", "GO", "audio"})
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected duplicates to collapse to 2 tags, got %d: %v", len(tags), tags)
	}
	if tags[0] != "go" || tags[1] != "audio" {
		t.Errorf("expected [go audio], got %v", tags)
	}
}

func TestTranscriptionResultIsEmpty(t *testing.T) {
	var nilResult *TranscriptionResult
	if !nilResult.IsEmpty() {
		t.Error("expected nil result to be empty")
	}
	if !(&TranscriptionResult{FullText: "   \n\t"}).IsEmpty() {
		t.Error("expected whitespace-only result to be empty")
	}
	if (&TranscriptionResult{FullText: "hello"}).IsEmpty() {
		t.Error("expected non-blank result to not be empty")
	}
}

func TestAssembleResult(t *testing.T) {
	t.Run("joins segments and trims the ends", func(t *testing.T) {
		segments := []TranscriptionSegment{
			{Text: " hello", StartOffset: 0, EndOffset: 1.5},
			{Text: "world ", StartOffset: 1.5, EndOffset: 3},
		}
		res := AssembleResult(segments, "whisper-1", 3.0, "en")
		if res.FullText != "hello world" {
			t.Errorf("expected space-joined trimmed text, got %q", res.FullText)
		}
		if res.ModelName != "whisper-1" || res.DurationSec != 3.0 {
			t.Errorf("unexpected metadata: %+v", res)
		}
		if len(res.Segments) != 2 {
			t.Errorf("expected 2 segments, got %d", len(res.Segments))
		}
	})

	t.Run("preserves whitespace inside the joined text", func(t *testing.T) {
		segments := []TranscriptionSegment{
			{Text: " hello ", EndOffset: 1},
			{Text: "world", EndOffset: 2},
		}
		res := AssembleResult(segments, "whisper-1", 2.0, "")
		if res.FullText != "hello  world" {
			t.Errorf("only the ends are trimmed, got %q", res.FullText)
		}
	})
}

// --- Lecture State Machine Tests ---

func newTestLecture(t *testing.T) *Lecture {
	t.Helper()
	title, err := NewTitle("Intro to Distributed Systems")
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	lec, err := NewLecture("", "author-1", title, nil, "audio/lec-1.mp3", time.Now())
	if err != nil {
		t.Fatalf("lecture: %v", err)
	}
	return lec
}

func TestNewLecture(t *testing.T) {
	t.Run("should create a pending lecture with a generated id", func(t *testing.T) {
		lec := newTestLecture(t)
		if lec.ID == "" {
			t.Error("expected lecture ID to be non-empty")
		}
		if lec.Status != LectureStatusPending {
			t.Errorf("expected status pending, got %s", lec.Status)
		}
		if lec.Content != nil || lec.PublishedAt != nil {
			t.Error("expected no content or published_at on a fresh lecture")
		}
	})

	t.Run("should fail without author or object key", func(t *testing.T) {
		title, _ := NewTitle("x")
		if _, err := NewLecture("", "", title, nil, "k", time.Now()); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty author, got %v", err)
		}
		if _, err := NewLecture("", "a", title, nil, "", time.Now()); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty object key, got %v", err)
		}
	})
}

func TestStartProcessing(t *testing.T) {
	t.Run("legal from pending and failed", func(t *testing.T) {
		lec := newTestLecture(t)
		at := time.Now()
		if err := lec.StartProcessing(at); err != nil {
			t.Fatalf("expected no error from pending, got %v", err)
		}
		if lec.Status != LectureStatusProcessing {
			t.Errorf("expected processing, got %s", lec.Status)
		}
		if !lec.UpdatedAt.Equal(at) {
			t.Errorf("expected updated_at to be the supplied timestamp")
		}

		lec.Fail(time.Now())
		if err := lec.StartProcessing(time.Now()); err != nil {
			t.Fatalf("expected no error from failed, got %v", err)
		}
	})

	t.Run("illegal from processing and completed", func(t *testing.T) {
		lec := newTestLecture(t)
		_ = lec.StartProcessing(time.Now())

		err := lec.StartProcessing(time.Now())
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
		if lec.Status != LectureStatusProcessing {
			t.Errorf("expected status unchanged, got %s", lec.Status)
		}

		if err := lec.Complete(&TranscriptionResult{FullText: "t"}, time.Now()); err != nil {
			t.Fatalf("complete: %v", err)
		}
		err = lec.StartProcessing(time.Now())
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition from completed, got %v", err)
		}
		if lec.Status != LectureStatusCompleted {
			t.Errorf("expected terminal state unchanged, got %s", lec.Status)
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("succeeds only from processing", func(t *testing.T) {
		lec := newTestLecture(t)
		result := &TranscriptionResult{FullText: "hello world", ModelName: "whisper-1"}

		err := lec.Complete(result, time.Now())
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition from pending, got %v", err)
		}
		if lec.Content != nil {
			t.Error("expected content untouched after illegal complete")
		}

		_ = lec.StartProcessing(time.Now())
		at := time.Now()
		if err := lec.Complete(result, at); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if lec.Status != LectureStatusCompleted {
			t.Errorf("expected completed, got %s", lec.Status)
		}
		if lec.Content == nil {
			t.Fatal("expected content to be set")
		}
		if lec.PublishedAt == nil || !lec.PublishedAt.Equal(at) {
			t.Errorf("expected published_at == supplied timestamp")
		}
	})

	t.Run("requires a result", func(t *testing.T) {
		lec := newTestLecture(t)
		_ = lec.StartProcessing(time.Now())
		if err := lec.Complete(nil, time.Now()); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for nil result, got %v", err)
		}
	})
}

func TestFail(t *testing.T) {
	lec := newTestLecture(t)
	for _, from := range []LectureStatus{LectureStatusPending, LectureStatusProcessing, LectureStatusCompleted, LectureStatusFailed} {
		lec.Status = from
		lec.Fail(time.Now())
		if lec.Status != LectureStatusFailed {
			t.Errorf("expected failed after Fail from %s, got %s", from, lec.Status)
		}
	}
}

func TestUpdateInfo(t *testing.T) {
	lec := newTestLecture(t)
	newTitle, _ := NewTitle("Renamed")
	tags, _ := NewTags([]string{"go"})
	at := time.Now().Add(time.Minute)

	lec.UpdateInfo(at, &newTitle, tags)
	if lec.Title != newTitle {
		t.Errorf("expected title updated, got %q", lec.Title)
	}
	if len(lec.Tags) != 1 || lec.Tags[0] != "go" {
		t.Errorf("expected tags updated, got %v", lec.Tags)
	}
	if lec.Status != LectureStatusPending {
		t.Errorf("expected status untouched, got %s", lec.Status)
	}
	if !lec.UpdatedAt.Equal(at) {
		t.Error("expected updated_at bumped")
	}

	// nil tags means "leave tags alone"
	lec.UpdateInfo(at.Add(time.Minute), nil, nil)
	if len(lec.Tags) != 1 {
		t.Errorf("expected tags preserved, got %v", lec.Tags)
	}
}

func makeString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
