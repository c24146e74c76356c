package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/domain/ports/adapter"
	"lecture-transcription/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.STTEngine = (*WhisperAdapter)(nil)

// WhisperAdapter implements the STT port against an OpenAI-compatible
// /audio/transcriptions endpoint.
type WhisperAdapter struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewWhisperAdapter(apiKey, baseURL, model string) (*WhisperAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("stt api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperAdapter{
		apiKey: apiKey,
		base:   baseURL,
		model:  model,
		client: &http.Client{Timeout: 10 * time.Minute},
	}, nil
}

func (w *WhisperAdapter) ModelName() string { return w.model }

// verbose_json response shape of the transcriptions endpoint.
type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

func (w *WhisperAdapter) Transcribe(ctx context.Context, segment model.AudioSegment) ([]model.TranscriptionSegment, error) {
	metrics.ObserveSTTAudioSeconds(segment.EndOffset - segment.StartOffset)

	body, contentType, err := w.buildRequestBody(segment.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessing, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.base+"/audio/transcriptions", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessing, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	start := time.Now()
	resp, err := w.client.Do(req)
	latencyMs := int(time.Since(start) / time.Millisecond)
	if err != nil {
		metrics.ObserveSTTCall(w.model, latencyMs, false)
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessing, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		metrics.ObserveSTTCall(w.model, latencyMs, false)
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: http %d: %s", domain.ErrProcessing, resp.StatusCode, bytes.TrimSpace(detail))
	}

	var payload transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveSTTCall(w.model, latencyMs, false)
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrProcessing, err)
	}
	metrics.ObserveSTTCall(w.model, latencyMs, true)

	segments := make([]model.TranscriptionSegment, 0, len(payload.Segments))
	for _, s := range payload.Segments {
		segments = append(segments, model.TranscriptionSegment{
			Text:        s.Text,
			StartOffset: s.Start,
			EndOffset:   s.End,
			Confidence:  s.AvgLogprob,
		})
	}
	// Some compatible servers omit segments and return only the full text.
	if len(segments) == 0 && payload.Text != "" {
		segments = append(segments, model.TranscriptionSegment{
			Text:        payload.Text,
			StartOffset: segment.StartOffset,
			EndOffset:   segment.EndOffset,
		})
	}
	return segments, nil
}

func (w *WhisperAdapter) buildRequestBody(localPath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("model", w.model); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
