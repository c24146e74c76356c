package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"lecture-transcription/internal/domain/ports/adapter"
)

var _ adapter.AudioProcessor = (*FFmpegProcessor)(nil)

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.String(), errBuf.String(), err
}

// FFmpegProcessor normalizes audio into the 16 kHz mono WAV form the speech
// engine expects, and measures duration with ffprobe.
type FFmpegProcessor struct {
	ffmpegPath  string
	ffprobePath string
	runner      commandRunner
}

func NewFFmpegProcessor(ffmpegPath, ffprobePath string) *FFmpegProcessor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegProcessor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, runner: execRunner{}}
}

// Normalize converts the file in a sibling path; the input is left intact so
// the caller can release both exactly once. A file already in the target
// form is passed through unchanged.
func (p *FFmpegProcessor) Normalize(ctx context.Context, localPath string) (string, error) {
	if strings.HasSuffix(localPath, ".16k.wav") {
		return localPath, nil
	}
	outPath := normalizedPath(localPath)
	args := buildNormalizeArgs(localPath, outPath)
	_, stderr, err := p.runner.Run(ctx, p.ffmpegPath, args...)
	if err != nil {
		return "", fmt.Errorf("ffmpeg conversion failed: %w: %s", err, firstLine(stderr))
	}
	return outPath, nil
}

// Duration reads the container duration in seconds via ffprobe.
func (p *FFmpegProcessor) Duration(ctx context.Context, localPath string) (float64, error) {
	args := buildDurationArgs(localPath)
	stdout, stderr, err := p.runner.Run(ctx, p.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, firstLine(stderr))
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(stdout), err)
	}
	if sec <= 0 {
		return 0, errors.New("ffprobe reported a non-positive duration")
	}
	return sec, nil
}

func normalizedPath(localPath string) string {
	base := strings.TrimSuffix(localPath, extOf(localPath))
	return base + ".16k.wav"
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[i:]
	}
	return ""
}

func buildNormalizeArgs(inPath, outPath string) []string {
	return []string{
		"-y",
		"-i", inPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		outPath,
	}
}

func buildDurationArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
