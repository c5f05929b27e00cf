// Package whisper runs the openai-whisper command line tool on a local audio file.
package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"yt-transcriber/shared/config"
)

// ErrNotInstalled is returned when the whisper binary cannot be found.
var ErrNotInstalled = errors.New("whisper executable not found")

type Transcriber struct {
	binary   string
	model    string
	language string
	logger   zerolog.Logger
}

func NewTranscriber(cfg *config.WhisperConfig, logger zerolog.Logger) *Transcriber {
	return &Transcriber{
		binary:   cfg.Binary,
		model:    cfg.Model,
		language: cfg.Language,
		logger:   logger.With().Str("component", "whisper").Logger(),
	}
}

func (t *Transcriber) Name() string {
	return "whisper/" + t.model
}

// Transcribe writes <stem>.txt next to audioPath and returns its contents.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if audioPath == "" {
		return "", fmt.Errorf("audio path is required")
	}

	outDir := filepath.Dir(audioPath)
	args := []string{
		audioPath,
		"--model", t.model,
		"--output_format", "txt",
		"--output_dir", outDir,
		"--verbose", "False",
	}
	if t.language != "" {
		args = append(args, "--language", t.language)
	}

	t.logger.Info().Str("model", t.model).Msg("Loading Whisper model and transcribing (this may take a moment)")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotInstalled, t.binary)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("whisper interrupted: %w", ctxErr)
		}
		return "", fmt.Errorf("whisper failed: %w: %s", err, lastLine(stderr.String()))
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	transcriptPath := filepath.Join(outDir, stem+".txt")

	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("failed to read whisper output %s: %w", transcriptPath, err)
	}

	t.logger.Debug().Int("bytes", len(data)).Msg("Transcript produced")
	return string(data), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
