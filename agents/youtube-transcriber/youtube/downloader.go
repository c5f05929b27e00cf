package youtube

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

	"yt-transcriber/internal/models"
	"yt-transcriber/shared/config"
)

var (
	// ErrVideoUnavailable covers private, removed, region or age locked videos.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrNetwork covers connectivity failures that may succeed on a later attempt.
	ErrNetwork = errors.New("network error")
	// ErrToolMissing is returned when yt-dlp or ffmpeg is not installed.
	ErrToolMissing = errors.New("required tool not found")
)

var unavailableMarkers = []string{
	"private video",
	"video unavailable",
	"this video is unavailable",
	"this video is private",
	"has been removed",
	"members-only",
	"sign in to confirm your age",
	"not available in your country",
	"http error 404",
	"incomplete youtube id",
	"this live event will begin",
}

var networkMarkers = []string{
	"unable to download webpage",
	"temporary failure in name resolution",
	"name or service not known",
	"failed to resolve",
	"getaddrinfo failed",
	"connection refused",
	"connection reset",
	"network is unreachable",
	"timed out",
	"http error 5",
	"[ssl:",
}

var toolMarkers = []string{
	"ffprobe and ffmpeg not found",
	"ffmpeg not found",
	"ffprobe not found",
}

// VideoLookup reports metadata for a video ID before any bytes are fetched.
type VideoLookup interface {
	Lookup(ctx context.Context, videoID string) (*models.VideoMetadata, error)
}

// Downloader fetches the best audio stream with yt-dlp and extracts it to a
// single fixed container format.
type Downloader struct {
	binary       string
	format       string
	audioFormat  string
	audioQuality string
	lookup       VideoLookup
	logger       zerolog.Logger
}

// NewDownloader builds a Downloader. lookup may be nil to skip the availability check.
func NewDownloader(cfg *config.DownloadConfig, lookup VideoLookup, logger zerolog.Logger) *Downloader {
	return &Downloader{
		binary:       cfg.Binary,
		format:       cfg.Format,
		audioFormat:  strings.TrimPrefix(cfg.AudioFormat, "."),
		audioQuality: cfg.AudioQuality,
		lookup:       lookup,
		logger:       logger.With().Str("component", "downloader").Logger(),
	}
}

func (d *Downloader) FetchAudio(ctx context.Context, ref models.VideoReference, destDir string) (models.AudioAsset, error) {
	if err := d.checkAvailable(ctx, ref); err != nil {
		return models.AudioAsset{}, err
	}

	args := []string{
		"--no-playlist",
		"--no-progress",
		"--no-warnings",
		"-f", d.format,
		"-x",
		"--audio-format", d.audioFormat,
		"--audio-quality", d.audioQuality,
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--print", "after_move:filepath",
		"--no-simulate",
		string(ref),
	}

	d.logger.Info().Str("url", string(ref)).Msg("Downloading audio")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return models.AudioAsset{}, fmt.Errorf("%w: %s", ErrToolMissing, d.binary)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.AudioAsset{}, fmt.Errorf("download interrupted: %w", ctxErr)
		}
		return models.AudioAsset{}, ClassifyDownloadError(stderr.String())
	}

	path, err := d.resolveOutput(stdout.String(), destDir)
	if err != nil {
		return models.AudioAsset{}, err
	}

	d.logger.Debug().Str("path", path).Msg("Audio downloaded")
	return models.AudioAsset{Path: path}, nil
}

func (d *Downloader) checkAvailable(ctx context.Context, ref models.VideoReference) error {
	if d.lookup == nil {
		return nil
	}

	id, err := VideoID(ref)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Skipping availability check")
		return nil
	}

	meta, err := d.lookup.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, ErrVideoUnavailable) {
			return err
		}
		d.logger.Warn().Err(err).Str("video_id", id).Msg("Availability check failed, continuing with download")
		return nil
	}

	d.logger.Info().
		Str("title", meta.Title).
		Str("channel", meta.ChannelTitle).
		Int("duration_seconds", meta.DurationSeconds).
		Msg("Video found")
	return nil
}

// resolveOutput takes the path yt-dlp printed and swaps its extension for the
// extracted format. Falls back to scanning destDir when nothing was printed.
func (d *Downloader) resolveOutput(stdout, destDir string) (string, error) {
	var printed string
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			printed = line
		}
	}

	if printed != "" {
		path := strings.TrimSuffix(printed, filepath.Ext(printed)) + "." + d.audioFormat
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "*."+d.audioFormat))
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", destDir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .%s file produced by %s", d.audioFormat, d.binary)
	}
	return matches[0], nil
}

// ClassifyDownloadError maps yt-dlp diagnostics to ErrVideoUnavailable,
// ErrNetwork or ErrToolMissing. Anything else is returned as a plain error.
func ClassifyDownloadError(stderr string) error {
	message := lastErrorLine(stderr)
	lower := strings.ToLower(stderr)

	for _, marker := range toolMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrToolMissing, message)
		}
	}
	for _, marker := range unavailableMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrVideoUnavailable, message)
		}
	}
	for _, marker := range networkMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrNetwork, message)
		}
	}

	if message == "" {
		return errors.New("yt-dlp failed without output")
	}
	return fmt.Errorf("yt-dlp failed: %s", message)
}

func lastErrorLine(stderr string) string {
	var last string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
		last = line
	}
	return last
}
