package youtubetranscriber

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"yt-transcriber/agents/youtube-transcriber/youtube"
	"yt-transcriber/internal/models"
	"yt-transcriber/shared/ai"
	"yt-transcriber/shared/config"
	"yt-transcriber/shared/paragraph"
	"yt-transcriber/shared/runner"
	"yt-transcriber/shared/storage"
	"yt-transcriber/shared/whisper"
)

// Downloader materializes the audio track of a video inside destDir.
type Downloader interface {
	FetchAudio(ctx context.Context, ref models.VideoReference, destDir string) (models.AudioAsset, error)
}

// Transcriber turns an audio file into raw transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// TranscriberMetrics implements runner.Metrics
type TranscriberMetrics struct {
	Paragraphs int
	Words      int
	OutputFile string
}

func (m TranscriberMetrics) GetSummary() string {
	return fmt.Sprintf("wrote %d paragraphs (%d words) to %s", m.Paragraphs, m.Words, m.OutputFile)
}

// TranscriberAgent implements the runner.Agent interface
type TranscriberAgent struct {
	config      *config.Config
	logger      zerolog.Logger
	prompter    *Prompter
	out         io.Writer
	downloader  Downloader
	transcriber Transcriber
	tempRoot    string
	removeAll   func(string) error
	onWarning   func(error)
}

// AgentOption customizes TranscriberAgent creation
type AgentOption func(*TranscriberAgent)

func WithDownloader(d Downloader) AgentOption {
	return func(a *TranscriberAgent) {
		a.downloader = d
	}
}

func WithTranscriber(t Transcriber) AgentOption {
	return func(a *TranscriberAgent) {
		a.transcriber = t
	}
}

// WithTempRoot sets the parent of the per-run temporary directory.
func WithTempRoot(dir string) AgentOption {
	return func(a *TranscriberAgent) {
		a.tempRoot = dir
	}
}

func NewTranscriberAgent(cfg *config.Config, logger zerolog.Logger, in io.Reader, out io.Writer, opts ...AgentOption) *TranscriberAgent {
	a := &TranscriberAgent{
		config:    cfg,
		logger:    logger,
		prompter:  NewPrompter(in, out),
		out:       out,
		removeAll: os.RemoveAll,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *TranscriberAgent) Name() string {
	return "YouTube Transcriber"
}

func (a *TranscriberAgent) Initialize() error {
	if a.downloader == nil {
		var lookup youtube.VideoLookup
		if a.config.YouTube.MetadataEnabled() {
			client, err := youtube.NewMetadataClient(context.Background(), &a.config.YouTube, a.logger)
			if err != nil {
				a.logger.Warn().Err(err).Msg("YouTube Data API unavailable, skipping availability checks")
			} else {
				lookup = client
			}
		}
		a.downloader = youtube.NewDownloader(&a.config.Download, lookup, a.logger)
		a.logger.Debug().Str("binary", a.config.Download.Binary).Msg("Downloader initialized")
	}

	if a.transcriber == nil {
		switch a.config.Transcriber.Backend {
		case config.BackendGemini:
			t, err := ai.NewTranscriber(&a.config.AI, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create Gemini transcriber: %w", err)
			}
			a.transcriber = t
			a.logger.Debug().Str("transcriber", t.Name()).Msg("Transcriber initialized")
		default:
			t := whisper.NewTranscriber(&a.config.Whisper, a.logger)
			a.transcriber = t
			a.logger.Debug().Str("transcriber", t.Name()).Msg("Transcriber initialized")
		}
	}

	return nil
}

func (a *TranscriberAgent) RunOnce(ctx context.Context, events *runner.AgentEvents) error {
	startTime := time.Now()
	if events != nil {
		a.onWarning = events.OnWarning
	}

	ref, err := a.prompter.PromptURL(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
		}
		return &PipelineError{Kind: KindInputValidation, Err: err}
	}

	fmt.Fprintln(a.out, "\nTranscribing video... This may take a few minutes.")

	result, err := a.Transcribe(ctx, ref)
	if err != nil {
		return err
	}

	if err := storage.Save(result, a.config.OutputFile); err != nil {
		return &PipelineError{Kind: KindPersistence, Err: err}
	}
	fmt.Fprintf(a.out, "Transcription saved to %s\n", a.config.OutputFile)

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(TranscriberMetrics{
			Paragraphs: len(result.Paragraphs),
			Words:      paragraph.WordCount(result.Paragraphs),
			OutputFile: a.config.OutputFile,
		}, time.Since(startTime))
	}

	return nil
}

// Transcribe downloads, transcribes and formats one video inside a temporary
// directory that is removed on every return path. A removal failure never
// replaces an earlier error; it is attached to it as PipelineError.Cleanup.
func (a *TranscriberAgent) Transcribe(ctx context.Context, ref models.VideoReference) (_ *models.TranscriptionResult, err error) {
	tempDir, err := os.MkdirTemp(a.tempRoot, "yt-transcriber-*")
	if err != nil {
		return nil, &PipelineError{Kind: KindDownload, Err: fmt.Errorf("failed to create temporary directory: %w", err)}
	}
	a.logger.Debug().Str("dir", tempDir).Msg("Created temporary directory")

	defer func() {
		rmErr := a.removeAll(tempDir)
		if rmErr == nil {
			return
		}

		warning := &PipelineError{
			Kind: KindCleanup,
			Err:  fmt.Errorf("could not remove temporary directory %s: %w", tempDir, rmErr),
		}
		if pErr, ok := err.(*PipelineError); ok {
			pErr.Cleanup = warning
			return
		}
		a.warn(warning)
	}()

	downloadCtx, cancel := withOptionalTimeout(ctx, a.config.Download.Timeout)
	asset, err := a.downloader.FetchAudio(downloadCtx, ref, tempDir)
	cancel()
	if err != nil {
		return nil, &PipelineError{Kind: KindDownload, Err: err}
	}

	transcribeCtx, cancel := withOptionalTimeout(ctx, a.config.Transcriber.Timeout)
	text, err := a.transcriber.Transcribe(transcribeCtx, asset.Path)
	cancel()
	if err != nil {
		return nil, &PipelineError{Kind: KindTranscription, Err: err}
	}

	paragraphs := paragraph.Format(text, a.config.Paragraph.MaxWords)
	if len(paragraphs) == 0 {
		a.logger.Warn().Str("url", string(ref)).Msg("Transcript is empty")
	}
	a.logger.Info().Int("paragraphs", len(paragraphs)).Msg("Transcript formatted")

	return &models.TranscriptionResult{Paragraphs: paragraphs}, nil
}

func (a *TranscriberAgent) warn(err error) {
	if a.onWarning != nil {
		a.onWarning(err)
		return
	}
	a.logger.Warn().Err(err).Msg("Non-fatal failure")
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
