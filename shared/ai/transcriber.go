package ai

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"yt-transcriber/shared/config"
	"yt-transcriber/shared/paragraph"
)

const filePollInterval = 2 * time.Second

const transcriptionPrompt = `You are a speech-to-text engine. Transcribe the spoken words in the attached audio verbatim.

RULES:
- Output only the transcript text, no headings, labels, timestamps or speaker names
- Keep the original spoken language, do not translate
- Use normal punctuation and capitalization
- If there is no speech, output nothing`

// Transcriber sends local audio to Gemini through the Files API.
type Transcriber struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

func NewTranscriber(cfg *config.AIConfig, logger zerolog.Logger) (*Transcriber, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Transcriber{
		client: client,
		model:  cfg.Model,
		logger: logger.With().Str("component", "gemini").Logger(),
	}, nil
}

func (t *Transcriber) Name() string {
	return "gemini/" + t.model
}

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if audioPath == "" {
		return "", fmt.Errorf("audio path is required")
	}

	mimeType := audioMIMEType(audioPath)
	t.logger.Info().Str("model", t.model).Str("mime", mimeType).Msg("Uploading audio to Gemini")

	file, err := t.client.Files.UploadFromPath(ctx, audioPath, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: filepath.Base(audioPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	defer t.deleteFile(file.Name)

	file, err = t.waitForActive(ctx, file)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcriptionPrompt),
		genai.NewPartFromURI(file.URI, file.MIMEType),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	t.logger.Info().Msg("Transcribing audio... Please wait.")
	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe %s: %w", filepath.Base(audioPath), err)
	}

	text := transcriptText(result)
	if text == "" {
		t.logger.Warn().Str("audio", filepath.Base(audioPath)).Msg("Model returned no speech")
	}

	return text, nil
}

// transcriptText returns the cleaned transcript in resp. Silent audio yields "".
func transcriptText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return cleanTranscript(resp.Text())
}

func (t *Transcriber) waitForActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(filePollInterval):
		}

		var err error
		file, err = t.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to poll uploaded audio: %w", err)
		}
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("Gemini could not process uploaded audio %s", file.Name)
	}
	return file, nil
}

// deleteFile runs after the caller's context may already be gone.
func (t *Transcriber) deleteFile(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := t.client.Files.Delete(ctx, name, nil); err != nil {
		t.logger.Warn().Err(err).Str("file", name).Msg("Failed to delete uploaded audio")
	}
}

func audioMIMEType(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mp3"
	case ".m4a":
		return "audio/mp4"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".aac":
		return "audio/aac"
	default:
		if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
			return t
		}
		return "audio/wav"
	}
}

// cleanTranscript strips markdown fences and label prefixes models sometimes add.
func cleanTranscript(response string) string {
	text := strings.TrimSpace(response)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.Index(text, "\n"); nl != -1 && !strings.Contains(text[:nl], " ") {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	for _, label := range []string{"Transcript:", "Transcription:"} {
		if strings.HasPrefix(text, label) {
			text = strings.TrimPrefix(text, label)
			break
		}
	}

	return paragraph.Normalize(text)
}
