package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG_FILE", "GEMINI_API_KEY", "YOUTUBE_API_KEY", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadWithoutConfigFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputFile != "transcription.json" {
		t.Errorf("OutputFile = %s, want transcription.json", cfg.OutputFile)
	}
	if cfg.Paragraph.MaxWords != 100 {
		t.Errorf("Paragraph.MaxWords = %d, want 100", cfg.Paragraph.MaxWords)
	}
	if cfg.Transcriber.Backend != BackendWhisper {
		t.Errorf("Transcriber.Backend = %s, want %s", cfg.Transcriber.Backend, BackendWhisper)
	}
	if cfg.Whisper.Model != "base" {
		t.Errorf("Whisper.Model = %s, want base", cfg.Whisper.Model)
	}
	if cfg.Download.AudioFormat != "wav" {
		t.Errorf("Download.AudioFormat = %s, want wav", cfg.Download.AudioFormat)
	}
	if cfg.Download.Timeout != 0 || cfg.Transcriber.Timeout != 0 {
		t.Errorf("timeouts should default to none, got %v / %v", cfg.Download.Timeout, cfg.Transcriber.Timeout)
	}
	if cfg.YouTube.MetadataEnabled() {
		t.Error("metadata check should be disabled without credentials")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Expected error for explicitly named missing config file")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, `
output_file: out.json
log_level: debug
paragraph:
  max_words: 25
download:
  timeout: 5m
transcriber:
  backend: gemini
  timeout: 90s
ai:
  model: gemini-2.5-pro
`))
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputFile != "out.json" {
		t.Errorf("OutputFile = %s, want out.json", cfg.OutputFile)
	}
	if cfg.Paragraph.MaxWords != 25 {
		t.Errorf("Paragraph.MaxWords = %d, want 25", cfg.Paragraph.MaxWords)
	}
	if cfg.Download.Timeout != 5*time.Minute {
		t.Errorf("Download.Timeout = %v, want 5m", cfg.Download.Timeout)
	}
	if cfg.Transcriber.Timeout != 90*time.Second {
		t.Errorf("Transcriber.Timeout = %v, want 90s", cfg.Transcriber.Timeout)
	}
	if cfg.AI.GeminiAPIKey != "env-key" {
		t.Errorf("AI.GeminiAPIKey = %s, want env-key", cfg.AI.GeminiAPIKey)
	}
	if cfg.AI.Model != "gemini-2.5-pro" {
		t.Errorf("AI.Model = %s, want gemini-2.5-pro", cfg.AI.Model)
	}
	if !cfg.YouTube.MetadataEnabled() {
		t.Error("metadata check should be enabled with YOUTUBE_API_KEY")
	}
	if cfg.Download.Binary != "yt-dlp" {
		t.Errorf("Download.Binary = %s, want yt-dlp default", cfg.Download.Binary)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "Negative paragraph size",
			body:    "paragraph:\n  max_words: -3\n",
			wantErr: "max_words",
		},
		{
			name:    "Unknown backend",
			body:    "transcriber:\n  backend: vosk\n",
			wantErr: "unknown transcriber backend",
		},
		{
			name:    "Gemini without key",
			body:    "transcriber:\n  backend: gemini\n",
			wantErr: "Gemini API key is required",
		},
		{
			name:    "Negative timeout",
			body:    "download:\n  timeout: -1s\n",
			wantErr: "download.timeout",
		},
		{
			name:    "Malformed yaml",
			body:    "paragraph: [unterminated\n",
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONFIG_FILE", writeConfig(t, tt.body))

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("Default() config does not validate: %v", err)
	}
	if cfg.YouTube.TokenFile != "youtube_token.json" {
		t.Errorf("YouTube.TokenFile = %s, want youtube_token.json", cfg.YouTube.TokenFile)
	}
}
