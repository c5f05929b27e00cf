package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

// Transcriber backends.
const (
	BackendWhisper = "whisper"
	BackendGemini  = "gemini"
)

type Config struct {
	OutputFile  string            `yaml:"output_file"`
	LogLevel    string            `yaml:"log_level"`
	Paragraph   ParagraphConfig   `yaml:"paragraph"`
	Download    DownloadConfig    `yaml:"download"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	AI          AIConfig          `yaml:"ai"`
	YouTube     YouTubeConfig     `yaml:"youtube"`
}

type ParagraphConfig struct {
	MaxWords int `yaml:"max_words"`
}

type DownloadConfig struct {
	Binary       string        `yaml:"binary"`
	Format       string        `yaml:"format"`
	AudioFormat  string        `yaml:"audio_format"`
	AudioQuality string        `yaml:"audio_quality"`
	Timeout      time.Duration `yaml:"timeout"`
}

type TranscriberConfig struct {
	Backend string        `yaml:"backend"`
	Timeout time.Duration `yaml:"timeout"`
}

type WhisperConfig struct {
	Binary   string `yaml:"binary"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

// YouTubeConfig enables the optional Data API availability check. It stays
// disabled unless an API key or OAuth client credentials are present.
type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
}

// MetadataEnabled reports whether enough credentials exist to query the Data API.
func (y YouTubeConfig) MetadataEnabled() bool {
	return y.APIKey != "" || (y.ClientID != "" && y.ClientSecret != "")
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads .env and the YAML file named by CONFIG_FILE (default config.yaml).
// A missing default file is not an error; the tool runs on built-in defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	explicit := configFile != ""
	if !explicit {
		configFile = defaultConfigFile
	}

	var cfg Config

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// zero-config run
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.ClientID == "" {
		cfg.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.YouTube.ClientSecret == "" {
		cfg.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputFile == "" {
		c.OutputFile = "transcription.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Paragraph.MaxWords == 0 {
		c.Paragraph.MaxWords = 100
	}
	if c.Download.Binary == "" {
		c.Download.Binary = "yt-dlp"
	}
	if c.Download.Format == "" {
		c.Download.Format = "bestaudio/best"
	}
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = "wav"
	}
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = "192K"
	}
	if c.Transcriber.Backend == "" {
		c.Transcriber.Backend = BackendWhisper
	}
	if c.Whisper.Binary == "" {
		c.Whisper.Binary = "whisper"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
}

func (c *Config) validate() error {
	if c.Paragraph.MaxWords <= 0 {
		return fmt.Errorf("paragraph.max_words must be positive, got %d", c.Paragraph.MaxWords)
	}
	if c.Download.Timeout < 0 {
		return fmt.Errorf("download.timeout must not be negative")
	}
	if c.Transcriber.Timeout < 0 {
		return fmt.Errorf("transcriber.timeout must not be negative")
	}
	switch c.Transcriber.Backend {
	case BackendWhisper:
	case BackendGemini:
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("Gemini API key is required for the gemini backend (set GEMINI_API_KEY or ai.gemini_api_key)")
		}
	default:
		return fmt.Errorf("unknown transcriber backend %q (want %q or %q)", c.Transcriber.Backend, BackendWhisper, BackendGemini)
	}
	return nil
}
