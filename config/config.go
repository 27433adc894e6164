// Package config manages application configuration.
//
// Settings come from three sources, highest priority first: environment
// variables, an optional JSON config file (ytbrief.json in the working
// directory or ~/.config/ytbrief/), and built-in defaults. API
// credentials are read here and nowhere else; the acquisition and
// summarization packages receive them through this type.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `json:"listen_addr"`
	// StorePath is the path of the JSON summary store.
	StorePath string `json:"store_path"`

	// YouTubeAPIKey authorizes YouTube Data API v3 lookups. Optional:
	// without it the metadata and caption chains skip the API strategy.
	YouTubeAPIKey string `json:"-"`
	// HTTPTimeout bounds every metadata/caption HTTP call.
	HTTPTimeout time.Duration `json:"http_timeout"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp").
	YtdlpPath string `json:"ytdlp_path"`
	// YtdlpTimeout is the maximum time to wait for audio extraction.
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`
	// FfmpegLocation is passed to yt-dlp via --ffmpeg-location when set.
	FfmpegLocation string `json:"ffmpeg_location"`
	// TempDir is where extracted audio files are written.
	TempDir string `json:"temp_dir"`

	// OpenAIAPIKey authorizes Whisper transcription and the secondary
	// summarization tier.
	OpenAIAPIKey string `json:"-"`
	// AssemblyAIAPIKey authorizes the alternate speech backend.
	AssemblyAIAPIKey string `json:"-"`
	// MaxAudioSizeMB rejects audio files larger than this before the
	// Whisper upload is even attempted.
	MaxAudioSizeMB int `json:"max_audio_size_mb"`
	// TranscribeRetries is the retry count for the primary speech backend.
	TranscribeRetries int `json:"transcribe_retries"`

	// GCPProject and GCPLocation select the Vertex AI project used for
	// Gemini summarization and audio transcription.
	GCPProject  string `json:"gcp_project"`
	GCPLocation string `json:"gcp_location"`
	// GCPCredentialsFile is a service-account JSON file. Empty means
	// application default credentials.
	GCPCredentialsFile string `json:"-"`
	// GeminiModel is the Vertex AI model name.
	GeminiModel string `json:"gemini_model"`
	// OpenAIModel is the chat model for the secondary summarization tier.
	OpenAIModel string `json:"openai_model"`

	// CaptionLanguages is the caption language preference order.
	CaptionLanguages []string `json:"caption_languages"`

	// DefaultSummaryType, DefaultLanguage and DefaultMaxLength fill in
	// omitted request fields.
	DefaultSummaryType string `json:"default_summary_type"`
	DefaultLanguage    string `json:"default_language"`
	DefaultMaxLength   int    `json:"default_max_length"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:         ":8080",
		StorePath:          "ytbrief.db.json",
		HTTPTimeout:        15 * time.Second,
		YtdlpPath:          "yt-dlp",
		YtdlpTimeout:       5 * time.Minute,
		TempDir:            filepath.Join(os.TempDir(), "ytbrief_audio"),
		MaxAudioSizeMB:     25,
		TranscribeRetries:  2,
		GCPLocation:        "us-central1",
		GeminiModel:        "gemini-2.0-flash-001",
		OpenAIModel:        "gpt-3.5-turbo",
		CaptionLanguages:   []string{"pt", "pt-BR", "en", "en-US"},
		DefaultSummaryType: "super-detailed",
		DefaultLanguage:    "pt-BR",
		DefaultMaxLength:   5000,
	}
}

// Load loads configuration from environment variables, config file, and
// applies defaults. Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	// A local .env is a development convenience, not a requirement.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytbrief.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytbrief.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytbrief", "ytbrief.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables. Credentials
// use their conventional names; everything else is YTBRIEF_-prefixed.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTBRIEF_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("YTBRIEF_STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("YTBRIEF_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTBRIEF_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTBRIEF_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YTBRIEF_FFMPEG_LOCATION"); v != "" {
		c.FfmpegLocation = v
	}
	if v := os.Getenv("YTBRIEF_TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv("YTBRIEF_MAX_AUDIO_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAudioSizeMB = n
		}
	}
	if v := os.Getenv("YTBRIEF_TRANSCRIBE_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TranscribeRetries = n
		}
	}
	if v := os.Getenv("YTBRIEF_GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("YTBRIEF_OPENAI_MODEL"); v != "" {
		c.OpenAIModel = v
	}

	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv("ASSEMBLYAI_API_KEY"); v != "" {
		c.AssemblyAIAPIKey = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.GCPProject = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_LOCATION"); v != "" {
		c.GCPLocation = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.GCPCredentialsFile = v
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.MaxAudioSizeMB <= 0 {
		return fmt.Errorf("max_audio_size_mb must be positive")
	}
	if c.TranscribeRetries < 0 {
		return fmt.Errorf("transcribe_retries must be non-negative")
	}
	if c.DefaultMaxLength <= 0 {
		return fmt.Errorf("default_max_length must be positive")
	}
	if len(c.CaptionLanguages) == 0 {
		return fmt.Errorf("caption_languages must not be empty")
	}
	return nil
}
