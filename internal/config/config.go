package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config contains all runtime settings for the assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	SayPath  string
	SayVoice string

	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	ElevenLabsVoiceID string
	ElevenLabsModelID string
	AudioPlayerPath   string

	OllamaBaseURL   string
	OllamaModel     string
	OllamaAutoStart bool

	WeatherDefaultLocation string

	DatabaseURL string

	// SupportDir holds favorites and last-played state.
	SupportDir string
}

// Load reads environment variables and applies safe defaults. The assistant
// binds to loopback only; it is a local helper, not a network service.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", "127.0.0.1:58586"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "juliejulie"),
		AllowAnyOrigin:   false,
		ShutdownTimeout:  15 * time.Second,

		SayPath:  envOrDefault("SAY_PATH", "say"),
		SayVoice: envOrDefault("SAY_VOICE", "Samantha"),

		ElevenLabsAPIKey:  stringsTrimSpace("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL: envOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		ElevenLabsVoiceID: envOrDefault("ELEVENLABS_TTS_VOICE_ID", "cgSgspJ2msm6clMCkdW9"),
		ElevenLabsModelID: envOrDefault("ELEVENLABS_TTS_MODEL_ID", "eleven_multilingual_v2"),
		AudioPlayerPath:   envOrDefault("AUDIO_PLAYER_PATH", "afplay"),

		OllamaBaseURL:   envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:     envOrDefault("OLLAMA_MODEL", "gemma3:4b"),
		OllamaAutoStart: true,

		WeatherDefaultLocation: stringsTrimSpace("WEATHER_DEFAULT_LOCATION"),

		DatabaseURL: stringsTrimSpace("DATABASE_URL"),
		SupportDir:  stringsTrimSpace("APP_SUPPORT_DIR"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.OllamaAutoStart, err = boolFromEnv("OLLAMA_AUTO_START", cfg.OllamaAutoStart)
	if err != nil {
		return Config{}, err
	}

	if cfg.SupportDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SupportDir = filepath.Join(home, "Library", "Application Support", "Julie Julie")
	}

	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
	}
	if cfg.OllamaModel == "" {
		return Config{}, fmt.Errorf("OLLAMA_MODEL must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
