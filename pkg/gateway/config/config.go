package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// CORS
	CORSAllowedOrigins map[string]struct{} // empty => disabled

	// Document storage. Empty DatabaseURL selects the in-memory store.
	DatabaseURL string

	// Upload endpoint.
	UploadMaxBytes int64

	// Transcription backend. Empty WhisperURL selects the mock transcriber.
	WhisperURL        string
	TranscribeTimeout time.Duration

	// Suggestion backend: "gemini" when GeminiAPIKey is set, "ollama" when
	// OllamaURL is set, canned responses otherwise.
	GeminiAPIKey    string
	GeminiModel     string
	OllamaURL       string
	OllamaModel     string
	GenerateTimeout time.Duration

	// Live websocket session tuning.
	AudioSegmentBytes   int
	HistoryCap          int
	WSMaxMessageBytes   int64
	WSPingInterval      time.Duration
	WSWriteTimeout      time.Duration
	WSReadTimeout       time.Duration
	WSOutboundQueueSize int

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("IB_ADDR", ":8000"),
		CORSAllowedOrigins:  make(map[string]struct{}),
		DatabaseURL:         envOr("IB_DATABASE_URL", ""),
		UploadMaxBytes:      envInt64Or("IB_UPLOAD_MAX_BYTES", 10<<20), // 10 MiB
		WhisperURL:          envOr("IB_WHISPER_URL", ""),
		TranscribeTimeout:   envDurationOr("IB_TRANSCRIBE_TIMEOUT", 30*time.Second),
		GeminiAPIKey:        envOr("IB_GEMINI_API_KEY", ""),
		GeminiModel:         envOr("IB_GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaURL:           envOr("IB_OLLAMA_URL", ""),
		OllamaModel:         envOr("IB_OLLAMA_MODEL", "llama2"),
		GenerateTimeout:     envDurationOr("IB_GENERATE_TIMEOUT", 20*time.Second),
		AudioSegmentBytes:   envIntOr("IB_AUDIO_SEGMENT_BYTES", 32000),
		HistoryCap:          envIntOr("IB_HISTORY_CAP", 20),
		WSMaxMessageBytes:   envInt64Or("IB_WS_MAX_MESSAGE_BYTES", 1<<20), // 1 MiB
		WSPingInterval:      envDurationOr("IB_WS_PING_INTERVAL", 20*time.Second),
		WSWriteTimeout:      envDurationOr("IB_WS_WRITE_TIMEOUT", 5*time.Second),
		WSReadTimeout:       envDurationOr("IB_WS_READ_TIMEOUT", 0),
		WSOutboundQueueSize: envIntOr("IB_WS_OUTBOUND_QUEUE_SIZE", 64),
		ReadHeaderTimeout:   envDurationOr("IB_READ_HEADER_TIMEOUT", 10*time.Second),
		ShutdownGracePeriod: envDurationOr("IB_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("IB_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.UploadMaxBytes <= 0 {
		return Config{}, fmt.Errorf("IB_UPLOAD_MAX_BYTES must be > 0")
	}
	if cfg.TranscribeTimeout <= 0 {
		return Config{}, fmt.Errorf("IB_TRANSCRIBE_TIMEOUT must be > 0")
	}
	if cfg.GenerateTimeout <= 0 {
		return Config{}, fmt.Errorf("IB_GENERATE_TIMEOUT must be > 0")
	}
	if cfg.AudioSegmentBytes <= 0 {
		return Config{}, fmt.Errorf("IB_AUDIO_SEGMENT_BYTES must be > 0")
	}
	if cfg.HistoryCap <= 0 {
		return Config{}, fmt.Errorf("IB_HISTORY_CAP must be > 0")
	}
	if cfg.WSMaxMessageBytes <= 0 {
		return Config{}, fmt.Errorf("IB_WS_MAX_MESSAGE_BYTES must be > 0")
	}
	if cfg.WSPingInterval <= 0 {
		return Config{}, fmt.Errorf("IB_WS_PING_INTERVAL must be > 0")
	}
	if cfg.WSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("IB_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.WSReadTimeout < 0 {
		return Config{}, fmt.Errorf("IB_WS_READ_TIMEOUT must be >= 0")
	}
	if cfg.WSOutboundQueueSize <= 0 {
		return Config{}, fmt.Errorf("IB_WS_OUTBOUND_QUEUE_SIZE must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("IB_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("IB_SHUTDOWN_GRACE_PERIOD must be > 0")
	}
	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
