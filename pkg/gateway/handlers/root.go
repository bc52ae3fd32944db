package handlers

import (
	"net/http"

	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
)

const apiVersion = "1.0.0"

// RootHandler serves the service descriptor so callers can discover the
// endpoints without docs.
type RootHandler struct{}

func (h RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Status    string            `json:"status"`
		Endpoints map[string]string `json:"endpoints"`
	}{
		Message: "AI Interview Buddy API",
		Version: apiVersion,
		Status:  "running",
		Endpoints: map[string]string{
			"websocket": "/ws/audio",
			"upload":    "/api/upload",
			"health":    "/healthz",
			"ready":     "/readyz",
			"config":    "/api/config",
		},
	})
}

// ConfigHandler exposes the non-secret runtime configuration: which
// backends are active and which features this build supports.
type ConfigHandler struct {
	Config config.Config
}

func (h ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	transcriber := "mock"
	if h.Config.WhisperURL != "" {
		transcriber = "whisper"
	}
	suggestions := "canned"
	switch {
	case h.Config.GeminiAPIKey != "":
		suggestions = "gemini"
	case h.Config.OllamaURL != "":
		suggestions = "ollama"
	}
	storage := "memory"
	if h.Config.DatabaseURL != "" {
		storage = "postgres"
	}

	writeJSON(w, http.StatusOK, struct {
		Transcriber  string   `json:"transcriber"`
		Suggestions  string   `json:"suggestions"`
		Storage      string   `json:"storage"`
		WebsocketURL string   `json:"websocket_url"`
		Features     []string `json:"features"`
	}{
		Transcriber:  transcriber,
		Suggestions:  suggestions,
		Storage:      storage,
		WebsocketURL: "/ws/audio",
		Features: []string{
			"real_time_transcription",
			"ai_coaching",
			"resume_upload",
			"job_description_analysis",
			"intent_detection",
		},
	})
}
