package handlers

import (
	"net/http"

	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/lifecycle"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// ReadyHandler reports whether this instance should receive traffic. It
// turns 503 as soon as shutdown begins so the load balancer routes new
// connections elsewhere.
type ReadyHandler struct {
	Config    config.Config
	Lifecycle *lifecycle.Lifecycle
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK     bool     `json:"ok"`
		Issues []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	if h.Lifecycle.IsDraining() {
		issues = append(issues, "draining")
	}
	if h.Config.UploadMaxBytes <= 0 {
		issues = append(issues, "upload_max_bytes must be > 0")
	}
	if h.Config.TranscribeTimeout <= 0 {
		issues = append(issues, "transcribe timeout must be > 0")
	}
	if h.Config.GenerateTimeout <= 0 {
		issues = append(issues, "generate timeout must be > 0")
	}
	if h.Config.AudioSegmentBytes <= 0 {
		issues = append(issues, "audio segment size must be > 0")
	}
	if h.Config.HistoryCap <= 0 {
		issues = append(issues, "history cap must be > 0")
	}
	if h.Config.WSOutboundQueueSize <= 0 {
		issues = append(issues, "ws outbound queue size must be > 0")
	}

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, readyResp{OK: ok, Issues: issues})
}
