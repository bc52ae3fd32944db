package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
)

// Ollama generates suggestions with a locally served model via the
// Ollama /api/generate endpoint.
type Ollama struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOllama(baseURL, model string, httpClient *http.Client, logger *slog.Logger) *Ollama {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ollama{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) Generate(ctx context.Context, question string, label intent.Label, bundle retrieve.ContextBundle) (CoachingResult, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: buildPrompt(question, label, bundle),
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.7,
			NumPredict:  200,
		},
	})
	if err != nil {
		return CoachingResult{}, fmt.Errorf("encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return CoachingResult{}, fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return CoachingResult{}, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return CoachingResult{}, fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CoachingResult{}, fmt.Errorf("decode ollama response: %w", err)
	}
	return parseModelOutput(out.Response), nil
}
