package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
)

// WhisperClient talks to a whisper.cpp server's /inference endpoint.
type WhisperClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewWhisperClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *WhisperClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WhisperClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type whisperResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("whisper base url is not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "segment.wav")
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio part: %w", err)
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("write response_format field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("build whisper request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read whisper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper returned status %d", resp.StatusCode)
	}

	var decoded whisperResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode whisper response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("whisper error: %s", decoded.Error)
	}

	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		// No speech detected in the segment.
		return "", nil
	}
	return text, nil
}
