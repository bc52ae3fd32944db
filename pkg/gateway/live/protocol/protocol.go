// Package protocol defines the websocket wire format: JSON envelopes
// with a type tag and a data object, in both directions.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	StatusConnected      = "connected"
	StatusTranscribing   = "transcribing"
	StatusGenerating     = "generating"
	StatusNoSpeech       = "no_speech"
	StatusHistoryCleared = "history_cleared"
)

type DecodeError struct {
	Code    string
	Message string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ClientAudio carries one complete audio segment, already base64-decoded.
type ClientAudio struct {
	Audio []byte
}

type ClientPing struct{}

type ClientClearHistory struct{}

// DecodeClientMessage parses one inbound text frame. Every failure is a
// *DecodeError whose Message is safe to echo back to the client.
func DecodeClientMessage(data []byte) (any, error) {
	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &DecodeError{Code: "bad_json", Message: "Invalid JSON format"}
	}

	switch strings.TrimSpace(envelope.Type) {
	case "audio":
		var payload struct {
			Audio string `json:"audio"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, &DecodeError{Code: "bad_audio", Message: fmt.Sprintf("Invalid audio data: %v", err)}
		}
		raw, err := base64.StdEncoding.DecodeString(payload.Audio)
		if err != nil {
			return nil, &DecodeError{Code: "bad_audio", Message: fmt.Sprintf("Invalid audio data: %v", err)}
		}
		return ClientAudio{Audio: raw}, nil
	case "ping":
		return ClientPing{}, nil
	case "clear_history":
		return ClientClearHistory{}, nil
	default:
		return nil, &DecodeError{
			Code:    "unknown_type",
			Message: fmt.Sprintf("Unknown message type: %s", envelope.Type),
		}
	}
}

// ServerMessage is the outbound envelope. Data holds one of the typed
// payloads below.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type StatusData struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type TranscriptionData struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type Suggestion struct {
	Bullets  []string `json:"bullets"`
	FollowUp string   `json:"follow_up"`
}

type AIResponseData struct {
	Suggestion   Suggestion `json:"suggestion"`
	OriginalText string     `json:"original_text"`
	Timestamp    string     `json:"timestamp"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type PongData struct {
	Timestamp string `json:"timestamp"`
}

func Status(status, message string) ServerMessage {
	return ServerMessage{Type: "status", Data: StatusData{Status: status, Message: message}}
}

func Connected(sessionID string) ServerMessage {
	return ServerMessage{Type: "status", Data: StatusData{
		Status:    StatusConnected,
		Message:   "Connected to AI Interview Buddy",
		SessionID: sessionID,
	}}
}

func Transcription(text string, at time.Time) ServerMessage {
	return ServerMessage{Type: "transcription", Data: TranscriptionData{
		Text:      text,
		Timestamp: at.Format(time.RFC3339),
	}}
}

func AIResponse(suggestion Suggestion, originalText string, at time.Time) ServerMessage {
	return ServerMessage{Type: "ai_response", Data: AIResponseData{
		Suggestion:   suggestion,
		OriginalText: originalText,
		Timestamp:    at.Format(time.RFC3339),
	}}
}

func Error(message string) ServerMessage {
	return ServerMessage{Type: "error", Data: ErrorData{Message: message}}
}

func Pong(at time.Time) ServerMessage {
	return ServerMessage{Type: "pong", Data: PongData{Timestamp: at.Format(time.RFC3339)}}
}

// Encode renders a ServerMessage as one websocket text frame.
func Encode(msg ServerMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	return data, nil
}
