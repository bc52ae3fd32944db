package protocol

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDecodeClientMessage_Audio(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("pcm bytes"))
	raw := []byte(`{"type":"audio","data":{"audio":"` + payload + `"}}`)

	msg, err := DecodeClientMessage(raw)
	if err != nil {
		t.Fatalf("DecodeClientMessage() error = %v", err)
	}
	audio, ok := msg.(ClientAudio)
	if !ok {
		t.Fatalf("decoded type = %T, want ClientAudio", msg)
	}
	if string(audio.Audio) != "pcm bytes" {
		t.Fatalf("audio=%q", audio.Audio)
	}
}

func TestDecodeClientMessage_AudioBadBase64(t *testing.T) {
	raw := []byte(`{"type":"audio","data":{"audio":"%%% not base64 %%%"}}`)

	_, err := DecodeClientMessage(raw)
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("err type = %T, want *DecodeError", err)
	}
	if !strings.HasPrefix(decErr.Message, "Invalid audio data") {
		t.Fatalf("message=%q", decErr.Message)
	}
}

func TestDecodeClientMessage_PingAndClearHistory(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"ping","data":{}}`))
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, ok := msg.(ClientPing); !ok {
		t.Fatalf("decoded type = %T, want ClientPing", msg)
	}

	msg, err = DecodeClientMessage([]byte(`{"type":"clear_history","data":{}}`))
	if err != nil {
		t.Fatalf("clear_history: %v", err)
	}
	if _, ok := msg.(ClientClearHistory); !ok {
		t.Fatalf("decoded type = %T, want ClientClearHistory", msg)
	}
}

func TestDecodeClientMessage_InvalidJSON(t *testing.T) {
	_, err := DecodeClientMessage([]byte(`this is not json`))
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("err type = %T, want *DecodeError", err)
	}
	if decErr.Message != "Invalid JSON format" {
		t.Fatalf("message=%q", decErr.Message)
	}
}

func TestDecodeClientMessage_UnknownTypeNamesIt(t *testing.T) {
	_, err := DecodeClientMessage([]byte(`{"type":"bogus","data":{}}`))
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("err type = %T, want *DecodeError", err)
	}
	if !strings.Contains(decErr.Message, "bogus") {
		t.Fatalf("message=%q, want the unknown type named", decErr.Message)
	}
}

func TestEncode_ConnectedStatusShape(t *testing.T) {
	data, err := Encode(Connected("session-1"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got struct {
		Type string `json:"type"`
		Data struct {
			Status    string `json:"status"`
			Message   string `json:"message"`
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "status" || got.Data.Status != StatusConnected || got.Data.SessionID != "session-1" {
		t.Fatalf("got %+v", got)
	}
	if got.Data.Message == "" {
		t.Fatalf("connected status must carry a message")
	}
}

func TestEncode_AIResponseShape(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := AIResponse(Suggestion{
		Bullets:  []string{"tip"},
		FollowUp: "ask?",
	}, "Tell me about yourself", at)

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got struct {
		Type string `json:"type"`
		Data struct {
			Suggestion struct {
				Bullets  []string `json:"bullets"`
				FollowUp string   `json:"follow_up"`
			} `json:"suggestion"`
			OriginalText string `json:"original_text"`
			Timestamp    string `json:"timestamp"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "ai_response" {
		t.Fatalf("type=%q", got.Type)
	}
	if got.Data.OriginalText != "Tell me about yourself" {
		t.Fatalf("original_text=%q", got.Data.OriginalText)
	}
	if got.Data.Suggestion.FollowUp != "ask?" || len(got.Data.Suggestion.Bullets) != 1 {
		t.Fatalf("suggestion=%+v", got.Data.Suggestion)
	}
	if got.Data.Timestamp != at.Format(time.RFC3339) {
		t.Fatalf("timestamp=%q", got.Data.Timestamp)
	}
}

func TestPong_CarriesTimestamp(t *testing.T) {
	data, err := Encode(Pong(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got struct {
		Type string   `json:"type"`
		Data PongData `json:"data"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "pong" || got.Data.Timestamp == "" {
		t.Fatalf("got %+v", got)
	}
}
