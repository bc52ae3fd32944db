package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/store"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/suggest"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/transcribe"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/lifecycle"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/sessions"
)

type wsFixture struct {
	server    *httptest.Server
	lifecycle *lifecycle.Lifecycle
	registry  *sessions.Registry
}

func newWSFixture(t *testing.T, cfg config.Config) *wsFixture {
	t.Helper()
	lc := &lifecycle.Lifecycle{}
	registry := sessions.NewRegistry(nil)
	h := WSHandler{
		Config:      cfg,
		Transcriber: transcribe.Mock{},
		Retriever:   retrieve.New(store.NewMemory(), nil),
		Engine:      suggest.NewEngine(nil, nil),
		Lifecycle:   lc,
		Sessions:    registry,
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &wsFixture{server: srv, lifecycle: lc, registry: registry}
}

func (f *wsFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env wsEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("unmarshal %q: %v", frame, err)
	}
	return env
}

func sendText(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWSHandler_ConnectedStatusFirst(t *testing.T) {
	f := newWSFixture(t, testConfig())
	conn := f.dial(t)

	env := readEnvelope(t, conn)
	if env.Type != "status" {
		t.Fatalf("type=%q", env.Type)
	}
	var data struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.Status != "connected" {
		t.Fatalf("status=%q", data.Status)
	}
	if data.Message != "Connected to AI Interview Buddy" {
		t.Fatalf("message=%q", data.Message)
	}
	if data.SessionID == "" {
		t.Fatal("expected session_id")
	}
}

func TestWSHandler_PingPong(t *testing.T) {
	f := newWSFixture(t, testConfig())
	conn := f.dial(t)
	readEnvelope(t, conn) // connected

	sendText(t, conn, `{"type":"ping"}`)
	env := readEnvelope(t, conn)
	if env.Type != "pong" {
		t.Fatalf("type=%q", env.Type)
	}
}

func TestWSHandler_AudioMessageRunsFullCycle(t *testing.T) {
	f := newWSFixture(t, testConfig())
	conn := f.dial(t)
	readEnvelope(t, conn) // connected

	audio := base64.StdEncoding.EncodeToString(make([]byte, 1000))
	sendText(t, conn, fmt.Sprintf(`{"type":"audio","data":{"audio":%q}}`, audio))

	var types []string
	for i := 0; i < 4; i++ {
		types = append(types, readEnvelope(t, conn).Type)
	}
	want := []string{"status", "transcription", "status", "ai_response"}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("message %d: got %q, want %q (all: %v)", i, types[i], want[i], types)
		}
	}
}

func TestWSHandler_BinaryFramesAccumulateToSegment(t *testing.T) {
	cfg := testConfig()
	cfg.AudioSegmentBytes = 10
	f := newWSFixture(t, cfg)
	conn := f.dial(t)
	readEnvelope(t, conn) // connected

	if err := conn.WriteMessage(websocket.BinaryMessage, make([]byte, 4)); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Below threshold: a ping round-trip proves no pipeline output came first.
	sendText(t, conn, `{"type":"ping"}`)
	if env := readEnvelope(t, conn); env.Type != "pong" {
		t.Fatalf("expected pong before segment completes, got %q", env.Type)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, make([]byte, 8)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if env := readEnvelope(t, conn); env.Type != "status" {
		t.Fatalf("expected transcribing status, got %q", env.Type)
	}
}

func TestWSHandler_InvalidJSONKeepsConnectionUsable(t *testing.T) {
	f := newWSFixture(t, testConfig())
	conn := f.dial(t)
	readEnvelope(t, conn) // connected

	sendText(t, conn, `{not json`)
	env := readEnvelope(t, conn)
	if env.Type != "error" {
		t.Fatalf("type=%q", env.Type)
	}
	var data struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.Message != "Invalid JSON format" {
		t.Fatalf("message=%q", data.Message)
	}

	sendText(t, conn, `{"type":"ping"}`)
	if env := readEnvelope(t, conn); env.Type != "pong" {
		t.Fatalf("connection unusable after bad frame: %q", env.Type)
	}
}

func TestWSHandler_UnknownTypeNamesIt(t *testing.T) {
	f := newWSFixture(t, testConfig())
	conn := f.dial(t)
	readEnvelope(t, conn) // connected

	sendText(t, conn, `{"type":"bogus"}`)
	env := readEnvelope(t, conn)
	var data struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if data.Message != "Unknown message type: bogus" {
		t.Fatalf("message=%q", data.Message)
	}
}

func TestWSHandler_RejectsWhenDraining(t *testing.T) {
	f := newWSFixture(t, testConfig())
	f.lifecycle.SetDraining(true)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail while draining")
	}
	if resp == nil || resp.StatusCode != 503 {
		t.Fatalf("resp=%v", resp)
	}
}

func TestWSHandler_DisconnectDrainsRegistry(t *testing.T) {
	f := newWSFixture(t, testConfig())
	conn := f.dial(t)
	readEnvelope(t, conn) // connected

	if got := f.registry.Count(); got != 1 {
		t.Fatalf("count=%d", got)
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for f.registry.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("registry never drained, count=%d", f.registry.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
