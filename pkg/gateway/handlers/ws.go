package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/transcribe"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/lifecycle"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/protocol"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/session"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/sessions"
)

// WSHandler handles /ws/audio websocket sessions. Each connection gets
// its own coaching pipeline, an outbound writer goroutine, and an entry
// in the session registry for drain coordination.
type WSHandler struct {
	Config      config.Config
	Transcriber transcribe.Transcriber
	Retriever   session.ContextSource
	Engine      session.Suggester
	Logger      *slog.Logger
	Lifecycle   *lifecycle.Lifecycle
	Sessions    *sessions.Registry
}

func (h WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Lifecycle.IsDraining() {
		writeMessage(w, http.StatusServiceUnavailable, "server is draining")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return h.originAllowed(r) },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		return
	}
	defer conn.Close()

	if h.Config.WSMaxMessageBytes > 0 {
		conn.SetReadLimit(h.Config.WSMaxMessageBytes)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sessionCfg := session.Config{
		SegmentBytes:      h.Config.AudioSegmentBytes,
		HistoryCap:        h.Config.HistoryCap,
		TranscribeTimeout: h.Config.TranscribeTimeout,
		GenerateTimeout:   h.Config.GenerateTimeout,
		PingInterval:      h.Config.WSPingInterval,
		WriteTimeout:      h.Config.WSWriteTimeout,
		ReadTimeout:       h.Config.WSReadTimeout,
		OutboundQueueSize: h.Config.WSOutboundQueueSize,
	}

	queueSize := sessionCfg.OutboundQueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	outbound := make(chan []byte, queueSize)

	send := func(msg protocol.ServerMessage) error {
		frame, err := protocol.Encode(msg)
		if err != nil {
			return err
		}
		select {
		case outbound <- frame:
			return nil
		default:
			return fmt.Errorf("outbound queue full")
		}
	}

	// The registry assigns the session id, so the pipeline is built right
	// after registration; the read loop has not started yet, so the
	// receive closure cannot fire before pipe is set.
	var pipe *session.Pipeline
	sessionID := h.Sessions.Connect(sessions.Handle{
		Send: send,
		Receive: func(ctx context.Context, frame []byte) {
			pipe.HandleFrame(ctx, frame)
		},
		Cancel: cancel,
	})
	defer h.Sessions.Disconnect(sessionID)

	pipe, err = session.New(session.Dependencies{
		Transcriber: h.Transcriber,
		Retriever:   h.Retriever,
		Engine:      h.Engine,
		Logger:      h.logger(),
		SessionID:   sessionID,
		Config:      sessionCfg,
		Send:        send,
	})
	if err != nil {
		h.logger().Error("build session pipeline", "session_id", sessionID, "error", err)
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := session.RunWriter(ctx, conn, sessionCfg, outbound); err != nil {
			h.logger().Debug("outbound writer stopped", "session_id", sessionID, "error", err)
		}
	}()

	if sessionCfg.ReadTimeout > 0 {
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(sessionCfg.ReadTimeout))
		})
	}

	for {
		if sessionCfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(sessionCfg.ReadTimeout))
		}
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger().Debug("websocket read ended", "session_id", sessionID, "error", err)
			}
			break
		}
		switch messageType {
		case websocket.TextMessage:
			h.Sessions.Dispatch(ctx, sessionID, frame)
		case websocket.BinaryMessage:
			pipe.HandleBinary(ctx, frame)
		}
	}

	h.Sessions.Disconnect(sessionID)
	cancel()
	<-writerDone
}

// originAllowed mirrors the CORS allowlist: an empty allowlist accepts
// every origin, which suits local development.
func (h WSHandler) originAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" || len(h.Config.CORSAllowedOrigins) == 0 {
		return true
	}
	_, ok := h.Config.CORSAllowedOrigins[origin]
	return ok
}

func (h WSHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
