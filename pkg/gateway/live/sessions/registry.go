// Package sessions tracks live websocket connections: registration,
// outbound routing, and drain on shutdown.
package sessions

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/protocol"
)

// Handle is how the registry talks back to one connection.
type Handle struct {
	// Send enqueues one outbound message for the connection's writer.
	Send func(protocol.ServerMessage) error
	// Receive routes one inbound text frame to the connection's pipeline.
	Receive func(ctx context.Context, frame []byte)
	// Cancel tears the connection down.
	Cancel func()
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
	wg       sync.WaitGroup
	logger   *slog.Logger
}

type liveSession struct {
	handle Handle
	once   sync.Once
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*liveSession),
		logger:   logger,
	}
}

// Connect registers a connection under a fresh session id and sends the
// connected status message. The id never collides with a live session.
func (r *Registry) Connect(h Handle) string {
	entry := &liveSession{handle: h}

	r.mu.Lock()
	var sessionID string
	for {
		sessionID = uuid.NewString()
		if _, taken := r.sessions[sessionID]; !taken {
			break
		}
	}
	r.sessions[sessionID] = entry
	r.wg.Add(1)
	r.mu.Unlock()

	r.logger.Info("websocket connected", "session_id", sessionID)
	r.Send(sessionID, protocol.Connected(sessionID))
	return sessionID
}

// Disconnect removes a session. Safe to call more than once; later calls
// are no-ops.
func (r *Registry) Disconnect(sessionID string) {
	r.mu.Lock()
	entry := r.sessions[sessionID]
	r.mu.Unlock()
	if entry == nil {
		return
	}
	entry.once.Do(func() {
		r.mu.Lock()
		if r.sessions[sessionID] == entry {
			delete(r.sessions, sessionID)
		}
		r.mu.Unlock()
		r.wg.Done()
		r.logger.Info("websocket disconnected", "session_id", sessionID)
	})
}

// Send delivers one message to a session. Sending to an unknown session
// is a no-op; a failed send disconnects the session.
func (r *Registry) Send(sessionID string, msg protocol.ServerMessage) {
	r.mu.Lock()
	entry := r.sessions[sessionID]
	r.mu.Unlock()
	if entry == nil || entry.handle.Send == nil {
		return
	}
	if err := entry.handle.Send(msg); err != nil {
		r.logger.Error("failed to send message", "session_id", sessionID, "type", msg.Type, "error", err)
		r.Disconnect(sessionID)
	}
}

// Dispatch routes one inbound frame to the owning session's pipeline.
func (r *Registry) Dispatch(ctx context.Context, sessionID string, frame []byte) {
	r.mu.Lock()
	entry := r.sessions[sessionID]
	r.mu.Unlock()
	if entry == nil || entry.handle.Receive == nil {
		return
	}
	entry.handle.Receive(ctx, frame)
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// WarnAll tells every live session the server is going away.
func (r *Registry) WarnAll(message string) (sent int) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Send(id, protocol.Error(message))
		sent++
	}
	return sent
}

// CancelAll tears down every live session.
func (r *Registry) CancelAll() (canceled int) {
	var cancels []func()
	r.mu.Lock()
	for _, entry := range r.sessions {
		if entry.handle.Cancel != nil {
			cancels = append(cancels, entry.handle.Cancel)
		}
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
		canceled++
	}
	return canceled
}

// Wait blocks until every session has disconnected or the context ends.
// It reports whether the registry fully drained.
func (r *Registry) Wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	if ctx == nil {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
