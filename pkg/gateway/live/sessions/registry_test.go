package sessions

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/protocol"
)

func TestRegistry_ConnectSendsConnectedStatus(t *testing.T) {
	r := NewRegistry(nil)

	var got []protocol.ServerMessage
	id := r.Connect(Handle{Send: func(msg protocol.ServerMessage) error {
		got = append(got, msg)
		return nil
	}})

	if id == "" {
		t.Fatalf("empty session id")
	}
	if len(got) != 1 || got[0].Type != "status" {
		t.Fatalf("messages=%v, want connected status", got)
	}
	data := got[0].Data.(protocol.StatusData)
	if data.Status != protocol.StatusConnected || data.SessionID != id {
		t.Fatalf("data=%+v", data)
	}
	if r.Count() != 1 {
		t.Fatalf("count=%d, want 1", r.Count())
	}
}

func TestRegistry_DisconnectIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	id := r.Connect(Handle{Send: func(protocol.ServerMessage) error { return nil }})

	r.Disconnect(id)
	r.Disconnect(id)

	if r.Count() != 0 {
		t.Fatalf("count=%d, want 0", r.Count())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if !r.Wait(ctx) {
		t.Fatalf("registry did not drain")
	}
}

func TestRegistry_SendToUnknownSessionIsNoOp(t *testing.T) {
	r := NewRegistry(nil)
	r.Send("no-such-session", protocol.Error("ignored"))
}

func TestRegistry_SendFailureDisconnects(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	id := r.Connect(Handle{Send: func(msg protocol.ServerMessage) error {
		calls++
		if calls == 1 {
			return nil
		}
		return errors.New("broken pipe")
	}})

	r.Send(id, protocol.Pong(time.Now()))
	if r.Count() != 0 {
		t.Fatalf("count=%d after failed send, want 0", r.Count())
	}

	// Further sends to the removed session must not reach the handle.
	r.Send(id, protocol.Pong(time.Now()))
	if calls != 2 {
		t.Fatalf("send calls=%d, want 2", calls)
	}
}

func TestRegistry_DispatchRoutesToOwner(t *testing.T) {
	r := NewRegistry(nil)
	var received []byte
	id := r.Connect(Handle{
		Send:    func(protocol.ServerMessage) error { return nil },
		Receive: func(_ context.Context, frame []byte) { received = frame },
	})

	r.Dispatch(context.Background(), id, []byte(`{"type":"ping","data":{}}`))
	if received == nil {
		t.Fatalf("frame not dispatched")
	}

	r.Disconnect(id)
	received = nil
	r.Dispatch(context.Background(), id, []byte(`{"type":"ping","data":{}}`))
	if received != nil {
		t.Fatalf("frame dispatched to disconnected session")
	}
}

func TestRegistry_WarnAllAndCancelAll(t *testing.T) {
	r := NewRegistry(nil)
	var warned, canceled atomic.Int64
	for i := 0; i < 3; i++ {
		r.Connect(Handle{
			Send: func(msg protocol.ServerMessage) error {
				if msg.Type == "error" {
					warned.Add(1)
				}
				return nil
			},
			Cancel: func() { canceled.Add(1) },
		})
	}

	if n := r.WarnAll("Server is shutting down"); n != 3 {
		t.Fatalf("warned=%d, want 3", n)
	}
	if warned.Load() != 3 {
		t.Fatalf("warn sends=%d, want 3", warned.Load())
	}
	if n := r.CancelAll(); n != 3 {
		t.Fatalf("canceled=%d, want 3", n)
	}
	if canceled.Load() != 3 {
		t.Fatalf("cancel calls=%d, want 3", canceled.Load())
	}
}

func TestRegistry_WaitTimesOutWhileSessionsLive(t *testing.T) {
	r := NewRegistry(nil)
	r.Connect(Handle{Send: func(protocol.ServerMessage) error { return nil }})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if r.Wait(ctx) {
		t.Fatalf("Wait reported drained with a live session")
	}
}
