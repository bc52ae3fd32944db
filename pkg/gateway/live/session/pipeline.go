// Package session runs the per-connection coaching pipeline: audio in,
// transcription, intent classification, context retrieval, suggestion out.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/suggest"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/transcribe"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/protocol"
)

type Config struct {
	SegmentBytes      int
	HistoryCap        int
	TranscribeTimeout time.Duration
	GenerateTimeout   time.Duration
	PingInterval      time.Duration
	WriteTimeout      time.Duration
	ReadTimeout       time.Duration
	OutboundQueueSize int
}

// ContextSource yields retrieval context for a question. Satisfied by
// *retrieve.Retriever.
type ContextSource interface {
	Retrieve(ctx context.Context, question string, label intent.Label) retrieve.ContextBundle
}

// Suggester yields coaching advice. Satisfied by *suggest.Engine.
type Suggester interface {
	Suggest(ctx context.Context, question string, label intent.Label, bundle retrieve.ContextBundle) suggest.CoachingResult
}

type Dependencies struct {
	Transcriber transcribe.Transcriber
	Retriever   ContextSource
	Engine      Suggester
	Logger      *slog.Logger
	SessionID   string
	Config      Config
	Send        func(protocol.ServerMessage) error
	Now         func() time.Time
}

// Pipeline handles one connection's inbound messages sequentially. It is
// not safe for concurrent use; the owning read loop is its only caller.
type Pipeline struct {
	transcriber transcribe.Transcriber
	retriever   ContextSource
	engine      Suggester
	logger      *slog.Logger
	sessionID   string
	cfg         Config
	send        func(protocol.ServerMessage) error
	now         func() time.Time

	history *conversationHistory
	buffer  *audioBuffer
}

func New(deps Dependencies) (*Pipeline, error) {
	if deps.Transcriber == nil {
		return nil, fmt.Errorf("transcriber is required")
	}
	if deps.Retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("suggestion engine is required")
	}
	if deps.Send == nil {
		return nil, fmt.Errorf("send function is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Config.TranscribeTimeout <= 0 {
		deps.Config.TranscribeTimeout = 30 * time.Second
	}
	if deps.Config.GenerateTimeout <= 0 {
		deps.Config.GenerateTimeout = 20 * time.Second
	}

	return &Pipeline{
		transcriber: deps.Transcriber,
		retriever:   deps.Retriever,
		engine:      deps.Engine,
		logger:      deps.Logger.With("session_id", deps.SessionID),
		sessionID:   deps.SessionID,
		cfg:         deps.Config,
		send:        deps.Send,
		now:         deps.Now,
		history:     newConversationHistory(deps.Config.HistoryCap),
		buffer:      newAudioBuffer(deps.Config.SegmentBytes),
	}, nil
}

// HandleFrame processes one inbound text frame. Decode failures are
// reported to the client; the connection stays open.
func (p *Pipeline) HandleFrame(ctx context.Context, raw []byte) {
	msg, err := protocol.DecodeClientMessage(raw)
	if err != nil {
		p.sendMessage(protocol.Error(err.Error()))
		return
	}

	switch m := msg.(type) {
	case protocol.ClientAudio:
		p.processSegment(ctx, m.Audio)
	case protocol.ClientPing:
		p.sendMessage(protocol.Pong(p.now()))
	case protocol.ClientClearHistory:
		p.history.clear()
		p.sendMessage(protocol.Status(protocol.StatusHistoryCleared, "Conversation history cleared"))
	}
}

// HandleBinary accumulates a raw binary audio frame, running the pipeline
// when the segment threshold is crossed.
func (p *Pipeline) HandleBinary(ctx context.Context, frame []byte) {
	if segment := p.buffer.append(frame); segment != nil {
		p.processSegment(ctx, segment)
	}
}

// HistoryLen reports the current conversation history length.
func (p *Pipeline) HistoryLen() int {
	return p.history.len()
}

// processSegment runs one full coaching cycle over an audio segment. It
// emits exactly one terminal message (no_speech status, ai_response, or
// error) and never lets a processing failure escape to the caller.
func (p *Pipeline) processSegment(ctx context.Context, audio []byte) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("audio processing panic", "panic", r)
			p.sendMessage(protocol.Error(fmt.Sprintf("Audio processing failed: %v", r)))
		}
	}()

	p.sendMessage(protocol.Status(protocol.StatusTranscribing, "Processing audio..."))

	text, err := p.transcribeSegment(ctx, audio)
	if err != nil {
		p.logger.Error("transcription failed", "error", err)
		p.sendMessage(protocol.Error(fmt.Sprintf("Audio processing failed: %v", err)))
		return
	}
	if text == "" {
		p.sendMessage(protocol.Status(protocol.StatusNoSpeech, "No speech detected in audio"))
		return
	}

	p.sendMessage(protocol.Transcription(text, p.now()))
	p.history.append(text)

	p.sendMessage(protocol.Status(protocol.StatusGenerating, "Generating response suggestion..."))

	label := intent.Detect(text)
	genCtx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	defer cancel()

	bundle := p.retriever.Retrieve(genCtx, text, label)
	result := p.engine.Suggest(genCtx, text, label, bundle)
	if len(result.Bullets) == 0 {
		p.sendMessage(protocol.Error("Failed to generate AI response"))
		return
	}

	p.sendMessage(protocol.AIResponse(protocol.Suggestion{
		Bullets:  result.Bullets,
		FollowUp: result.FollowUp,
	}, text, p.now()))
}

func (p *Pipeline) transcribeSegment(ctx context.Context, audio []byte) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, p.cfg.TranscribeTimeout)
	defer cancel()
	return p.transcriber.Transcribe(tctx, audio)
}

// sendMessage delivers one outbound message. A failed send means the
// connection is gone; the pipeline keeps going and subsequent sends are
// equally harmless.
func (p *Pipeline) sendMessage(msg protocol.ServerMessage) {
	if err := p.send(msg); err != nil {
		p.logger.Debug("outbound send failed", "type", msg.Type, "error", err)
	}
}
