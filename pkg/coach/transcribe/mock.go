package transcribe

import "context"

// Mock is a deterministic transcriber used when no whisper server is
// configured. It keys a canned interview question off the segment size so
// repeated runs are reproducible.
type Mock struct{}

var mockTranscripts = []string{
	"Tell me about yourself.",
	"What are your greatest strengths?",
	"Why do you want to work here?",
	"Describe a challenging project you worked on.",
	"Where do you see yourself in five years?",
	"What is your biggest weakness?",
	"Why should we hire you?",
	"Tell me about a time you failed.",
	"How do you handle stress and pressure?",
	"Do you have any questions for us?",
}

func (Mock) Transcribe(_ context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	idx := (len(audio) / 1000) % len(mockTranscripts)
	return mockTranscripts[idx], nil
}
