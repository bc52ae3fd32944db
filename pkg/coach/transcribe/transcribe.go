// Package transcribe defines the speech-to-text port used by the live
// pipeline and its concrete backends.
package transcribe

import "context"

// Transcriber converts one audio segment into text. An empty string with
// a nil error means the segment contained no detectable speech; callers
// must treat that as a normal outcome, not a failure.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
