package session

// defaultSegmentBytes is how much raw audio accumulates before a segment
// is cut and sent through the pipeline.
const defaultSegmentBytes = 32000

// audioBuffer accumulates raw binary audio frames until the segment
// threshold is crossed.
type audioBuffer struct {
	data      []byte
	threshold int
}

func newAudioBuffer(threshold int) *audioBuffer {
	if threshold <= 0 {
		threshold = defaultSegmentBytes
	}
	return &audioBuffer{threshold: threshold}
}

// append adds a frame and returns a complete segment once the threshold
// is crossed, resetting the buffer. It returns nil while still filling.
func (b *audioBuffer) append(frame []byte) []byte {
	b.data = append(b.data, frame...)
	if len(b.data) < b.threshold {
		return nil
	}
	segment := b.data
	b.data = nil
	return segment
}

func (b *audioBuffer) size() int {
	return len(b.data)
}
