package session

// historyCap bounds the per-session conversation history. The oldest
// utterance is evicted when a new one would exceed the cap.
const historyCap = 20

type conversationHistory struct {
	utterances []string
	cap        int
}

func newConversationHistory(cap int) *conversationHistory {
	if cap <= 0 {
		cap = historyCap
	}
	return &conversationHistory{
		utterances: make([]string, 0, cap),
		cap:        cap,
	}
}

func (h *conversationHistory) append(text string) {
	h.utterances = append(h.utterances, text)
	if len(h.utterances) > h.cap {
		h.utterances = h.utterances[len(h.utterances)-h.cap:]
	}
}

func (h *conversationHistory) clear() {
	h.utterances = h.utterances[:0]
}

func (h *conversationHistory) len() int {
	return len(h.utterances)
}

func (h *conversationHistory) snapshot() []string {
	out := make([]string, len(h.utterances))
	copy(out, h.utterances)
	return out
}
