package chatbot

import "sync"

// HistoryRepo keeps per-session conversation history, capped at MaxHistory
// turns so the relay payload stays bounded.
type HistoryRepo struct {
	mu        sync.RWMutex
	histories map[string][]Turn
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{
		histories: make(map[string][]Turn),
	}
}

func (r *HistoryRepo) Get(token string) []Turn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.histories[token]
	out := make([]Turn, len(history))
	copy(out, history)
	return out
}

// Append records a user/assistant exchange, dropping the oldest turns once
// the cap is exceeded.
func (r *HistoryRepo) Append(token string, turns ...Turn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := append(r.histories[token], turns...)
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}
	r.histories[token] = history
}

// Reset drops the conversation for the token.
func (r *HistoryRepo) Reset(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.histories, token)
}
