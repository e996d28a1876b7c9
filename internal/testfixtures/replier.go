package testfixtures

import (
	"context"
	"strings"
	"sync"
)

// RecordingReplier stores every reply it is asked to send.
type RecordingReplier struct {
	mu      sync.Mutex
	replies []string
	err     error
}

// FailWith makes subsequent replies return err after being recorded.
func (r *RecordingReplier) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Reply records text.
func (r *RecordingReplier) Reply(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, text)
	return r.err
}

// Replies returns a copy of the recorded replies.
func (r *RecordingReplier) Replies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.replies...)
}

// Last returns the most recent reply or an empty string.
func (r *RecordingReplier) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replies) == 0 {
		return ""
	}
	return r.replies[len(r.replies)-1]
}

// Joined returns every reply joined by newlines.
func (r *RecordingReplier) Joined() string {
	return strings.Join(r.Replies(), "\n")
}

// Reset drops recorded replies.
func (r *RecordingReplier) Reset() {
	r.mu.Lock()
	r.replies = nil
	r.mu.Unlock()
}
