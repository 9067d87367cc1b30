// internal/state/message_tracker.go
package state

import "sync"

// DefaultTrackerSize bounds how many prefix-command replies are remembered.
const DefaultTrackerSize = 1000

// MessageTracker maps a user's command message to the bot's reply so that
// when the user deletes their message the bot can delete its own reply.
// Entries are keyed by channel and message id; the oldest entry is
// evicted once the tracker holds max entries.
type MessageTracker struct {
	mu    sync.Mutex
	max   int
	data  map[string]string // channel+":"+originID → replyID
	order []string
}

// NewMessageTracker constructs an empty MessageTracker holding at most max
// entries (DefaultTrackerSize when max <= 0).
func NewMessageTracker(max int) *MessageTracker {
	if max <= 0 {
		max = DefaultTrackerSize
	}
	return &MessageTracker{max: max, data: make(map[string]string)}
}

func key(channelID, originID string) string { return channelID + ":" + originID }

// Track records that replyID answers originID in channelID.
func (t *MessageTracker) Track(channelID, originID, replyID string) {
	k := key(channelID, originID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.data[k]; !ok {
		t.order = append(t.order, k)
	}
	t.data[k] = replyID
	for len(t.order) > t.max {
		delete(t.data, t.order[0])
		t.order = t.order[1:]
	}
}

// Take returns and forgets the reply recorded for originID.
func (t *MessageTracker) Take(channelID, originID string) (string, bool) {
	k := key(channelID, originID)
	t.mu.Lock()
	defer t.mu.Unlock()
	replyID, ok := t.data[k]
	if ok {
		delete(t.data, k)
		for i, o := range t.order {
			if o == k {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	return replyID, ok
}

// Len reports the number of tracked replies.
func (t *MessageTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.data)
}
