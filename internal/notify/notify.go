// Package notify carries user-facing, non-fatal signals (fallbacks, sync
// results) from the core to whatever surface shows them.
package notify

import (
	"context"
	"sync"
	"time"
)

// Level classifies a notice for display.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is one user-visible message.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// Nop discards every notice.
type Nop struct{}

func (Nop) Notify(context.Context, Level, string) {}

// Inbox buffers notices until a surface drains them.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
	now     func() time.Time
}

// NewInbox creates an inbox keeping at most limit pending notices; older ones
// are dropped first. A non-positive limit keeps 50.
func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 50
	}
	return &Inbox{limit: limit, now: time.Now}
}

// Notify appends a notice.
func (i *Inbox) Notify(_ context.Context, level Level, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.notices = append(i.notices, Notice{Level: level, Message: message, At: i.now()})
	if over := len(i.notices) - i.limit; over > 0 {
		i.notices = append([]Notice(nil), i.notices[over:]...)
	}
}

// Drain returns pending notices and empties the inbox.
func (i *Inbox) Drain() []Notice {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notices
	i.notices = nil
	if out == nil {
		return []Notice{}
	}
	return out
}
