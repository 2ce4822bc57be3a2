// Package notify queues user-visible notices (toasts) until the UI drains
// them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is one toast.
type Notice struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// MaxQueued bounds the queue; the oldest notices are dropped first.
const MaxQueued = 50

// Queue is a bounded FIFO of notices. The zero value is ready to use.
type Queue struct {
	mu      sync.Mutex
	notices []Notice
}

func (q *Queue) push(level Level, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notices = append(q.notices, Notice{ID: uuid.NewString(), Level: level, Message: msg, At: time.Now()})
	if over := len(q.notices) - MaxQueued; over > 0 {
		q.notices = append([]Notice(nil), q.notices[over:]...)
	}
}

// Info queues an informational notice.
func (q *Queue) Info(msg string) { q.push(LevelInfo, msg) }

// Error queues a failure notice.
func (q *Queue) Error(msg string) { q.push(LevelError, msg) }

// Drain returns and removes every queued notice, oldest first.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.notices
	q.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
