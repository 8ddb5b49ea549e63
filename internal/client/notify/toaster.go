// Package notify shows transient toast notifications. Each toast is
// appended to a Container and removes itself after a fixed delay.
package notify

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/google/uuid"
)

// DefaultDelay is how long a toast stays visible.
const DefaultDelay = 5 * time.Second

// Container displays toasts.
type Container interface {
	Add(t models.Toast)
	Remove(id string)
}

type timer interface {
	Stop() bool
}

type Toaster struct {
	container Container
	delay     time.Duration

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) timer

	mu      sync.Mutex
	pending map[string]timer
	closed  bool
}

func NewToaster(container Container, delay time.Duration) *Toaster {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Toaster{
		container: container,
		delay:     delay,
		now:       time.Now,
		afterFunc: func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) },
		pending:   make(map[string]timer),
	}
}

// Show displays msg and schedules its removal. Calls after Close are dropped.
func (t *Toaster) Show(msg string, level models.Level) models.Toast {
	if level == "" {
		level = models.LevelInfo
	}
	toast := models.Toast{
		ID:        uuid.NewString(),
		Message:   msg,
		Level:     level,
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return toast
	}

	t.container.Add(toast)
	t.pending[toast.ID] = t.afterFunc(t.delay, func() { t.expire(toast.ID) })
	return toast
}

// Dismiss removes a toast before its delay runs out.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tm, ok := t.pending[id]
	if !ok {
		return
	}
	tm.Stop()
	delete(t.pending, id)
	t.container.Remove(id)
}

// Pending returns the number of toasts still on screen.
func (t *Toaster) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Close stops all timers and removes every visible toast.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	for id, tm := range t.pending {
		tm.Stop()
		t.container.Remove(id)
	}
	clear(t.pending)
}

func (t *Toaster) expire(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pending[id]; !ok {
		return
	}
	delete(t.pending, id)
	t.container.Remove(id)
}
