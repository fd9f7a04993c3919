package storage

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed mutation.
type Change struct {
	Op       Op
	Entities []string // entity kinds touched, e.g. "tracker" and "record" for a cascading delete
	ID       uuid.UUID
}

// Touches reports whether the change affected the given entity kind.
func (c Change) Touches(entity string) bool {
	return slices.Contains(c.Entities, entity)
}

type subscription struct {
	id int
	fn func(Change)
}

// Hub is a registry of change callbacks shared by every store of one DB.
type Hub struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Change)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	id := h.next
	h.subs = append(h.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.subs = slices.DeleteFunc(h.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

// Notify calls every subscriber in registration order on the caller's
// goroutine. Callbacks may subscribe or unsubscribe without deadlocking.
func (h *Hub) Notify(c Change) {
	h.mu.Lock()
	subs := slices.Clone(h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(c)
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
