// Package event defines the coarse-grained update notices published after a
// successful save, and a small in-memory bus for fanning them out to
// subscribers. Notices carry exactly what the editor's diff output yields:
// entity kind, id and the newly persisted version.
package event

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Type identifies the kind of entity an update notice refers to.
type Type string

const (
	// TypeBaseUpdated records a persisted change to a tournament base.
	TypeBaseUpdated Type = "tournament.base_updated"
	// TypeStageUpdated records a persisted change to a stage.
	TypeStageUpdated Type = "tournament.stage_updated"
	// TypeGroupUpdated records a persisted change to a group.
	TypeGroupUpdated Type = "tournament.group_updated"
)

// Notice is the payload published after an entity is saved.
type Notice struct {
	Type Type `json:"type"`
	// ID is the persisted entity id.
	ID uuid.UUID `json:"id"`
	// Version is the version counter after the save.
	Version int64 `json:"version"`
	// TournamentID scopes the notice to one tournament for subscribers
	// filtering by topic.
	TournamentID uuid.UUID `json:"tournament_id"`
}

// Publisher publishes update notices. Implementations must be safe for use
// after a save completes; publishing failures do not roll back saves.
type Publisher interface {
	Publish(ctx context.Context, notice Notice) error
}

// Bus is an in-memory publisher fanning notices out to subscribers.
// Delivery is best-effort: a subscriber with a full buffer misses the
// notice rather than blocking the save path.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Notice
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Notice)}
}

// Subscribe registers a subscriber with the given channel buffer size. The
// returned cancel function removes the subscription and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Notice, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Notice, buffer)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the notice to every subscriber that has buffer space.
func (b *Bus) Publish(ctx context.Context, notice Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- notice:
		default:
		}
	}
	return nil
}
