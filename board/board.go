// server/board/board.go
package board

import (
	"encoding/json"
	"sync"

	"github.com/vinizap/shelf/server/domain"
)

// Board holds the current mirror for concurrent readers and a single
// stream of events.
type Board struct {
	mu    sync.RWMutex
	state State
}

func New() *Board {
	return &Board{}
}

func (b *Board) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Board) Load(items []domain.Item, folders []domain.Folder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Load(items, folders)
}

func (b *Board) Apply(eventType domain.EventType, payload json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := Apply(b.state, eventType, payload)
	if err != nil {
		return err
	}
	b.state = next
	return nil
}

// DragEnd commits the optimistic state at once and returns the request the
// caller must send.
func (b *Board) DragEnd(ev DragEvent) (Sync, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, plan, err := DragEnd(b.state, ev)
	if err != nil {
		return Sync{}, err
	}
	b.state = next
	return plan, nil
}
