package room

import (
	"sync"

	"github.com/sketchroom/backend/internal/board"
)

// Registry owns the mapping from room ID to drawing history. Rooms are
// created lazily on first join and deleted once their last participant
// disconnects.
type Registry struct {
	histories map[string]board.History
	mu        sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		histories: make(map[string]board.History),
	}
}

// Creates an empty history for the room if absent
func (r *Registry) GetOrCreate(roomID string) board.History {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histories[roomID]
	if !ok {
		h = make(board.History, 0)
		r.histories[roomID] = h
	}
	return h.Clone()
}

// Appends all points in order to the room's history. Returns false and
// leaves the registry untouched if the room does not exist.
func (r *Registry) Append(roomID string, points board.History) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histories[roomID]
	if !ok {
		return false
	}
	r.histories[roomID] = append(h, points...)
	return true
}

// Installs a filtered history, used by undo/redo/clear. Returns false if
// the room does not exist.
func (r *Registry) Replace(roomID string, history board.History) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.histories[roomID]; !ok {
		return false
	}
	r.histories[roomID] = history
	return true
}

func (r *Registry) Delete(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.histories, roomID)
}

func (r *Registry) Exists(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.histories[roomID]
	return ok
}

// Returns a copy of the room's history for snapshot sends
func (r *Registry) Snapshot(roomID string) (board.History, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.histories[roomID]
	if !ok {
		return nil, false
	}
	return h.Clone(), true
}

// Reports whether the room's history contains any point by the author
func (r *Registry) HasAuthor(roomID, authorID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histories[roomID].HasAuthor(authorID)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.histories)
}
