package session

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultRoomCap is the maximum number of participants per room unless
// configured otherwise.
const DefaultRoomCap = 15

var (
	ErrRoomFull  = errors.New("room is at capacity")
	ErrNameTaken = errors.New("name already in use")
)

// Registry owns the mapping from connection ID to participant record and
// performs admission checks against it.
type Registry struct {
	participants map[string]*Participant
	roomCap      int
	mu           sync.RWMutex
}

func NewRegistry(roomCap int) *Registry {
	if roomCap <= 0 {
		roomCap = DefaultRoomCap
	}
	return &Registry{
		participants: make(map[string]*Participant),
		roomCap:      roomCap,
	}
}

// Validates a join request against capacity and name uniqueness, in that
// order. Mutates nothing on rejection.
func (r *Registry) Admit(roomID, name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*Participant
	for _, p := range r.participants {
		if p.RoomID == roomID {
			members = append(members, p)
		}
	}

	// Capacity first, then name collision
	if len(members) >= r.roomCap {
		return ErrRoomFull
	}
	for _, p := range members {
		if strings.EqualFold(p.Name, name) {
			return ErrNameTaken
		}
	}
	return nil
}

// Registers a participant with an empty redo stack. The caller is expected
// to have run Admit first.
func (r *Registry) Register(connID, name, color, roomID string) *Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &Participant{
		ConnID:   connID,
		Name:     name,
		Color:    color,
		RoomID:   roomID,
		joinedAt: time.Now(),
	}
	r.participants[connID] = p
	return p
}

// Removes and returns the participant record, or false if the connection
// never completed a join
func (r *Registry) Remove(connID string) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connID]
	if !ok {
		return nil, false
	}
	delete(r.participants, connID)
	return p, true
}

func (r *Registry) Get(connID string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[connID]
	return p, ok
}

func (r *Registry) CountInRoom(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.participants {
		if p.RoomID == roomID {
			count++
		}
	}
	return count
}

// Returns the room's participants in join order
func (r *Registry) InRoom(roomID string) []*Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*Participant
	for _, p := range r.participants {
		if p.RoomID == roomID {
			members = append(members, p)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].joinedAt.Before(members[j].joinedAt)
	})
	return members
}

// Returns the connection IDs of the room's participants, for broadcast
// recipient resolution
func (r *Registry) ConnIDsInRoom(roomID string) []string {
	members := r.InRoom(roomID)
	ids := make([]string, len(members))
	for i, p := range members {
		ids[i] = p.ConnID
	}
	return ids
}

// Returns participant counts per live room, for stats
func (r *Registry) RoomCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range r.participants {
		counts[p.RoomID]++
	}
	return counts
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
