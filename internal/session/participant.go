package session

import (
	"time"

	"github.com/sketchroom/backend/internal/board"
)

// A joined connection's metadata within exactly one room. The redo stack
// holds whole strokes in the order they were undone and is never shared
// across connections.
type Participant struct {
	ConnID   string
	Name     string
	Color    string
	RoomID   string
	joinedAt time.Time
	redo     []board.History
}

// Pushes the points of one undone stroke onto the redo stack
func (p *Participant) PushUndone(stroke board.History) {
	p.redo = append(p.redo, stroke)
}

// Pops the most recently undone stroke. Returns false if nothing was
// undone since the last draw.
func (p *Participant) PopUndone() (board.History, bool) {
	if len(p.redo) == 0 {
		return nil, false
	}
	stroke := p.redo[len(p.redo)-1]
	p.redo = p.redo[:len(p.redo)-1]
	return stroke, true
}

// New drawing invalidates previously undone strokes
func (p *Participant) ClearUndone() {
	p.redo = nil
}

func (p *Participant) CanRedo() bool {
	return len(p.redo) > 0
}
