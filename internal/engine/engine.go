package engine

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/sketchroom/backend/internal/board"
	"github.com/sketchroom/backend/internal/protocol"
	"github.com/sketchroom/backend/internal/room"
	"github.com/sketchroom/backend/internal/session"
)

// Broadcaster is the engine's only view of the transport. Delivery is
// fire-and-forget; a dropped connection surfaces later as a disconnect.
type Broadcaster interface {
	ToRoom(roomID, event string, data any)
	ToRoomExceptSender(roomID, senderID, event string, data any)
	ToConnection(connID, event string, data any)
}

// Engine applies inbound events against the room and participant
// registries, one event to completion at a time. All mutations are
// all-or-nothing per event; operations referencing state that was already
// garbage-collected are silent no-ops.
type Engine struct {
	rooms    *room.Registry
	sessions *session.Registry
	out      Broadcaster
	log      zerolog.Logger
}

func New(rooms *room.Registry, sessions *session.Registry, out Broadcaster, log zerolog.Logger) *Engine {
	return &Engine{
		rooms:    rooms,
		sessions: sessions,
		out:      out,
		log:      log.With().Str("component", "engine").Logger(),
	}
}

// Join admits the connection into the room, sends it the full current
// history, and announces the updated roster. Rejections mutate nothing.
func (e *Engine) Join(connID string, req protocol.JoinRequest) {
	if req.RoomID == "" || req.Name == "" {
		e.log.Debug().Str("conn", connID).Msg("join with missing room or name ignored")
		return
	}
	if _, ok := e.sessions.Get(connID); ok {
		e.log.Debug().Str("conn", connID).Msg("duplicate join on live connection ignored")
		return
	}

	if err := e.sessions.Admit(req.RoomID, req.Name); err != nil {
		switch {
		case errors.Is(err, session.ErrRoomFull):
			e.out.ToConnection(connID, protocol.EventRoomFull, nil)
		case errors.Is(err, session.ErrNameTaken):
			e.out.ToConnection(connID, protocol.EventJoinError, protocol.JoinError{Reason: protocol.ReasonNameTaken})
		}
		e.log.Info().Str("conn", connID).Str("room", req.RoomID).Err(err).Msg("join rejected")
		return
	}

	e.sessions.Register(connID, req.Name, req.Color, req.RoomID)
	history := e.rooms.GetOrCreate(req.RoomID)

	// The joiner gets the snapshot before any later event is processed, so
	// it can never miss or duplicate a point.
	e.out.ToConnection(connID, protocol.EventLoadHistory, history)
	e.broadcastRoster(req.RoomID)
	e.pushInteractionState(connID, req.RoomID)

	e.log.Info().Str("conn", connID).Str("room", req.RoomID).Str("name", req.Name).Msg("participant joined")
}

// DrawBatch stamps authorship onto the incoming points and appends them
// atomically. Any new drawing invalidates the author's undone strokes.
func (e *Engine) DrawBatch(connID string, msg protocol.DrawBatch) {
	if len(msg.Batch) == 0 {
		return
	}
	p, ok := e.sessions.Get(connID)
	if !ok || p.RoomID != msg.RoomID {
		return
	}
	if !e.rooms.Exists(msg.RoomID) {
		return
	}

	tagged := make(board.History, len(msg.Batch))
	for i, in := range msg.Batch {
		tagged[i] = board.StrokePoint{
			PrevX:    in.PrevX,
			PrevY:    in.PrevY,
			CurrX:    in.CurrX,
			CurrY:    in.CurrY,
			Color:    in.Color,
			StrokeID: in.StrokeID,
			AuthorID: connID,
		}
	}

	e.rooms.Append(msg.RoomID, tagged)
	p.ClearUndone()

	e.out.ToRoomExceptSender(msg.RoomID, connID, protocol.EventDrawBatch, tagged)
	e.pushInteractionState(connID, msg.RoomID)
}

// Undo removes the author's most recent stroke as a whole and pushes it
// onto their redo stack. The room gets a full-state refresh because the
// removal can affect interleaved positions.
func (e *Engine) Undo(connID, roomID string) {
	p, ok := e.sessions.Get(connID)
	if !ok || p.RoomID != roomID {
		return
	}
	history, ok := e.rooms.Snapshot(roomID)
	if !ok {
		return
	}

	strokeID, ok := history.LastStrokeByAuthor(connID)
	if !ok {
		return
	}
	undone, remaining := history.ExtractStroke(strokeID)

	e.rooms.Replace(roomID, remaining)
	p.PushUndone(undone)

	e.out.ToRoom(roomID, protocol.EventRefreshBoard, remaining)
	e.pushInteractionState(connID, roomID)
}

// Redo re-draws the most recently undone stroke at the current tail of
// the history, not at its original position. Strokes drawn by others in
// the interim therefore end up underneath it; this reordering is the
// intended behavior, not a history rewind.
func (e *Engine) Redo(connID, roomID string) {
	p, ok := e.sessions.Get(connID)
	if !ok || p.RoomID != roomID {
		return
	}
	if !e.rooms.Exists(roomID) {
		return
	}

	stroke, ok := p.PopUndone()
	if !ok {
		return
	}
	e.rooms.Append(roomID, stroke)

	history, _ := e.rooms.Snapshot(roomID)
	e.out.ToRoom(roomID, protocol.EventRefreshBoard, history)
	e.pushInteractionState(connID, roomID)
}

// ClearOwn removes every point the connection authored and empties its
// redo stack.
func (e *Engine) ClearOwn(connID, roomID string) {
	p, ok := e.sessions.Get(connID)
	if !ok || p.RoomID != roomID {
		return
	}
	history, ok := e.rooms.Snapshot(roomID)
	if !ok {
		return
	}

	remaining := history.RemoveByAuthor(connID)
	e.rooms.Replace(roomID, remaining)
	p.ClearUndone()

	e.out.ToRoom(roomID, protocol.EventRefreshBoard, remaining)
	e.pushInteractionState(connID, roomID)
}

// Disconnect removes the participant record and garbage-collects the room
// once it is empty, freeing its history. A connection that drops before
// completing a join leaves no record and is a no-op.
func (e *Engine) Disconnect(connID string) {
	p, ok := e.sessions.Remove(connID)
	if !ok {
		return
	}

	if e.sessions.CountInRoom(p.RoomID) == 0 {
		e.rooms.Delete(p.RoomID)
		e.log.Info().Str("room", p.RoomID).Msg("room deleted (empty)")
		return
	}
	e.broadcastRoster(p.RoomID)
}

func (e *Engine) broadcastRoster(roomID string) {
	members := e.sessions.InRoom(roomID)
	roster := make([]protocol.UserInfo, len(members))
	for i, m := range members {
		roster[i] = protocol.UserInfo{Name: m.Name, Color: m.Color}
	}
	e.out.ToRoom(roomID, protocol.EventUpdateUsers, roster)
}

// Recomputed and pushed to the acting connection after join and after
// every mutating operation it performs
func (e *Engine) pushInteractionState(connID, roomID string) {
	p, ok := e.sessions.Get(connID)
	if !ok {
		return
	}
	state := protocol.InteractionState{
		CanUndo: e.rooms.HasAuthor(roomID, connID),
		CanRedo: p.CanRedo(),
	}
	e.out.ToConnection(connID, protocol.EventInteractionState, state)
}
