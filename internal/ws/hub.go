package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sketchroom/backend/internal/engine"
	"github.com/sketchroom/backend/internal/protocol"
	"github.com/sketchroom/backend/internal/session"
)

// Hub tracks live connections and fans engine events out to them. Its Run
// loop is the single thread of control: every inbound message, register
// and unregister is processed to completion before the next, which makes
// each engine operation atomic with respect to all other connections.
type Hub struct {
	// Live connections by connection ID
	conns map[string]*Client

	// Inbound messages from clients
	inbound chan *inboundMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	sessions *session.Registry
	engine   *engine.Engine
	log      zerolog.Logger

	mu sync.RWMutex
}

type inboundMessage struct {
	sender *Client
	data   []byte
}

func NewHub(sessions *session.Registry, log zerolog.Logger) *Hub {
	return &Hub{
		conns:      make(map[string]*Client),
		inbound:    make(chan *inboundMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sessions:   sessions,
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Bind attaches the engine the hub dispatches to. Done after construction
// because the engine broadcasts through the hub.
func (h *Hub) Bind(e *engine.Engine) {
	h.engine = e
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.conns[client.id] = client
			total := len(h.conns)
			h.mu.Unlock()

			h.log.Debug().Str("conn", client.id).Int("total", total).Msg("connection registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[client.id]; ok {
				delete(h.conns, client.id)
				close(client.send)
			}
			h.mu.Unlock()

			h.engine.Disconnect(client.id)

		case msg := <-h.inbound:
			h.dispatch(msg)
		}
	}
}

// Decodes the envelope and routes it to the engine. Malformed input is
// logged and dropped; it must never take the loop down.
func (h *Hub) dispatch(msg *inboundMessage) {
	var env protocol.Envelope
	if err := json.Unmarshal(msg.data, &env); err != nil {
		h.log.Debug().Str("conn", msg.sender.id).Err(err).Msg("malformed envelope dropped")
		return
	}

	switch env.Event {
	case protocol.EventJoin:
		var req protocol.JoinRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			h.log.Debug().Str("conn", msg.sender.id).Err(err).Msg("malformed join dropped")
			return
		}
		h.engine.Join(msg.sender.id, req)

	case protocol.EventDrawBatch:
		var batch protocol.DrawBatch
		if err := json.Unmarshal(env.Data, &batch); err != nil {
			h.log.Debug().Str("conn", msg.sender.id).Err(err).Msg("malformed batch dropped")
			return
		}
		h.engine.DrawBatch(msg.sender.id, batch)

	case protocol.EventUndo:
		if ref, ok := h.roomRef(msg.sender, env.Data); ok {
			h.engine.Undo(msg.sender.id, ref.RoomID)
		}

	case protocol.EventRedo:
		if ref, ok := h.roomRef(msg.sender, env.Data); ok {
			h.engine.Redo(msg.sender.id, ref.RoomID)
		}

	case protocol.EventClearOwn:
		if ref, ok := h.roomRef(msg.sender, env.Data); ok {
			h.engine.ClearOwn(msg.sender.id, ref.RoomID)
		}

	default:
		h.log.Debug().Str("conn", msg.sender.id).Str("event", env.Event).Msg("unknown event dropped")
	}
}

func (h *Hub) roomRef(sender *Client, data json.RawMessage) (protocol.RoomRef, bool) {
	var ref protocol.RoomRef
	if err := json.Unmarshal(data, &ref); err != nil || ref.RoomID == "" {
		h.log.Debug().Str("conn", sender.id).Msg("event without room reference dropped")
		return ref, false
	}
	return ref, true
}

// Broadcast gateway. Sends are best-effort: a slow consumer's message is
// dropped rather than blocking the loop, and a dead connection surfaces
// through its read pump as a disconnect.

func (h *Hub) ToRoom(roomID, event string, data any) {
	h.sendTo(h.sessions.ConnIDsInRoom(roomID), "", event, data)
}

func (h *Hub) ToRoomExceptSender(roomID, senderID, event string, data any) {
	h.sendTo(h.sessions.ConnIDsInRoom(roomID), senderID, event, data)
}

func (h *Hub) ToConnection(connID, event string, data any) {
	h.sendTo([]string{connID}, "", event, data)
}

func (h *Hub) sendTo(connIDs []string, skipID, event string, data any) {
	payload, err := protocol.Encode(event, data)
	if err != nil {
		h.log.Error().Str("event", event).Err(err).Msg("encode failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range connIDs {
		if id == skipID {
			continue
		}
		client, ok := h.conns[id]
		if !ok {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Drop if slow consumer
			h.log.Warn().Str("conn", id).Str("event", event).Msg("send buffer full, message dropped")
		}
	}
}

// Stats for the HTTP API

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) RoomCount() int {
	return len(h.sessions.RoomCounts())
}

// Returns participant counts per live room
func (h *Hub) ActiveRooms() map[string]int {
	return h.sessions.RoomCounts()
}
