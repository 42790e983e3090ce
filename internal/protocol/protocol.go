package protocol

import "encoding/json"

// Inbound event names (connection -> engine)
const (
	EventJoin      = "join"
	EventDrawBatch = "draw_batch"
	EventUndo      = "undo"
	EventRedo      = "redo"
	EventClearOwn  = "clear_own"
)

// Outbound event names (engine -> connection)
const (
	EventRoomFull         = "room_full"
	EventJoinError        = "join_error"
	EventLoadHistory      = "load_history"
	EventRefreshBoard     = "refresh_board"
	EventUpdateUsers      = "update_users"
	EventInteractionState = "interaction_state"
)

// Rejection reasons carried by join_error
const ReasonNameTaken = "NAME_TAKEN"

// Envelope wraps every message on the wire in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRequest asks to enter a room under a display name.
type JoinRequest struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	RoomID string `json:"roomId"`
}

// InboundPoint is a segment as drawn by the client. It carries no author:
// authorship is stamped server-side from the connection identity.
type InboundPoint struct {
	PrevX    float64 `json:"prevX"`
	PrevY    float64 `json:"prevY"`
	CurrX    float64 `json:"currX"`
	CurrY    float64 `json:"currY"`
	Color    string  `json:"color"`
	StrokeID string  `json:"strokeId"`
}

// DrawBatch is a client-aggregated group of points submitted in one
// message.
type DrawBatch struct {
	RoomID string         `json:"roomId"`
	Batch  []InboundPoint `json:"batch"`
}

// RoomRef addresses undo/redo/clear_own at a room.
type RoomRef struct {
	RoomID string `json:"roomId"`
}

// JoinError tells the requesting connection why admission failed.
type JoinError struct {
	Reason string `json:"reason"`
}

// UserInfo is one entry of the update_users roster.
type UserInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// InteractionState reports undo/redo availability to the acting
// connection.
type InteractionState struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// Encode wraps a payload in an envelope and marshals it.
func Encode(event string, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
