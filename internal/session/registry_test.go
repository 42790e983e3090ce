package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchroom/backend/internal/board"
)

func TestAdmitCapacity(t *testing.T) {
	r := NewRegistry(2)

	require.NoError(t, r.Admit("r1", "Alice"))
	r.Register("c1", "Alice", "#f00", "r1")

	require.NoError(t, r.Admit("r1", "Bob"))
	r.Register("c2", "Bob", "#0f0", "r1")

	assert.ErrorIs(t, r.Admit("r1", "Carol"), ErrRoomFull)

	// Other rooms are unaffected
	assert.NoError(t, r.Admit("r2", "Carol"))
}

func TestAdmitNameTakenCaseInsensitive(t *testing.T) {
	r := NewRegistry(15)
	r.Register("c1", "Alice", "#f00", "r1")

	assert.ErrorIs(t, r.Admit("r1", "alice"), ErrNameTaken)
	assert.ErrorIs(t, r.Admit("r1", "ALICE"), ErrNameTaken)
	assert.NoError(t, r.Admit("r1", "Bob"))

	// Same name in another room is fine
	assert.NoError(t, r.Admit("r2", "Alice"))
}

func TestAdmitChecksCapacityBeforeName(t *testing.T) {
	r := NewRegistry(1)
	r.Register("c1", "Alice", "#f00", "r1")

	// Full room with a colliding name still reports room_full
	assert.ErrorIs(t, r.Admit("r1", "Alice"), ErrRoomFull)
}

func TestAdmitRejectionMutatesNothing(t *testing.T) {
	r := NewRegistry(1)
	r.Register("c1", "Alice", "#f00", "r1")

	_ = r.Admit("r1", "Bob")
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 1, r.CountInRoom("r1"))
}

func TestRegisterAndRemove(t *testing.T) {
	r := NewRegistry(15)

	p := r.Register("c1", "Alice", "#f00", "r1")
	assert.Equal(t, "c1", p.ConnID)
	assert.Equal(t, "r1", p.RoomID)
	assert.False(t, p.CanRedo())

	got, ok := r.Get("c1")
	require.True(t, ok)
	assert.Same(t, p, got)

	removed, ok := r.Remove("c1")
	require.True(t, ok)
	assert.Same(t, p, removed)

	_, ok = r.Get("c1")
	assert.False(t, ok)

	_, ok = r.Remove("c1")
	assert.False(t, ok)
}

func TestRosterInJoinOrder(t *testing.T) {
	r := NewRegistry(15)
	for i := 0; i < 5; i++ {
		r.Register(fmt.Sprintf("c%d", i), fmt.Sprintf("user%d", i), "#000", "r1")
	}
	r.Register("other", "Other", "#000", "r2")

	members := r.InRoom("r1")
	require.Len(t, members, 5)
	for i, m := range members {
		assert.Equal(t, fmt.Sprintf("user%d", i), m.Name)
	}

	ids := r.ConnIDsInRoom("r1")
	require.Len(t, ids, 5)
	assert.Equal(t, "c0", ids[0])
}

func TestRoomCounts(t *testing.T) {
	r := NewRegistry(15)
	r.Register("c1", "Alice", "#000", "r1")
	r.Register("c2", "Bob", "#000", "r1")
	r.Register("c3", "Carol", "#000", "r2")

	counts := r.RoomCounts()
	assert.Equal(t, map[string]int{"r1": 2, "r2": 1}, counts)
	assert.Equal(t, 3, r.Count())
}

func TestRedoStack(t *testing.T) {
	p := &Participant{ConnID: "c1"}

	_, ok := p.PopUndone()
	assert.False(t, ok)

	s1 := board.History{{StrokeID: "s1", AuthorID: "c1"}}
	s2 := board.History{{StrokeID: "s2", AuthorID: "c1"}}
	p.PushUndone(s1)
	p.PushUndone(s2)
	require.True(t, p.CanRedo())

	// Most recently undone comes back first
	got, ok := p.PopUndone()
	require.True(t, ok)
	assert.Equal(t, "s2", got[0].StrokeID)

	p.ClearUndone()
	assert.False(t, p.CanRedo())
	_, ok = p.PopUndone()
	assert.False(t, ok)
}

func TestZeroCapFallsBackToDefault(t *testing.T) {
	r := NewRegistry(0)
	for i := 0; i < DefaultRoomCap; i++ {
		require.NoError(t, r.Admit("r1", fmt.Sprintf("user%d", i)))
		r.Register(fmt.Sprintf("c%d", i), fmt.Sprintf("user%d", i), "#000", "r1")
	}
	assert.ErrorIs(t, r.Admit("r1", "overflow"), ErrRoomFull)
}
