package conversation

import (
	"testing"

	"stock-assistant/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotClickable(t *testing.T) {
	snap := Snapshot{
		Messages: []domain.Message{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}},
		ActiveID: 2,
	}
	assert.False(t, snap.Clickable(1))
	assert.True(t, snap.Clickable(2))

	active, ok := snap.ActiveMessage()
	assert.True(t, ok)
	assert.Equal(t, "b", active.Text)

	snap.Pending = true
	assert.False(t, snap.Clickable(2))
	_, ok = snap.ActiveMessage()
	assert.False(t, ok)

	none := Snapshot{Messages: snap.Messages}
	assert.True(t, none.Clickable(1), "no pointer enables every message")
}

func TestSnapshotLookups(t *testing.T) {
	var empty Snapshot
	_, ok := empty.Last()
	assert.False(t, ok)
	assert.Zero(t, empty.Len())

	snap := Snapshot{Messages: []domain.Message{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}}
	msg, ok := snap.Message(1)
	assert.True(t, ok)
	assert.Equal(t, "a", msg.Text)
	_, ok = snap.Message(3)
	assert.False(t, ok)

	lastMsg, _ := snap.Last()
	assert.Equal(t, domain.MessageID(2), lastMsg.ID)
}
