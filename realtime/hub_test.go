package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// recorder is a Subscriber that remembers everything sent to it.
type recorder struct {
	events   []string
	payloads []interface{}
}

func (r *recorder) Send(event string, payload interface{}) {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

func TestTaskRoomName(t *testing.T) {
	assert.Equal(t, "task:7", TaskRoom(7))
}

func TestBroadcastFanOut(t *testing.T) {
	hub := NewHub()
	a := &recorder{}
	b := &recorder{}
	c := &recorder{}

	hub.Join("task:7", a)
	hub.Join("task:7", b)
	hub.Join("task:8", c)

	hub.Broadcast("task:7", EventSubTaskStatusUpdated, map[string]interface{}{"subTaskId": 42})

	assert.Equal(t, []string{EventSubTaskStatusUpdated}, a.events)
	assert.Equal(t, []string{EventSubTaskStatusUpdated}, b.events)
	assert.Empty(t, c.events, "members of other rooms must not receive the event")
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	a := &recorder{}

	hub.Join("task:7", a)
	hub.Join("task:7", a)

	assert.Equal(t, 1, hub.RoomSize("task:7"))

	hub.Broadcast("task:7", EventDeadlineUpdated, nil)
	assert.Len(t, a.events, 1, "double join must not cause double delivery")
}

func TestJoinMultipleRooms(t *testing.T) {
	hub := NewHub()
	a := &recorder{}

	hub.Join("task:1", a)
	hub.Join("task:2", a)

	hub.Broadcast("task:1", "e1", nil)
	hub.Broadcast("task:2", "e2", nil)

	assert.Equal(t, []string{"e1", "e2"}, a.events)
}

func TestLeave(t *testing.T) {
	hub := NewHub()
	a := &recorder{}
	b := &recorder{}

	hub.Join("task:7", a)
	hub.Join("task:7", b)
	hub.Leave("task:7", a)

	hub.Broadcast("task:7", "e", nil)

	assert.Empty(t, a.events)
	assert.Len(t, b.events, 1)
	assert.Equal(t, 1, hub.RoomSize("task:7"))
}

func TestLeaveAll(t *testing.T) {
	hub := NewHub()
	a := &recorder{}

	hub.Join("task:1", a)
	hub.Join("task:2", a)
	hub.LeaveAll(a)

	hub.Broadcast("task:1", "e", nil)
	hub.Broadcast("task:2", "e", nil)

	assert.Empty(t, a.events)
	assert.Equal(t, 0, hub.RoomSize("task:1"))
	assert.Equal(t, 0, hub.RoomSize("task:2"))
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.Broadcast("task:999", "e", nil)
	})
}
