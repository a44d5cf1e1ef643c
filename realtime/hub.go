package realtime

import (
	"fmt"
	"sync"
)

// Subscriber is anything that can receive a room event. Session implements
// it over a websocket; tests implement it with a recorder.
type Subscriber interface {
	Send(event string, payload interface{})
}

// Hub owns the room membership table: room name -> set of subscribers.
// Room membership is purely a routing concern; it carries no authorization
// weight (the mutation handlers check task membership separately).
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Subscriber]struct{}),
	}
}

// TaskRoom returns the room name for a task id.
func TaskRoom(taskID int) string {
	return fmt.Sprintf("task:%d", taskID)
}

// Join adds a subscriber to a room. Joining twice is a no-op, so a
// subscriber receives each broadcast at most once.
func (h *Hub) Join(room string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
}

func (h *Hub) Leave(room string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// LeaveAll removes a subscriber from every room it joined. Called on
// disconnect.
func (h *Hub) LeaveAll(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers an event to every current member of a room. Delivery
// is best-effort and fire-and-forget; a slow member never blocks the
// caller or the other members.
func (h *Hub) Broadcast(room string, event string, payload interface{}) {
	h.mu.RLock()
	members := make([]Subscriber, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		s.Send(event, payload)
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
