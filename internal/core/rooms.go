package core

import (
	"sort"
	"sync"
)

// PrivateRoomID derives the room id shared by two participants. It is
// symmetric: both sides compute the same id regardless of argument order.
func PrivateRoomID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// Rooms tracks which connections are subscribed to which room. Membership
// is transport-level only; nothing here is persisted.
type Rooms struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]struct{}
}

// NewRooms creates an empty room table.
func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]map[*Client]struct{})}
}

// Join subscribes the connection to the room and returns the names now
// online in it. Joining twice is a no-op.
func (r *Rooms) Join(c *Client, roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.rooms[roomID]
	if !ok {
		set = make(map[*Client]struct{})
		r.rooms[roomID] = set
	}
	set[c] = struct{}{}
	return onlineNamesLocked(set)
}

// LeaveAll removes the connection from every room it had joined and
// returns, per affected room, the names still online there.
func (r *Rooms) LeaveAll(c *Client) map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := make(map[string][]string)
	for roomID, set := range r.rooms {
		if _, ok := set[c]; !ok {
			continue
		}
		delete(set, c)
		affected[roomID] = onlineNamesLocked(set)
		if len(set) == 0 {
			delete(r.rooms, roomID)
		}
	}
	return affected
}

// Clients returns every connection currently joined to the room.
func (r *Rooms) Clients(roomID string) []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.rooms[roomID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// MembersOnline computes the distinct display names currently present in
// the room. Every joined connection belongs to a registered user, so the
// room's connection set is already the intersection with live presence.
func (r *Rooms) MembersOnline(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return onlineNamesLocked(r.rooms[roomID])
}

// Broadcast sends an event to all connections in the room, except the
// one given (pass nil to reach everyone).
func (r *Rooms) Broadcast(roomID string, except *Client, ev *Event) {
	for _, c := range r.Clients(roomID) {
		if c == except {
			continue
		}
		c.send(ev)
	}
}

func onlineNamesLocked(set map[*Client]struct{}) []string {
	seen := make(map[string]struct{}, len(set))
	names := make([]string, 0, len(set))
	for c := range set {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
