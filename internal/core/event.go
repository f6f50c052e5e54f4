package core

import (
	"time"

	"github.com/parleychat/parley-server/internal/store"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserStatus notifies clients that a user went online or offline.
	EventUserStatus EventKind = iota
	// EventGroupOnlineUsers delivers the current online roster of a room.
	EventGroupOnlineUsers
	// EventTyping notifies room members that a user is typing.
	EventTyping
	// EventStopTyping notifies room members that a user stopped typing.
	EventStopTyping
	// EventMessageReceived delivers a freshly created message.
	EventMessageReceived
	// EventMessageUpdated delivers a message after any state change:
	// delivery advancement, edit, soft delete, or reaction toggle.
	EventMessageUpdated
	// EventError notifies a client about a protocol-level error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	User     string
	Online   bool
	LastSeen *time.Time
	Users    []string
	Message  *store.Message
	Error    *CoreError
}
