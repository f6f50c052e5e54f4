package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// Hub owns the presence registry, the room table, and the message
// router. It is the single entry point the transport layer talks to;
// one Hub instance is shared by every connection handler.
type Hub struct {
	presence *Presence
	rooms    *Rooms
	router   *Router
	log      *zerolog.Logger

	dispatch map[CommandKind]func(context.Context, *Client, *Command)
}

// NewHub wires the coordinator together. The store may be nil for tests
// that only exercise presence and room bookkeeping.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	presence := NewPresence(userDirectory(st), logger)
	rooms := NewRooms()

	var messages store.MessageStore
	if st != nil {
		messages = st
	}
	router := NewRouter(messages, presence, rooms, logger)

	h := &Hub{
		presence: presence,
		rooms:    rooms,
		router:   router,
		log:      logger,
	}

	h.dispatch = map[CommandKind]func(context.Context, *Client, *Command){
		CommandJoinRoom:      h.joinRoom,
		CommandTyping:        h.typing,
		CommandStopTyping:    h.stopTyping,
		CommandSendMessage:   router.Send,
		CommandEditMessage:   router.Edit,
		CommandDeleteMessage: router.Delete,
		CommandReactMessage:  router.React,
		CommandMarkSeen:      router.MarkSeen,
	}

	return h
}

func userDirectory(st store.Store) store.UserStore {
	if st == nil {
		return nil
	}
	return st
}

// Presence exposes the registry for read-only queries.
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Rooms exposes the room table for read-only queries.
func (h *Hub) Rooms() *Rooms {
	return h.rooms
}

// Register admits an authenticated connection into the presence
// registry. Must be called before any command is dispatched.
func (h *Hub) Register(ctx context.Context, c *Client) {
	h.presence.Register(ctx, c)
	h.log.Debug().Str("client_id", c.ID).Str("user", c.Name).Msg("client registered")
}

// Unregister runs disconnect cleanup to completion: the connection
// leaves every joined room (with roster re-broadcasts) before the
// presence flip is applied.
func (h *Hub) Unregister(ctx context.Context, c *Client) {
	for roomID, names := range h.rooms.LeaveAll(c) {
		h.rooms.Broadcast(roomID, nil, &Event{Kind: EventGroupOnlineUsers, Room: roomID, Users: names})
	}
	h.presence.Unregister(ctx, c)
	h.log.Debug().Str("client_id", c.ID).Str("user", c.Name).Msg("client unregistered")
}

// Dispatch routes a client command to its handler. Unknown kinds get a
// protocol error event.
func (h *Hub) Dispatch(ctx context.Context, c *Client, cmd *Command) {
	handler, ok := h.dispatch[cmd.Kind]
	if !ok {
		c.send(&Event{Kind: EventError, Error: &CoreError{Code: ErrCodeUnknownType, Message: "unknown command"}})
		return
	}
	handler(ctx, c, cmd)
}

func (h *Hub) joinRoom(_ context.Context, c *Client, cmd *Command) {
	if cmd.Room == "" {
		c.send(&Event{Kind: EventError, Error: &CoreError{Code: ErrCodeBadRequest, Message: "room is required"}})
		return
	}
	names := h.rooms.Join(c, cmd.Room)
	h.rooms.Broadcast(cmd.Room, nil, &Event{Kind: EventGroupOnlineUsers, Room: cmd.Room, Users: names})
}

func (h *Hub) typing(_ context.Context, c *Client, cmd *Command) {
	if cmd.Room == "" {
		return
	}
	h.rooms.Broadcast(cmd.Room, c, &Event{Kind: EventTyping, Room: cmd.Room, User: c.Name})
}

func (h *Hub) stopTyping(_ context.Context, c *Client, cmd *Command) {
	if cmd.Room == "" {
		return
	}
	h.rooms.Broadcast(cmd.Room, c, &Event{Kind: EventStopTyping, Room: cmd.Room})
}
