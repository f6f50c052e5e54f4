package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// Router accepts message intents, applies authorization and delivery
// state transitions, persists the result, and fans the outcome out to
// the resolved audience. A state change is never broadcast unless it
// was persisted first.
type Router struct {
	messages store.MessageStore
	presence *Presence
	rooms    *Rooms
	bot      Chatbot
	log      *zerolog.Logger
}

// NewRouter creates a message router on top of the given registries.
func NewRouter(messages store.MessageStore, presence *Presence, rooms *Rooms, logger *zerolog.Logger) *Router {
	return &Router{
		messages: messages,
		presence: presence,
		rooms:    rooms,
		log:      logger,
	}
}

// Send validates and persists a new message with status sent, fans it
// out, then advances it to delivered in the background. A /bot prefix
// additionally produces a chatbot reply addressed privately to the
// sender.
func (rt *Router) Send(ctx context.Context, c *Client, cmd *Command) {
	body := strings.TrimSpace(cmd.Text)
	if body == "" || cmd.Room == "" {
		rt.log.Debug().Str("user", c.Name).Str("room", cmd.Room).Msg("dropping invalid send")
		return
	}

	receiver := store.ReceiverGroup
	if cmd.ChatType == ChatPrivate {
		if cmd.Receiver == "" {
			rt.log.Debug().Str("user", c.Name).Str("room", cmd.Room).Msg("dropping private send without receiver")
			return
		}
		receiver = cmd.Receiver
	}

	msg, err := rt.messages.CreateMessage(ctx, &store.Message{
		RoomID:     cmd.Room,
		SenderName: c.Name,
		Receiver:   receiver,
		Body:       cmd.Text,
		Status:     store.StatusSent,
	})
	if err != nil {
		rt.log.Error().Err(err).Str("user", c.Name).Str("room", cmd.Room).Msg("failed to persist message")
		return
	}

	rt.deliver(msg, EventMessageReceived)

	go rt.advanceDelivered(msg.ID)

	if strings.HasPrefix(body, BotPrefix) {
		rt.sendBotReply(ctx, c, cmd.Room, body)
	}
}

// advanceDelivered moves a message to delivered and re-broadcasts it.
// Runs outside the sender's request so fan-out is never blocked on it.
func (rt *Router) advanceDelivered(id int64) {
	msg, err := rt.messages.AdvanceDelivered(context.Background(), id)
	if err != nil {
		rt.log.Error().Err(err).Int64("message_id", id).Msg("failed to advance delivery status")
		return
	}
	if msg == nil {
		return
	}
	rt.deliver(msg, EventMessageUpdated)
}

// sendBotReply persists the chatbot's response and delivers it to the
// asker's connections only, regardless of the originating chat type.
func (rt *Router) sendBotReply(ctx context.Context, c *Client, roomID, body string) {
	reply := rt.bot.Reply(body)

	botMsg, err := rt.messages.CreateMessage(ctx, &store.Message{
		RoomID:     roomID,
		SenderName: BotName,
		Receiver:   c.Name,
		Body:       reply,
		Status:     store.StatusDelivered,
	})
	if err != nil {
		rt.log.Error().Err(err).Str("user", c.Name).Msg("failed to persist bot reply")
		return
	}

	ev := &Event{Kind: EventMessageReceived, Room: roomID, Message: botMsg}
	for _, target := range rt.presence.ConnectionsFor(c.Name) {
		target.send(ev)
	}
}

// Edit replaces the body of the caller's own, non-deleted message.
// Anything else is a silent no-op: callers cannot distinguish a missing
// message from one they are not allowed to touch.
func (rt *Router) Edit(ctx context.Context, c *Client, cmd *Command) {
	if strings.TrimSpace(cmd.Text) == "" {
		rt.log.Debug().Str("user", c.Name).Int64("message_id", cmd.MessageID).Msg("dropping empty edit")
		return
	}

	msg, err := rt.messages.UpdateBody(ctx, cmd.MessageID, c.Name, cmd.Text)
	if err != nil {
		rt.log.Error().Err(err).Int64("message_id", cmd.MessageID).Msg("failed to edit message")
		return
	}
	if msg == nil {
		rt.log.Debug().Str("user", c.Name).Int64("message_id", cmd.MessageID).Msg("edit rejected")
		return
	}

	rt.deliver(msg, EventMessageUpdated)
}

// Delete soft-deletes the caller's own message, swapping the body for
// the placeholder. Idempotent; non-owners get a silent no-op.
func (rt *Router) Delete(ctx context.Context, c *Client, cmd *Command) {
	msg, err := rt.messages.SoftDelete(ctx, cmd.MessageID, c.Name)
	if err != nil {
		rt.log.Error().Err(err).Int64("message_id", cmd.MessageID).Msg("failed to delete message")
		return
	}
	if msg == nil {
		rt.log.Debug().Str("user", c.Name).Int64("message_id", cmd.MessageID).Msg("delete rejected")
		return
	}

	rt.deliver(msg, EventMessageUpdated)
}

// React toggles the caller's reaction: submitting the emoji already set
// removes it, anything else replaces it. One emoji per participant.
func (rt *Router) React(ctx context.Context, c *Client, cmd *Command) {
	if cmd.Emoji == "" {
		return
	}

	msg, err := rt.messages.ToggleReaction(ctx, cmd.MessageID, c.Name, cmd.Emoji)
	if err != nil {
		rt.log.Error().Err(err).Int64("message_id", cmd.MessageID).Msg("failed to toggle reaction")
		return
	}
	if msg == nil {
		rt.log.Debug().Str("user", c.Name).Int64("message_id", cmd.MessageID).Msg("reaction on unknown message")
		return
	}

	rt.deliver(msg, EventMessageUpdated)
}

// MarkSeen transitions every message in the room authored by someone
// else to seen and re-broadcasts each update individually.
func (rt *Router) MarkSeen(ctx context.Context, c *Client, cmd *Command) {
	if cmd.Room == "" {
		return
	}

	updated, err := rt.messages.MarkRoomSeen(ctx, cmd.Room, c.Name)
	if err != nil {
		rt.log.Error().Err(err).Str("room", cmd.Room).Msg("failed to mark room seen")
		return
	}

	for _, msg := range updated {
		rt.deliver(msg, EventMessageUpdated)
	}
}

// deliver resolves the audience for a message and sends the event to it.
// Group messages reach every connection joined to the room. Private
// messages reach every live connection of the recipient plus every live
// connection of the sender, independent of room membership, so all of a
// user's devices stay in sync.
func (rt *Router) deliver(msg *store.Message, kind EventKind) {
	ev := &Event{Kind: kind, Room: msg.RoomID, Message: msg}

	if msg.Receiver == store.ReceiverGroup {
		rt.rooms.Broadcast(msg.RoomID, nil, ev)
		return
	}

	seen := make(map[*Client]struct{})
	for _, name := range []string{msg.Receiver, msg.SenderName} {
		for _, target := range rt.presence.ConnectionsFor(name) {
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
			target.send(ev)
		}
	}
}
