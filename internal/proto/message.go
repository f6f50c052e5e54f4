package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom      = "joinRoom"
	InboundTypeTyping        = "typing"
	InboundTypeStopTyping    = "stopTyping"
	InboundTypeSendMessage   = "sendMessage"
	InboundTypeEditMessage   = "editMessage"
	InboundTypeDeleteMessage = "deleteMessage"
	InboundTypeReactMessage  = "reactMessage"
	InboundTypeMarkSeen      = "markSeen"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventUserStatusUpdated = "userStatusUpdated"
	EventGroupOnlineUsers  = "groupOnlineUsers"
	EventUserTyping        = "userTyping"
	EventUserStopTyping    = "userStopTyping"
	EventReceiveMessage    = "receiveMessage"
	EventMessageUpdated    = "messageUpdated"
)

// RoomData addresses a room-scoped intent (joinRoom, typing, stopTyping,
// markSeen).
type RoomData struct {
	RoomID string `json:"roomId"`
}

// SendMessageData is a request to create and deliver a message.
type SendMessageData struct {
	ChatType     string `json:"chatType"`
	RoomID       string `json:"roomId"`
	Message      string `json:"message"`
	ReceiverName string `json:"receiverName,omitempty"`
}

// EditMessageData replaces the body of an existing message.
type EditMessageData struct {
	MessageID int64  `json:"messageId"`
	NewText   string `json:"newText"`
}

// DeleteMessageData soft-deletes an existing message.
type DeleteMessageData struct {
	MessageID int64 `json:"messageId"`
}

// ReactMessageData toggles an emoji reaction.
type ReactMessageData struct {
	MessageID int64  `json:"messageId"`
	Emoji     string `json:"emoji"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// UserStatusPayload announces an online/offline presence transition.
type UserStatusPayload struct {
	Username string `json:"username"`
	IsOnline bool   `json:"isOnline"`
	LastSeen int64  `json:"lastSeen,omitempty"`
}

// GroupOnlineUsersPayload carries the online roster of a room.
type GroupOnlineUsersPayload struct {
	RoomID string   `json:"roomId"`
	Users  []string `json:"users"`
}

// TypingPayload announces that a user is typing in a room.
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username,omitempty"`
}

// MessagePayload is the wire form of a chat message.
type MessagePayload struct {
	ID           int64             `json:"id"`
	RoomID       string            `json:"roomId"`
	SenderName   string            `json:"senderName"`
	ReceiverName string            `json:"receiverName"`
	Message      string            `json:"message"`
	Status       string            `json:"status"`
	IsDeleted    bool              `json:"isDeleted"`
	Reactions    map[string]string `json:"reactions"`
	CreatedAt    int64             `json:"createdAt"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
