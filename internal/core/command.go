package core

// ChatType distinguishes group broadcast from targeted private delivery.
type ChatType string

const (
	ChatGroup   ChatType = "GROUP"
	ChatPrivate ChatType = "PRIVATE"
)

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room.
	CommandJoinRoom CommandKind = iota
	// CommandTyping relays a transient typing notice to a room.
	CommandTyping
	// CommandStopTyping relays the end of a typing notice.
	CommandStopTyping
	// CommandSendMessage creates and fans out a chat message.
	CommandSendMessage
	// CommandEditMessage replaces the body of the caller's message.
	CommandEditMessage
	// CommandDeleteMessage soft-deletes the caller's message.
	CommandDeleteMessage
	// CommandReactMessage toggles the caller's emoji reaction.
	CommandReactMessage
	// CommandMarkSeen marks all foreign messages in a room as seen.
	CommandMarkSeen
)

// Command represents an action requested by a client.
type Command struct {
	Kind      CommandKind
	Room      string
	ChatType  ChatType
	Text      string
	Receiver  string
	MessageID int64
	Emoji     string
}
