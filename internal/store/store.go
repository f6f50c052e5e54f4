package store

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsOnline     bool
	LastSeen     time.Time
	CreatedAt    time.Time
}

// Group represents a named group chat. Private rooms have no record:
// their room id is derived from the two participant names.
type Group struct {
	ID        int64
	Name      string
	RoomID    string
	CreatedAt time.Time
}

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusSeen      MessageStatus = "seen"
)

// ReceiverGroup is the recipient marker for group messages.
const ReceiverGroup = "GROUP"

// DeletedPlaceholder replaces the body of soft-deleted messages.
const DeletedPlaceholder = "This message was deleted"

// Message represents a persisted chat message.
// Reactions maps a participant name to a single emoji.
type Message struct {
	ID         int64
	RoomID     string
	SenderName string
	Receiver   string
	Body       string
	Status     MessageStatus
	Deleted    bool
	Reactions  map[string]string
	CreatedAt  time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)

	// GetUserByName retrieves a user by display name.
	GetUserByName(ctx context.Context, name string) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]*User, error)

	// SetOnline updates the online flag for a user.
	SetOnline(ctx context.Context, name string, online bool) error

	// SetLastSeen records when a user was last connected.
	SetLastSeen(ctx context.Context, name string, at time.Time) error

	// SetResetToken stores a password-reset token with its expiry.
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) error

	// ResetPassword swaps the password hash for a valid, unexpired reset
	// token and clears the token. Returns false if the token is unknown
	// or expired.
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (bool, error)
}

// GroupStore handles group persistence.
type GroupStore interface {
	// CreateGroup creates a new group chat.
	CreateGroup(ctx context.Context, name, roomID string) (*Group, error)

	// GetGroupByRoomID retrieves a group by its room id.
	GetGroupByRoomID(ctx context.Context, roomID string) (*Group, error)

	// ListGroups lists all groups, newest first.
	ListGroups(ctx context.Context) ([]*Group, error)
}

// MessageStore handles message persistence. Every mutation addresses a
// record by id and is applied as a single guarded read-modify-write, so
// concurrent callers cannot interleave partial updates.
type MessageStore interface {
	// CreateMessage persists a new message and returns it with id and
	// timestamp filled in.
	CreateMessage(ctx context.Context, msg *Message) (*Message, error)

	// GetMessageByID retrieves a message, or nil if it does not exist.
	GetMessageByID(ctx context.Context, id int64) (*Message, error)

	// ListRoomMessages retrieves up to limit messages for a room,
	// oldest first.
	ListRoomMessages(ctx context.Context, roomID string, limit int) ([]*Message, error)

	// AdvanceDelivered moves a message from sent to delivered. Returns
	// the updated message, or nil if the message was already past sent.
	AdvanceDelivered(ctx context.Context, id int64) (*Message, error)

	// UpdateBody replaces the body of a message owned by sender that has
	// not been soft-deleted. Returns nil without error when the message
	// is missing, deleted, or owned by someone else.
	UpdateBody(ctx context.Context, id int64, sender, body string) (*Message, error)

	// SoftDelete marks a sender's message deleted and swaps its body for
	// the placeholder. Idempotent; nil result when missing or not owned.
	SoftDelete(ctx context.Context, id int64, sender string) (*Message, error)

	// ToggleReaction sets user's reaction to emoji, or removes it when
	// the same emoji is already set. Nil result when the message is
	// missing.
	ToggleReaction(ctx context.Context, id int64, user, emoji string) (*Message, error)

	// MarkRoomSeen transitions every message in the room not authored by
	// reader to seen. Returns only the messages that actually changed,
	// so each transition is observed exactly once.
	MarkRoomSeen(ctx context.Context, roomID, reader string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	GroupStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
