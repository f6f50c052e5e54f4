package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/parleychat/parley-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_online     BOOLEAN NOT NULL DEFAULT 0,
	last_seen     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	reset_token   TEXT,
	reset_expiry  DATETIME,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS groups (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	room_id    TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id     TEXT NOT NULL,
	sender_name TEXT NOT NULL,
	receiver    TEXT NOT NULL DEFAULT 'GROUP',
	body        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'sent',
	deleted     BOOLEAN NOT NULL DEFAULT 0,
	reactions   TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, created_at);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also serializes
	// every message mutation behind one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, name, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.getUser(ctx, "id = ?", id)
}

// GetUserByName retrieves a user by display name.
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*store.User, error) {
	return s.getUser(ctx, "name = ?", name)
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*store.User, error) {
	query := `
		SELECT id, name, email, password_hash, is_online, last_seen, created_at
		FROM users
		WHERE ` + where
	var user store.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsOnline,
		&user.LastSeen,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// ListUsers returns all registered users, ordered by name.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	query := `
		SELECT id, name, email, password_hash, is_online, last_seen, created_at
		FROM users
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*store.User
	for rows.Next() {
		var user store.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.IsOnline,
			&user.LastSeen,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// SetOnline updates the online flag for a user.
func (s *SQLiteStore) SetOnline(ctx context.Context, name string, online bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET is_online = ? WHERE name = ?`, online, name)
	if err != nil {
		return fmt.Errorf("set online: %w", err)
	}
	return nil
}

// SetLastSeen records when a user was last connected.
func (s *SQLiteStore) SetLastSeen(ctx context.Context, name string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen = ? WHERE name = ?`, at.UTC(), name)
	if err != nil {
		return fmt.Errorf("set last seen: %w", err)
	}
	return nil
}

// SetResetToken stores a password-reset token with its expiry.
func (s *SQLiteStore) SetResetToken(ctx context.Context, email, token string, expiry time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET reset_token = ?, reset_expiry = ? WHERE email = ?`,
		token, expiry.UTC(), email,
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user not found: %w", sql.ErrNoRows)
	}
	return nil
}

// ResetPassword swaps the password hash for a valid, unexpired reset token.
func (s *SQLiteStore) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, reset_token = NULL, reset_expiry = NULL
		WHERE reset_token = ? AND reset_expiry > ?
	`, passwordHash, token, now.UTC())
	if err != nil {
		return false, fmt.Errorf("reset password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

// ==== GroupStore implementation ====

// CreateGroup creates a new group chat.
func (s *SQLiteStore) CreateGroup(ctx context.Context, name, roomID string) (*store.Group, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (name, room_id) VALUES (?, ?)`, name, roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	var group store.Group
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, room_id, created_at FROM groups WHERE id = ?`, id,
	).Scan(&group.ID, &group.Name, &group.RoomID, &group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}

	return &group, nil
}

// GetGroupByRoomID retrieves a group by its room id, or nil if absent.
func (s *SQLiteStore) GetGroupByRoomID(ctx context.Context, roomID string) (*store.Group, error) {
	var group store.Group
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, room_id, created_at FROM groups WHERE room_id = ?`, roomID,
	).Scan(&group.ID, &group.Name, &group.RoomID, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query group: %w", err)
	}
	return &group, nil
}

// ListGroups lists all groups, newest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*store.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, room_id, created_at FROM groups ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []*store.Group
	for rows.Next() {
		var group store.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.RoomID, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, &group)
	}

	return groups, rows.Err()
}

// ==== MessageStore implementation ====

const messageColumns = `id, room_id, sender_name, receiver, body, status, deleted, reactions, created_at`

func scanMessage(row interface{ Scan(...any) error }) (*store.Message, error) {
	var msg store.Message
	var reactions string
	err := row.Scan(
		&msg.ID,
		&msg.RoomID,
		&msg.SenderName,
		&msg.Receiver,
		&msg.Body,
		&msg.Status,
		&msg.Deleted,
		&reactions,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(reactions), &msg.Reactions); err != nil {
		return nil, fmt.Errorf("decode reactions: %w", err)
	}
	if msg.Reactions == nil {
		msg.Reactions = map[string]string{}
	}
	return &msg, nil
}

// CreateMessage persists a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *store.Message) (*store.Message, error) {
	status := msg.Status
	if status == "" {
		status = store.StatusSent
	}
	receiver := msg.Receiver
	if receiver == "" {
		receiver = store.ReceiverGroup
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (room_id, sender_name, receiver, body, status)
		VALUES (?, ?, ?, ?, ?)
	`, msg.RoomID, msg.SenderName, receiver, msg.Body, status)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	created, err := s.GetMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("message %d vanished after insert", id)
	}
	return created, nil
}

// GetMessageByID retrieves a message, or nil if it does not exist.
func (s *SQLiteStore) GetMessageByID(ctx context.Context, id int64) (*store.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id,
	)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query message: %w", err)
	}
	return msg, nil
}

// ListRoomMessages retrieves up to limit messages for a room, oldest first.
func (s *SQLiteStore) ListRoomMessages(ctx context.Context, roomID string, limit int) ([]*store.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE room_id = ? ORDER BY created_at ASC, id ASC LIMIT ?`,
		roomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*store.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// AdvanceDelivered moves a message from sent to delivered. The status
// guard keeps delivery state monotonic even when callers race.
func (s *SQLiteStore) AdvanceDelivered(ctx context.Context, id int64) (*store.Message, error) {
	return s.guardedUpdate(ctx, id,
		`UPDATE messages SET status = ? WHERE id = ? AND status = ?`,
		store.StatusDelivered, id, store.StatusSent,
	)
}

// UpdateBody replaces the body of a message owned by sender.
func (s *SQLiteStore) UpdateBody(ctx context.Context, id int64, sender, body string) (*store.Message, error) {
	return s.guardedUpdate(ctx, id,
		`UPDATE messages SET body = ? WHERE id = ? AND sender_name = ? AND deleted = 0`,
		body, id, sender,
	)
}

// SoftDelete marks a sender's message deleted. Deleting twice leaves the
// same terminal state, so the already-deleted row is still returned.
func (s *SQLiteStore) SoftDelete(ctx context.Context, id int64, sender string) (*store.Message, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE messages SET body = ?, deleted = 1 WHERE id = ? AND sender_name = ?`,
		store.DeletedPlaceholder, id, sender,
	)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetMessageByID(ctx, id)
}

// ToggleReaction applies toggle semantics inside an immediate transaction
// so concurrent toggles on the same message never interleave.
func (s *SQLiteStore) ToggleReaction(ctx context.Context, id int64, user, emoji string) (*store.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT reactions FROM messages WHERE id = ?`, id)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query reactions: %w", err)
	}

	reactions := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &reactions); err != nil {
		return nil, fmt.Errorf("decode reactions: %w", err)
	}

	if reactions[user] == emoji {
		delete(reactions, user)
	} else {
		reactions[user] = emoji
	}

	encoded, err := json.Marshal(reactions)
	if err != nil {
		return nil, fmt.Errorf("encode reactions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE messages SET reactions = ? WHERE id = ?`, string(encoded), id); err != nil {
		return nil, fmt.Errorf("update reactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return s.GetMessageByID(ctx, id)
}

// MarkRoomSeen transitions qualifying messages to seen, one conditional
// update per row, and returns only the rows that actually changed.
func (s *SQLiteStore) MarkRoomSeen(ctx context.Context, roomID, reader string) ([]*store.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM messages
		WHERE room_id = ? AND sender_name != ? AND status != ?
		ORDER BY id ASC
	`, roomID, reader, store.StatusSeen)
	if err != nil {
		return nil, fmt.Errorf("query unseen: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var updated []*store.Message
	for _, id := range ids {
		// The status guard makes the transition exactly-once when two
		// readers mark the same room concurrently.
		msg, err := s.guardedUpdate(ctx, id,
			`UPDATE messages SET status = ? WHERE id = ? AND status != ?`,
			store.StatusSeen, id, store.StatusSeen,
		)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			updated = append(updated, msg)
		}
	}

	return updated, nil
}

// guardedUpdate runs a conditional UPDATE and returns the refreshed row,
// or nil when the guard did not match.
func (s *SQLiteStore) guardedUpdate(ctx context.Context, id int64, query string, args ...any) (*store.Message, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetMessageByID(ctx, id)
}
