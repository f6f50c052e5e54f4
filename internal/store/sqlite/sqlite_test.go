package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/parleychat/parley-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func createMessage(t *testing.T, st *SQLiteStore, roomID, sender, receiver, body string) *store.Message {
	t.Helper()
	msg, err := st.CreateMessage(context.Background(), &store.Message{
		RoomID:     roomID,
		SenderName: sender,
		Receiver:   receiver,
		Body:       body,
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	return msg
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	user, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 || user.IsOnline {
		t.Fatalf("unexpected new user: %+v", user)
	}

	if _, err := st.CreateUser(ctx, "alice", "other@example.com", "hash"); err == nil {
		t.Fatal("duplicate name should fail")
	}

	if err := st.SetOnline(ctx, "alice", true); err != nil {
		t.Fatalf("set online: %v", err)
	}
	got, err := st.GetUserByName(ctx, "alice")
	if err != nil || !got.IsOnline {
		t.Fatalf("online flag not persisted: %+v (%v)", got, err)
	}

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := st.SetLastSeen(ctx, "alice", at); err != nil {
		t.Fatalf("set last seen: %v", err)
	}
	got, err = st.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if !got.LastSeen.Equal(at) {
		t.Fatalf("last_seen = %v, want %v", got.LastSeen, at)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Now().UTC()

	if _, err := st.CreateUser(ctx, "alice", "alice@example.com", "old"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := st.SetResetToken(ctx, "nobody@example.com", "tok", now.Add(time.Hour)); err == nil {
		t.Fatal("unknown email should fail")
	}
	if err := st.SetResetToken(ctx, "alice@example.com", "tok", now.Add(time.Hour)); err != nil {
		t.Fatalf("set reset token: %v", err)
	}

	ok, err := st.ResetPassword(ctx, "wrong", "new", now)
	if err != nil || ok {
		t.Fatalf("unknown token: ok=%v err=%v", ok, err)
	}
	ok, err = st.ResetPassword(ctx, "tok", "new", now.Add(2*time.Hour))
	if err != nil || ok {
		t.Fatalf("expired token: ok=%v err=%v", ok, err)
	}

	ok, err = st.ResetPassword(ctx, "tok", "new", now)
	if err != nil || !ok {
		t.Fatalf("valid token: ok=%v err=%v", ok, err)
	}
	user, _ := st.GetUserByName(ctx, "alice")
	if user.PasswordHash != "new" {
		t.Fatalf("hash not swapped: %q", user.PasswordHash)
	}

	// Token is single-use.
	ok, err = st.ResetPassword(ctx, "tok", "again", now)
	if err != nil || ok {
		t.Fatalf("reused token: ok=%v err=%v", ok, err)
	}
}

func TestGroups(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	group, err := st.CreateGroup(ctx, "devs", "group_1")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if group.Name != "devs" || group.RoomID != "group_1" {
		t.Fatalf("unexpected group: %+v", group)
	}

	if _, err := st.CreateGroup(ctx, "other", "group_1"); err == nil {
		t.Fatal("duplicate room id should fail")
	}

	got, err := st.GetGroupByRoomID(ctx, "group_1")
	if err != nil || got == nil || got.ID != group.ID {
		t.Fatalf("get group: %+v (%v)", got, err)
	}
	if got, err := st.GetGroupByRoomID(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("missing group should be nil, got %+v (%v)", got, err)
	}

	if _, err := st.CreateGroup(ctx, "ops", "group_2"); err != nil {
		t.Fatalf("create group: %v", err)
	}
	groups, err := st.ListGroups(ctx)
	if err != nil || len(groups) != 2 {
		t.Fatalf("list groups: %d (%v)", len(groups), err)
	}
}

func TestAdvanceDeliveredOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	msg := createMessage(t, st, "group_1", "alice", store.ReceiverGroup, "hi")

	if msg.Status != store.StatusSent {
		t.Fatalf("new message status = %s", msg.Status)
	}

	updated, err := st.AdvanceDelivered(ctx, msg.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated == nil || updated.Status != store.StatusDelivered {
		t.Fatalf("unexpected result: %+v", updated)
	}

	// A second advance misses the status guard.
	updated, err = st.AdvanceDelivered(ctx, msg.ID)
	if err != nil || updated != nil {
		t.Fatalf("second advance: %+v (%v)", updated, err)
	}
}

func TestUpdateBodyGuards(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	msg := createMessage(t, st, "group_1", "alice", store.ReceiverGroup, "first")

	updated, err := st.UpdateBody(ctx, msg.ID, "bob", "stolen")
	if err != nil || updated != nil {
		t.Fatalf("foreign edit: %+v (%v)", updated, err)
	}

	updated, err = st.UpdateBody(ctx, msg.ID, "alice", "second")
	if err != nil || updated == nil || updated.Body != "second" {
		t.Fatalf("owner edit: %+v (%v)", updated, err)
	}

	if _, err := st.SoftDelete(ctx, msg.ID, "alice"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	updated, err = st.UpdateBody(ctx, msg.ID, "alice", "third")
	if err != nil || updated != nil {
		t.Fatalf("edit after delete: %+v (%v)", updated, err)
	}
}

func TestSoftDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	msg := createMessage(t, st, "group_1", "alice", store.ReceiverGroup, "oops")

	if got, err := st.SoftDelete(ctx, msg.ID, "bob"); err != nil || got != nil {
		t.Fatalf("foreign delete: %+v (%v)", got, err)
	}

	for i := 0; i < 2; i++ {
		got, err := st.SoftDelete(ctx, msg.ID, "alice")
		if err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
		if got == nil || !got.Deleted || got.Body != store.DeletedPlaceholder {
			t.Fatalf("delete #%d result: %+v", i+1, got)
		}
	}
}

func TestToggleReaction(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	msg := createMessage(t, st, "group_1", "alice", store.ReceiverGroup, "hi")

	if got, err := st.ToggleReaction(ctx, 9999, "bob", "👍"); err != nil || got != nil {
		t.Fatalf("missing message: %+v (%v)", got, err)
	}

	got, err := st.ToggleReaction(ctx, msg.ID, "bob", "👍")
	if err != nil || got.Reactions["bob"] != "👍" {
		t.Fatalf("set: %+v (%v)", got, err)
	}

	got, err = st.ToggleReaction(ctx, msg.ID, "bob", "❤️")
	if err != nil || got.Reactions["bob"] != "❤️" || len(got.Reactions) != 1 {
		t.Fatalf("replace: %+v (%v)", got, err)
	}

	got, err = st.ToggleReaction(ctx, msg.ID, "bob", "❤️")
	if err != nil || len(got.Reactions) != 0 {
		t.Fatalf("remove: %+v (%v)", got, err)
	}
}

func TestMarkRoomSeen(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	fromAlice := createMessage(t, st, "group_1", "alice", store.ReceiverGroup, "one")
	fromBob := createMessage(t, st, "group_1", "bob", store.ReceiverGroup, "two")
	createMessage(t, st, "group_2", "alice", store.ReceiverGroup, "elsewhere")

	updated, err := st.MarkRoomSeen(ctx, "group_1", "bob")
	if err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != fromAlice.ID || updated[0].Status != store.StatusSeen {
		t.Fatalf("unexpected updates: %+v", updated)
	}

	// Bob's own message is untouched.
	own, _ := st.GetMessageByID(ctx, fromBob.ID)
	if own.Status != store.StatusSent {
		t.Fatalf("reader's own message transitioned: %+v", own)
	}

	// Already-seen rows are not reported again.
	updated, err = st.MarkRoomSeen(ctx, "group_1", "bob")
	if err != nil || len(updated) != 0 {
		t.Fatalf("second mark: %+v (%v)", updated, err)
	}
}
