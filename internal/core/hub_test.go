package core

import (
	"context"
	"reflect"
	"testing"
)

func TestHubJoinBroadcastsRoster(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(nil, testLogger())

	alice := NewClient("a", "alice")
	bob := NewClient("b", "bob")
	hub.Register(ctx, alice)
	hub.Register(ctx, bob)

	hub.Dispatch(ctx, alice, &Command{Kind: CommandJoinRoom, Room: "group_1"})
	ev := mustEvent(t, alice.Events, EventGroupOnlineUsers)
	if !reflect.DeepEqual(ev.Users, []string{"alice"}) {
		t.Fatalf("unexpected roster: %+v", ev.Users)
	}

	hub.Dispatch(ctx, bob, &Command{Kind: CommandJoinRoom, Room: "group_1"})
	ev = mustEvent(t, alice.Events, EventGroupOnlineUsers)
	if !reflect.DeepEqual(ev.Users, []string{"alice", "bob"}) {
		t.Fatalf("unexpected roster: %+v", ev.Users)
	}
}

func TestHubTypingRelay(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(nil, testLogger())

	alice := NewClient("a", "alice")
	bob := NewClient("b", "bob")
	hub.Register(ctx, alice)
	hub.Register(ctx, bob)
	hub.Dispatch(ctx, alice, &Command{Kind: CommandJoinRoom, Room: "group_1"})
	hub.Dispatch(ctx, bob, &Command{Kind: CommandJoinRoom, Room: "group_1"})

	hub.Dispatch(ctx, alice, &Command{Kind: CommandTyping, Room: "group_1"})
	ev := mustEvent(t, bob.Events, EventTyping)
	if ev.User != "alice" || ev.Room != "group_1" {
		t.Fatalf("unexpected typing event: %+v", ev)
	}
	// The typist does not hear their own typing notice.
	expectNoEvent(t, alice.Events, EventTyping)

	hub.Dispatch(ctx, alice, &Command{Kind: CommandStopTyping, Room: "group_1"})
	ev = mustEvent(t, bob.Events, EventStopTyping)
	if ev.Room != "group_1" {
		t.Fatalf("unexpected stop typing event: %+v", ev)
	}
}

func TestHubDisconnectRebroadcastsRoster(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(nil, testLogger())

	alice := NewClient("a", "alice")
	bob := NewClient("b", "bob")
	hub.Register(ctx, alice)
	hub.Register(ctx, bob)
	hub.Dispatch(ctx, alice, &Command{Kind: CommandJoinRoom, Room: "group_1"})
	hub.Dispatch(ctx, bob, &Command{Kind: CommandJoinRoom, Room: "group_1"})
	mustEvent(t, bob.Events, EventGroupOnlineUsers)

	hub.Unregister(ctx, alice)

	ev := mustEvent(t, bob.Events, EventGroupOnlineUsers)
	if !reflect.DeepEqual(ev.Users, []string{"bob"}) {
		t.Fatalf("unexpected roster after disconnect: %+v", ev.Users)
	}
	status := mustEvent(t, bob.Events, EventUserStatus)
	if status.User != "alice" || status.Online {
		t.Fatalf("unexpected status event: %+v", status)
	}
}

func TestHubUnknownCommandProducesError(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(nil, testLogger())

	alice := NewClient("a", "alice")
	hub.Register(ctx, alice)

	hub.Dispatch(ctx, alice, &Command{Kind: CommandKind(99)})
	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeUnknownType {
		t.Fatalf("expected invalid_message error, got %+v", ev)
	}
}

func TestHubJoinWithoutRoomProducesError(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(nil, testLogger())

	alice := NewClient("a", "alice")
	hub.Register(ctx, alice)

	hub.Dispatch(ctx, alice, &Command{Kind: CommandJoinRoom})
	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", ev)
	}
}
