package core

import "testing"

func TestClientSendDropsWhenBufferFull(t *testing.T) {
	c := NewClient("a", "alice")

	// Overfill well past the buffer; send must never block.
	for i := 0; i < cap(c.Events)+10; i++ {
		c.send(&Event{Kind: EventTyping, Room: "group_1"})
	}

	if len(c.Events) != cap(c.Events) {
		t.Fatalf("buffered %d events, want %d", len(c.Events), cap(c.Events))
	}
}
