package core

// Client is one live connection as seen by the core layer. A single user
// may own several clients at once (multi-device).
type Client struct {
	ID     string
	Name   string
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id, name string) *Client {
	return &Client{
		ID:     id,
		Name:   name,
		Events: make(chan *Event, 32),
	}
}

// send delivers an event without blocking the caller.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
