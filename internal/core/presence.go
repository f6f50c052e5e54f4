package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// Presence tracks which users currently have live connections. A user is
// online iff their connection set is non-empty; online/offline events
// fire only on the 0<->1 transition of that set.
type Presence struct {
	mu    sync.Mutex
	users map[string]map[*Client]struct{}

	directory store.UserStore
	log       *zerolog.Logger
}

// NewPresence creates an empty presence registry. The directory may be
// nil, in which case online/last-seen flags are not persisted.
func NewPresence(directory store.UserStore, logger *zerolog.Logger) *Presence {
	return &Presence{
		users:     make(map[string]map[*Client]struct{}),
		directory: directory,
		log:       logger,
	}
}

// Register adds a connection to the user's set. On the first connection
// the user is marked online in the directory and an online status event
// is broadcast to every connected client.
func (p *Presence) Register(ctx context.Context, c *Client) {
	p.mu.Lock()
	set, ok := p.users[c.Name]
	if !ok {
		set = make(map[*Client]struct{})
		p.users[c.Name] = set
	}
	set[c] = struct{}{}
	wentOnline := len(set) == 1
	targets := p.allClientsLocked()
	p.mu.Unlock()

	if !wentOnline {
		return
	}

	if p.directory != nil {
		// Presence is advisory; a directory failure must not block the
		// in-memory broadcast.
		if err := p.directory.SetOnline(ctx, c.Name, true); err != nil {
			p.log.Warn().Err(err).Str("user", c.Name).Msg("failed to persist online flag")
		}
	}

	ev := &Event{Kind: EventUserStatus, User: c.Name, Online: true}
	for _, target := range targets {
		target.send(ev)
	}
}

// Unregister removes a connection from the user's set. When the last
// connection goes away the user is marked offline with a last-seen
// timestamp and an offline status event is broadcast.
func (p *Presence) Unregister(ctx context.Context, c *Client) {
	p.mu.Lock()
	set, ok := p.users[c.Name]
	if ok {
		delete(set, c)
		if len(set) == 0 {
			delete(p.users, c.Name)
		}
	}
	wentOffline := ok && len(set) == 0
	targets := p.allClientsLocked()
	p.mu.Unlock()

	if !wentOffline {
		return
	}

	lastSeen := time.Now()
	if p.directory != nil {
		if err := p.directory.SetOnline(ctx, c.Name, false); err != nil {
			p.log.Warn().Err(err).Str("user", c.Name).Msg("failed to persist offline flag")
		}
		if err := p.directory.SetLastSeen(ctx, c.Name, lastSeen); err != nil {
			p.log.Warn().Err(err).Str("user", c.Name).Msg("failed to persist last seen")
		}
	}

	ev := &Event{Kind: EventUserStatus, User: c.Name, Online: false, LastSeen: &lastSeen}
	for _, target := range targets {
		target.send(ev)
	}
}

// IsOnline reports whether the user has at least one live connection.
func (p *Presence) IsOnline(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users[name]) > 0
}

// ConnectionsFor returns every live connection owned by the user.
func (p *Presence) ConnectionsFor(name string) []*Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	set := p.users[name]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

func (p *Presence) allClientsLocked() []*Client {
	var clients []*Client
	for _, set := range p.users {
		for c := range set {
			clients = append(clients, c)
		}
	}
	return clients
}
