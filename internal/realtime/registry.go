// Package realtime pushes poll changes to live clients. The Registry owns the
// set of connections; the Hub fans events out to them without ever blocking
// the caller that produced the event.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transport is the write side of one client connection.
type Transport interface {
	WriteMessage(payload []byte) error
	Close() error
}

type Connection struct {
	ID        string
	CreatedAt time.Time

	transport Transport
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Done is closed once the connection has been disconnected or evicted.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.transport.Close()
	})
}

type Registry struct {
	mu         sync.RWMutex
	conns      map[string]*Connection
	sendBuffer int
}

func NewRegistry(sendBuffer int) *Registry {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	return &Registry{
		conns:      make(map[string]*Connection),
		sendBuffer: sendBuffer,
	}
}

func (r *Registry) Register(t Transport) *Connection {
	c := &Connection{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		transport: t,
		send:      make(chan []byte, r.sendBuffer),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	r.conns[c.ID] = c
	r.mu.Unlock()
	return c
}

// Unregister reports whether id was registered. Unknown ids are a no-op.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	return true
}

func (r *Registry) Get(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// Snapshot returns the connections registered at the time of the call.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
