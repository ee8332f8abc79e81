package realtime

import (
	"context"
	"log/slog"
	"sync"

	"quickpoll/internal/metrics"
)

const (
	evictWriteError   = "write_error"
	evictSlowConsumer = "slow_consumer"
)

type Options struct {
	// QueueSize bounds events waiting for the dispatcher.
	QueueSize int
	// SendBuffer bounds frames waiting for one connection's writer.
	SendBuffer int
	Logger     *slog.Logger
}

type Hub struct {
	reg   *Registry
	queue chan Event
	log   *slog.Logger

	mu       sync.RWMutex
	closed   bool
	stop     chan struct{}
	stopOnce sync.Once
}

func NewHub(opts Options) *Hub {
	if opts.QueueSize < 1 {
		opts.QueueSize = 1024
	}
	if opts.SendBuffer < 1 {
		opts.SendBuffer = 32
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Hub{
		reg:   NewRegistry(opts.SendBuffer),
		queue: make(chan Event, opts.QueueSize),
		log:   opts.Logger,
		stop:  make(chan struct{}),
	}
}

func (h *Hub) Registry() *Registry {
	return h.reg
}

// Connect registers t, starts its writer and greets it with its client id.
func (h *Hub) Connect(t Transport) *Connection {
	c := h.reg.Register(t)
	metrics.SetConnections(h.reg.Len())

	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		h.Disconnect(c.ID)
		return c
	}

	go h.writeLoop(c)

	frame, err := encode(Event{
		Type: TypeConnected,
		Data: Connected{ClientID: c.ID, Message: "connected to live poll updates"},
	})
	if err != nil {
		h.log.Error("encode connected event", "err", err)
		return c
	}
	select {
	case c.send <- frame:
	default:
	}

	h.log.Debug("client connected", "client_id", c.ID, "clients", h.reg.Len())
	return c
}

// Disconnect unregisters and closes the connection. Safe to call repeatedly.
func (h *Hub) Disconnect(id string) {
	c, ok := h.reg.Get(id)
	if !ok {
		return
	}
	if h.reg.Unregister(id) {
		c.close()
		metrics.SetConnections(h.reg.Len())
		h.log.Debug("client disconnected", "client_id", id, "clients", h.reg.Len())
	}
}

// Broadcast queues ev for fan-out and returns immediately. It reports false
// when the event was dropped because the queue is full or the hub is closed.
func (h *Hub) Broadcast(ev Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		metrics.IncBroadcastDropped()
		return false
	}
	select {
	case h.queue <- ev:
		return true
	default:
		metrics.IncBroadcastDropped()
		h.log.Warn("broadcast queue full, event dropped", "type", ev.Type)
		return false
	}
}

// Run dispatches queued events until ctx is done or Close is called.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case ev := <-h.queue:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) dispatch(ev Event) {
	frame, err := encode(ev)
	if err != nil {
		h.log.Error("encode event", "type", ev.Type, "err", err)
		return
	}

	for _, c := range h.reg.Snapshot() {
		select {
		case c.send <- frame:
		default:
			h.evict(c, evictSlowConsumer, nil)
		}
	}
	metrics.IncBroadcast(ev.Type)
}

func (h *Hub) writeLoop(c *Connection) {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			if err := c.transport.WriteMessage(frame); err != nil {
				h.evict(c, evictWriteError, err)
				return
			}
		}
	}
}

func (h *Hub) evict(c *Connection, reason string, err error) {
	if !h.reg.Unregister(c.ID) {
		return
	}
	c.close()
	metrics.IncEviction(reason)
	metrics.SetConnections(h.reg.Len())
	h.log.Warn("client evicted", "client_id", c.ID, "reason", reason, "err", err)
}

// Close stops the dispatcher and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.stopOnce.Do(func() { close(h.stop) })

	for _, c := range h.reg.Snapshot() {
		h.Disconnect(c.ID)
	}
}
