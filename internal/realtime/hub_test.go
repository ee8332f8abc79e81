package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTransport struct {
	got       chan []byte
	fail      error
	block     chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{got: make(chan []byte, 128), closed: make(chan struct{})}
}

func newBlockingTransport() *fakeTransport {
	t := newFakeTransport()
	t.block = make(chan struct{})
	return t
}

func newFailingTransport() *fakeTransport {
	t := newFakeTransport()
	t.fail = errors.New("broken pipe")
	return t
}

func (f *fakeTransport) WriteMessage(payload []byte) error {
	if f.block != nil {
		<-f.block
		return errors.New("closed while writing")
	}
	if f.fail != nil {
		return f.fail
	}
	f.got <- append([]byte(nil), payload...)
	return nil
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() {
		close(f.closed)
		if f.block != nil {
			close(f.block)
		}
	})
	return nil
}

func (f *fakeTransport) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

type frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func recv(t *testing.T, f *fakeTransport) frame {
	t.Helper()
	select {
	case raw := <-f.got:
		var fr frame
		if err := json.Unmarshal(raw, &fr); err != nil {
			t.Fatalf("decode frame %s: %v", raw, err)
		}
		return fr
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for frame")
		return frame{}
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	h := NewHub(opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		h.Close()
	})
	return h
}

func voteEvent(total int64) Event {
	return Event{Type: TypeVoteUpdate, Data: VoteUpdate{PollID: 1, OptionID: 2, VoteCount: total, TotalVotes: total}}
}

func TestConnectGreetsClient(t *testing.T) {
	h := NewHub(Options{})
	defer h.Close()
	ft := newFakeTransport()

	c := h.Connect(ft)
	fr := recv(t, ft)
	if fr.Type != TypeConnected || fr.Data["client_id"] != c.ID || fr.Data["message"] == "" {
		t.Fatalf("unexpected greeting %+v", fr)
	}
	if h.Registry().Len() != 1 {
		t.Fatalf("expected one registered connection")
	}
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	h := startHub(t, Options{})
	clients := []*fakeTransport{newFakeTransport(), newFakeTransport(), newFakeTransport()}
	for _, ft := range clients {
		h.Connect(ft)
		recv(t, ft)
	}

	if !h.Broadcast(voteEvent(3)) {
		t.Fatalf("expected broadcast to be queued")
	}
	for i, ft := range clients {
		fr := recv(t, ft)
		if fr.Type != TypeVoteUpdate || fr.Data["total_votes"] != float64(3) || fr.Data["poll_id"] != float64(1) {
			t.Fatalf("client %d got %+v", i, fr)
		}
	}
}

func TestFailingConnectionEvictedOthersReceive(t *testing.T) {
	h := startHub(t, Options{})
	good1, bad, good2 := newFakeTransport(), newFailingTransport(), newFakeTransport()

	h.Connect(good1)
	h.Connect(bad)
	h.Connect(good2)
	recv(t, good1)
	recv(t, good2)

	h.Broadcast(voteEvent(1))
	recv(t, good1)
	recv(t, good2)

	eventually(t, bad.isClosed)
	eventually(t, func() bool { return h.Registry().Len() == 2 })

	h.Broadcast(voteEvent(2))
	if fr := recv(t, good1); fr.Data["total_votes"] != float64(2) {
		t.Fatalf("unexpected frame after eviction %+v", fr)
	}
	if fr := recv(t, good2); fr.Data["total_votes"] != float64(2) {
		t.Fatalf("unexpected frame after eviction %+v", fr)
	}
}

func TestSlowConsumerIsEvicted(t *testing.T) {
	const buffer = 4
	h := startHub(t, Options{SendBuffer: buffer})
	healthy, slow := newFakeTransport(), newBlockingTransport()

	h.Connect(healthy)
	slowConn := h.Connect(slow)
	recv(t, healthy)

	for i := 1; i <= buffer+3; i++ {
		if !h.Broadcast(voteEvent(int64(i))) {
			t.Fatalf("broadcast %d dropped", i)
		}
		if fr := recv(t, healthy); fr.Data["total_votes"] != float64(i) {
			t.Fatalf("expected event %d, got %+v", i, fr)
		}
	}

	eventually(t, slow.isClosed)
	if _, ok := h.Registry().Get(slowConn.ID); ok {
		t.Fatalf("slow connection should be unregistered")
	}
	select {
	case <-slowConn.Done():
	default:
		t.Fatalf("expected slow connection to be done")
	}
	if h.Registry().Len() != 1 {
		t.Fatalf("expected only the healthy connection to remain, got %d", h.Registry().Len())
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	h := NewHub(Options{QueueSize: 2})
	defer h.Close()

	start := time.Now()
	results := []bool{h.Broadcast(voteEvent(1)), h.Broadcast(voteEvent(2)), h.Broadcast(voteEvent(3))}
	if time.Since(start) > time.Second {
		t.Fatalf("broadcast blocked")
	}
	if !results[0] || !results[1] || results[2] {
		t.Fatalf("expected the third event to be dropped, got %v", results)
	}
}

func TestEventsArriveInOrder(t *testing.T) {
	const n = 50
	h := startHub(t, Options{QueueSize: n, SendBuffer: n + 1})
	ft := newFakeTransport()
	h.Connect(ft)
	recv(t, ft)

	for i := 1; i <= n; i++ {
		h.Broadcast(voteEvent(int64(i)))
	}
	for i := 1; i <= n; i++ {
		if fr := recv(t, ft); fr.Data["total_votes"] != float64(i) {
			t.Fatalf("event %d out of order: %+v", i, fr)
		}
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	h := NewHub(Options{})
	defer h.Close()
	ft := newFakeTransport()
	c := h.Connect(ft)

	h.Disconnect(c.ID)
	h.Disconnect(c.ID)
	h.Disconnect("unknown")

	if !ft.isClosed() || h.Registry().Len() != 0 {
		t.Fatalf("expected the connection to be closed and unregistered")
	}
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	h := NewHub(Options{})
	a, b := newFakeTransport(), newFakeTransport()
	h.Connect(a)
	h.Connect(b)

	h.Close()

	if !a.isClosed() || !b.isClosed() || h.Registry().Len() != 0 {
		t.Fatalf("expected every connection closed")
	}
	if h.Broadcast(voteEvent(1)) {
		t.Fatalf("expected broadcast after close to be dropped")
	}
	late := newFakeTransport()
	h.Connect(late)
	if !late.isClosed() {
		t.Fatalf("expected connections after close to be refused")
	}
}
