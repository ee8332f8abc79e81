package realtime

import (
	"sync"
	"testing"
)

func TestRegistryConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry(4)

	const workers = 100
	var wg sync.WaitGroup
	ids := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := r.Register(newFakeTransport())
			_ = r.Snapshot()
			ids <- c.ID
		}()
	}
	wg.Wait()
	close(ids)

	if r.Len() != workers {
		t.Fatalf("expected %d connections, got %d", workers, r.Len())
	}

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate connection id %s", id)
		}
		seen[id] = true
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Unregister(id)
		}(id)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(1)
	c := r.Register(newFakeTransport())

	if !r.Unregister(c.ID) {
		t.Fatalf("expected first unregister to report true")
	}
	if r.Unregister(c.ID) {
		t.Fatalf("expected second unregister to report false")
	}
	if r.Unregister("missing") {
		t.Fatalf("expected unknown id to report false")
	}
}

func TestRegistrySnapshotIsPointInTime(t *testing.T) {
	r := NewRegistry(1)
	a := r.Register(newFakeTransport())
	r.Register(newFakeTransport())

	snap := r.Snapshot()
	r.Unregister(a.ID)
	r.Register(newFakeTransport())

	if len(snap) != 2 {
		t.Fatalf("snapshot changed after the fact: %d", len(snap))
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 live connections, got %d", r.Len())
	}
}
