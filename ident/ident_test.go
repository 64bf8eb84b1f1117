package ident

import (
	"sync"
	"testing"
)

func TestAllocatorNeverRepeats(t *testing.T) {
	a := NewAllocator(0)
	seen := map[uint64]bool{}
	for range 100 {
		c := uint64(a.Coord())
		l := uint64(a.Layer())
		if seen[c] || seen[l] {
			t.Fatalf("identifier handed out twice")
		}
		seen[c], seen[l] = true, true
	}
	if seen[Null] {
		t.Errorf("null identifier handed out")
	}
}

func TestAllocatorSeed(t *testing.T) {
	a := NewAllocator(42)
	if got := a.Peek(); got != 42 {
		t.Errorf("got next %d, want 42", got)
	}
	if got := a.Coord(); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := a.Layer(); got != 43 {
		t.Errorf("got %d, want 43", got)
	}
}

func TestAllocatorConcurrent(t *testing.T) {
	a := NewAllocator(1)
	const workers = 8
	const perWorker = 1000
	ids := make([][]CoordID, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				ids[w] = append(ids[w], a.Coord())
			}
		}()
	}
	wg.Wait()
	seen := map[CoordID]bool{}
	for _, batch := range ids {
		for _, id := range batch {
			if seen[id] {
				t.Fatalf("identifier %s handed out twice", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != workers*perWorker {
		t.Errorf("got %d identifiers, want %d", len(seen), workers*perWorker)
	}
}

func TestReplay(t *testing.T) {
	a := NewAllocator(10)
	rec := Record(a)
	first := []CoordID{rec.Coord(), rec.Coord()}
	layer := rec.Layer()

	replay := rec.Rewind()
	if got := replay.Coord(); got != first[0] {
		t.Errorf("got %s, want %s", got, first[0])
	}
	if got := replay.Coord(); got != first[1] {
		t.Errorf("got %s, want %s", got, first[1])
	}
	if got := replay.Layer(); got != layer {
		t.Errorf("got %s, want %s", got, layer)
	}
	// exhausted, falls back to the allocator
	if got := replay.Coord(); got != 13 {
		t.Errorf("got %s, want c13", got)
	}
	// the recording itself is unaffected by replaying
	if got := len(rec.Rewind().Coords()); got != 2 {
		t.Errorf("got %d recorded coordinates, want 2", got)
	}
}
