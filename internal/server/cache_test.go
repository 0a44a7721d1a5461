package server

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mj1618/a11y-bridge/internal/model"
)

func TestTreeCache_TTL(t *testing.T) {
	var reads int
	read := func() []model.Element {
		reads++
		return []model.Element{{ID: "root"}}
	}

	c := NewTreeCache(time.Hour)
	c.Tree(read)
	c.Tree(read)
	if reads != 1 {
		t.Errorf("reads = %d, want 1", reads)
	}
	c.Invalidate()
	c.Tree(read)
	if reads != 2 {
		t.Errorf("reads after invalidate = %d, want 2", reads)
	}
}

func TestTreeCache_ZeroTTL(t *testing.T) {
	var reads int
	c := NewTreeCache(0)
	for range 3 {
		c.Tree(func() []model.Element { reads++; return nil })
	}
	if reads != 3 {
		t.Errorf("reads = %d, want 3", reads)
	}
}

func TestTreeCache_CollapsesConcurrentReads(t *testing.T) {
	var reads atomic.Int32
	release := make(chan struct{})
	read := func() []model.Element {
		reads.Add(1)
		<-release
		return []model.Element{{ID: "root"}}
	}

	c := NewTreeCache(0)
	var wg sync.WaitGroup
	started := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started)
		c.Tree(read)
	}()
	<-started
	// Give the first reader time to enter the shared call.
	time.Sleep(20 * time.Millisecond)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Tree(read); len(got) != 1 {
				t.Errorf("got %v", got)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	if n := reads.Load(); n != 1 {
		t.Errorf("reads = %d, want 1", n)
	}
}

func TestTreeCache_StaleReadNotStored(t *testing.T) {
	c := NewTreeCache(time.Hour)
	c.Tree(func() []model.Element {
		c.Invalidate()
		return []model.Element{{ID: "stale"}}
	})
	got := c.Tree(func() []model.Element { return []model.Element{{ID: "fresh"}} })
	if got[0].ID != "fresh" {
		t.Errorf("got %q", got[0].ID)
	}
}
