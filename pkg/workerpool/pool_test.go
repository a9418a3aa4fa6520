package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGroupRunsAllTasks(t *testing.T) {
	p := New(3)
	defer p.StopWait()

	var n int32
	g := p.NewGroup()
	for i := 0; i < 20; i++ {
		g.Go(func() { atomic.AddInt32(&n, 1) })
	}
	g.Wait()

	if n != 20 {
		t.Fatalf("expected 20 tasks to run, got %d", n)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := New(2)
	defer p.StopWait()

	var mu sync.Mutex
	inFlight, peak := 0, 0
	release := make(chan struct{})

	g := p.NewGroup()
	for i := 0; i < 6; i++ {
		g.Go(func() {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()
			<-release
			mu.Lock()
			inFlight--
			mu.Unlock()
		})
	}
	close(release)
	g.Wait()

	if peak > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}
