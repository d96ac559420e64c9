package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func TestPostRunsInOrder(t *testing.T) {
	l := startLoop(t)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Do(func() {})
	for i, v := range got {
		if v != i {
			t.Fatalf("order mismatch: %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 callbacks, got %d", len(got))
	}
}

func TestAsyncDoneRunsOnLoop(t *testing.T) {
	l := startLoop(t)
	var worked atomic.Bool
	doneCalled := false
	l.Async(func() { worked.Store(true) }, func() { doneCalled = true })
	l.Sync()
	if !worked.Load() {
		t.Fatalf("work did not run")
	}
	var seen bool
	l.Do(func() { seen = doneCalled })
	if !seen {
		t.Fatalf("done did not run before Sync returned")
	}
}

func TestStoppedTimerNeverFires(t *testing.T) {
	l := startLoop(t)
	var fired atomic.Int32
	tm := l.Every(time.Millisecond, func() { fired.Add(1) })
	time.Sleep(10 * time.Millisecond)
	l.Do(func() { tm.Stop() })
	before := fired.Load()
	time.Sleep(10 * time.Millisecond)
	l.Do(func() {})
	if after := fired.Load(); after != before {
		t.Fatalf("timer fired after Stop: %d -> %d", before, after)
	}
}

func TestAfterFiresOnce(t *testing.T) {
	l := startLoop(t)
	ch := make(chan struct{}, 2)
	l.After(time.Millisecond, func() { ch <- struct{}{} })
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("After did not fire")
	}
	time.Sleep(5 * time.Millisecond)
	l.Do(func() {})
	if len(ch) != 0 {
		t.Fatalf("After fired more than once")
	}
}

func TestPosterAdapter(t *testing.T) {
	l := startLoop(t)
	p := Poster(l.Post)
	ch := make(chan int, 1)
	p.Async(func() {}, func() { ch <- 7 })
	select {
	case v := <-ch:
		if v != 7 {
			t.Fatalf("unexpected %d", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("poster done never ran")
	}
}
