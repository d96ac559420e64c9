// Package loop runs editor work on a single cooperative goroutine.
//
// Every callback handed to an Executor runs on the executor's goroutine, one
// at a time, so the state it touches needs no locking. Work that may block
// (image decoding) runs through Async and reports back on the loop.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to scheduled work. Stop is synchronous: once it returns,
// no further invocation of the scheduled callback runs.
type Timer interface {
	Stop()
}

// Executor schedules callbacks onto a single goroutine.
type Executor interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// Async runs work off the loop and then queues done on it.
	Async(work func(), done func())
	// After runs fn on the loop once d has elapsed.
	After(d time.Duration, fn func()) Timer
	// Every runs fn on the loop each time d elapses until stopped.
	Every(d time.Duration, fn func()) Timer
}

// Loop is an unbounded work queue drained by Run. Posting never blocks;
// wake only nudges an idle Run.
type Loop struct {
	mu       sync.Mutex
	pending  []func()
	wake     chan struct{}
	inflight int
	idle     *sync.Cond
}

// New creates an idle loop. Call Run to start draining it.
func New() *Loop {
	l := &Loop{wake: make(chan struct{}, 1)}
	l.idle = sync.NewCond(&l.mu)
	return l
}

// Post implements Executor. It never blocks, so it is safe to call from the
// loop goroutine itself.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Async implements Executor.
func (l *Loop) Async(work func(), done func()) {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()
	go func() {
		work()
		l.Post(func() {
			defer l.finish()
			done()
		})
	}()
}

func (l *Loop) finish() {
	l.mu.Lock()
	l.inflight--
	if l.inflight == 0 {
		l.idle.Broadcast()
	}
	l.mu.Unlock()
}

// After implements Executor.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	return after(l.Post, d, fn)
}

// Every implements Executor.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	return every(l.Post, d, fn)
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *Loop) Do(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

// Sync waits until every Async task has completed on the loop and all work
// queued before the call has run. It must not be called from the loop
// goroutine.
func (l *Loop) Sync() {
	l.waitIdle()
	l.Do(func() {})
	l.waitIdle()
}

func (l *Loop) waitIdle() {
	l.mu.Lock()
	for l.inflight > 0 {
		l.idle.Wait()
	}
	l.mu.Unlock()
}

// Poster adapts any "run this on the UI thread" primitive into an Executor.
// The editor uses it to route work through the window's event queue.
type Poster func(fn func())

// Post implements Executor.
func (p Poster) Post(fn func()) { p(fn) }

// Async implements Executor.
func (p Poster) Async(work func(), done func()) {
	go func() {
		work()
		p(done)
	}()
}

// After implements Executor.
func (p Poster) After(d time.Duration, fn func()) Timer { return after(p, d, fn) }

// Every implements Executor.
func (p Poster) Every(d time.Duration, fn func()) Timer { return every(p, d, fn) }

type timer struct {
	stopped atomic.Bool
	quit    chan struct{}
	once    sync.Once
}

func newTimer() *timer { return &timer{quit: make(chan struct{})} }

func (t *timer) Stop() {
	t.stopped.Store(true)
	t.once.Do(func() { close(t.quit) })
}

func (t *timer) guard(fn func()) func() {
	return func() {
		if t.stopped.Load() {
			return
		}
		fn()
	}
}

func after(post func(func()), d time.Duration, fn func()) Timer {
	t := newTimer()
	go func() {
		tm := time.NewTimer(d)
		defer tm.Stop()
		select {
		case <-t.quit:
		case <-tm.C:
			post(t.guard(func() {
				t.stopped.Store(true)
				fn()
			}))
		}
	}()
	return t
}

func every(post func(func()), d time.Duration, fn func()) Timer {
	t := newTimer()
	go func() {
		tk := time.NewTicker(d)
		defer tk.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-tk.C:
				post(t.guard(fn))
			}
		}
	}()
	return t
}
