// Package looptest provides a deterministic executor for tests.
package looptest

import (
	"sync"
	"time"

	"github.com/example/cartoonlab/internal/loop"
)

// Manual is a loop.Executor whose queue and timers only advance when the
// test says so. Async work runs immediately on the calling goroutine; its
// completion is queued like any other post.
type Manual struct {
	mu     sync.Mutex
	queue  []func()
	timers []*timer
}

var _ loop.Executor = (*Manual)(nil)

type timer struct {
	fn      func()
	every   bool
	d       time.Duration
	stopped bool
}

func (t *timer) Stop() { t.stopped = true }

// Post implements loop.Executor.
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Async implements loop.Executor.
func (m *Manual) Async(work func(), done func()) {
	work()
	m.Post(done)
}

// After implements loop.Executor.
func (m *Manual) After(d time.Duration, fn func()) loop.Timer {
	return m.add(&timer{fn: fn, d: d})
}

// Every implements loop.Executor.
func (m *Manual) Every(d time.Duration, fn func()) loop.Timer {
	return m.add(&timer{fn: fn, d: d, every: true})
}

func (m *Manual) add(t *timer) *timer {
	m.mu.Lock()
	m.timers = append(m.timers, t)
	m.mu.Unlock()
	return t
}

// Pending reports how many queued callbacks have not run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Flush runs queued callbacks, including any they queue, until the queue
// is empty. It returns the number of callbacks run.
func (m *Manual) Flush() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
		n++
	}
}

// Reverse reorders the queue so the most recently posted callback runs
// first. Tests use it to simulate out-of-order completions.
func (m *Manual) Reverse() {
	m.mu.Lock()
	for i, j := 0, len(m.queue)-1; i < j; i, j = i+1, j-1 {
		m.queue[i], m.queue[j] = m.queue[j], m.queue[i]
	}
	m.mu.Unlock()
}

// Tick fires every live timer once. One-shot timers are retired after
// firing. It returns the number of callbacks fired.
func (m *Manual) Tick() int {
	m.mu.Lock()
	live := make([]*timer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.timers = live
	m.mu.Unlock()
	n := 0
	for _, t := range live {
		if t.stopped {
			continue
		}
		if !t.every {
			t.stopped = true
		}
		t.fn()
		n++
	}
	return n
}

// Active reports how many timers are still scheduled.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
