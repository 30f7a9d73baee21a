package scheduler

import (
	"sort"
	"sync"
	"time"
)

// FlushLimit bounds Flush so a callback that keeps rescheduling itself cannot spin forever.
const FlushLimit = 100000

type task struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// Manual is a virtual-time scheduler. Callbacks run on the goroutine that calls
// Advance or Flush, in due-time order, ties broken by scheduling order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []task
}

// NewManual creates a scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc schedules fn to run d after the current virtual time.
func (m *Manual) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.pending = append(m.pending, task{at: m.now + d, seq: m.seq, fn: fn})
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at == m.pending[j].at {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].at < m.pending[j].at
	})
}

// next pops the earliest task due at or before limit.
func (m *Manual) next(limit time.Duration, bounded bool) (task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return task{}, false
	}
	t := m.pending[0]
	if bounded && t.at > limit {
		return task{}, false
	}
	m.pending = m.pending[1:]
	if t.at > m.now {
		m.now = t.at
	}
	return t, true
}

// Advance moves the clock forward by d, running every callback that becomes due,
// including ones scheduled by callbacks during the advance. It returns the
// number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	ran := 0
	for {
		t, ok := m.next(target, true)
		if !ok {
			break
		}
		t.fn()
		ran++
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
	return ran
}

// Flush runs callbacks until none are pending, jumping the clock as needed.
// It stops after FlushLimit callbacks.
func (m *Manual) Flush() int {
	ran := 0
	for ran < FlushLimit {
		t, ok := m.next(0, false)
		if !ok {
			break
		}
		t.fn()
		ran++
	}
	return ran
}

// Pending returns how many callbacks are waiting.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
