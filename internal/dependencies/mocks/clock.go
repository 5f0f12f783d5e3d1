package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/scrimqueue/draftlobby/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Scheduled
// callbacks fire synchronously from Advance, in due order.
type MockClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending []*mockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

type mockTimer struct {
	clk     *MockClock
	id      int
	at      time.Time
	f       func()
	stopped bool
}

func (t *mockTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run when the clock is advanced past d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &mockTimer{clk: c, id: c.nextID, at: c.now.Add(d), f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by the given duration, firing any
// callbacks that come due, in schedule order
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	deadline := c.now

	var due []*mockTimer
	var remaining []*mockTimer
	for _, t := range c.pending {
		if !t.stopped && !t.at.After(deadline) {
			due = append(due, t)
		} else if !t.stopped {
			remaining = append(remaining, t)
		}
	}
	c.pending = remaining
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].id < due[j].id
		}
		return due[i].at.Before(due[j].at)
	})
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Set sets the clock to the given time without firing callbacks
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// PendingCount returns the number of scheduled, unfired callbacks
func (c *MockClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, t := range c.pending {
		if !t.stopped {
			count++
		}
	}
	return count
}
