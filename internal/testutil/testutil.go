// Package testutil holds small helpers shared across package tests.
package testutil

import (
	"sync"
	"time"
)

// Clock is a settable wall clock for tests. Its Now method has the
// signature services expect from their clock option.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock pins the clock at t.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// AdvanceDays moves the clock forward by whole days.
func (c *Clock) AdvanceDays(days int) {
	c.Advance(time.Duration(days) * 24 * time.Hour)
}
