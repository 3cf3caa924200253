// Package clock provides replaceable time sources
package clock

import "time"

// System reads the wall clock in UTC
type System struct{}

// Now returns the current UTC time
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Tests move it with Set or Advance.
type Fixed struct {
	t time.Time
}

// NewFixed creates a clock frozen at t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t.UTC()}
}

// Now returns the frozen instant
func (f *Fixed) Now() time.Time { return f.t }

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) { f.t = t.UTC() }

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }
