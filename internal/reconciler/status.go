package reconciler

import (
	"sync"
	"time"
)

// Status is the observable phase of a save: idle until a write starts,
// saving while one is in flight, then saved or error for a short display
// window before returning to idle.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// StatusTracker owns the save-status state machine. Terminal states fall
// back to idle on their own after displayFor; a new Begin cancels any
// pending fallback.
type StatusTracker struct {
	mu         sync.Mutex
	current    Status
	displayFor time.Duration
	timer      *time.Timer
	onChange   func(Status)
}

// NewStatusTracker builds a tracker starting at idle. onChange may be
// nil; when set it is called on every transition, including the delayed
// return to idle.
func NewStatusTracker(displayFor time.Duration, onChange func(Status)) *StatusTracker {
	return &StatusTracker{
		current:    StatusIdle,
		displayFor: displayFor,
		onChange:   onChange,
	}
}

// Current returns the current status.
func (t *StatusTracker) Current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Begin marks a write as in flight.
func (t *StatusTracker) Begin() {
	t.set(StatusSaving)
}

// Finish records the outcome of the in-flight write and schedules the
// return to idle.
func (t *StatusTracker) Finish(err error) {
	if err != nil {
		t.set(StatusError)
	} else {
		t.set(StatusSaved)
	}
	t.mu.Lock()
	t.timer = time.AfterFunc(t.displayFor, t.reset)
	t.mu.Unlock()
}

func (t *StatusTracker) reset() {
	t.mu.Lock()
	// A newer write may have started while the timer was pending.
	if t.current != StatusSaved && t.current != StatusError {
		t.mu.Unlock()
		return
	}
	t.current = StatusIdle
	cb := t.onChange
	t.mu.Unlock()
	if cb != nil {
		cb(StatusIdle)
	}
}

func (t *StatusTracker) set(s Status) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = s
	cb := t.onChange
	t.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}
