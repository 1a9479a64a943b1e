/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sched implements the single-slot delayed action used to turn a
// press-and-hold into a drag start.
package sched

import (
	"sync"
	"time"
)

// Scheduler runs at most one deferred action at a time. Scheduling replaces
// any pending action. A canceled action never runs.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
	Cancel()
}

// Timer is a Scheduler backed by time.AfterFunc. Fired actions are handed to
// Dispatch so they run on the UI goroutine; a nil Dispatch runs them on the
// timer goroutine. Cancellation is re-checked when the dispatched action
// runs, so an action queued just before Cancel still has no effect.
type Timer struct {
	Dispatch func(func())

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewTimer returns a Timer dispatching through dispatch.
func NewTimer(dispatch func(func())) *Timer { return &Timer{Dispatch: dispatch} }

func (t *Timer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		run := func() {
			t.mu.Lock()
			live := t.gen == gen
			if live {
				t.timer = nil
			}
			t.mu.Unlock()
			if live {
				fn()
			}
		}
		if t.Dispatch != nil {
			t.Dispatch(run)
			return
		}
		run()
	})
}

func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Pending reports whether an action is scheduled and not yet run or canceled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *Timer) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Manual is a Scheduler driven by Advance, for tests and simulations.
type Manual struct {
	now     time.Duration
	due     time.Duration
	pending func()
}

func (m *Manual) Schedule(d time.Duration, fn func()) {
	m.due = m.now + d
	m.pending = fn
}

func (m *Manual) Cancel() { m.pending = nil }

// Pending reports whether an action is waiting.
func (m *Manual) Pending() bool { return m.pending != nil }

// Advance moves the clock forward and runs the pending action if it came due.
func (m *Manual) Advance(d time.Duration) {
	m.now += d
	if m.pending != nil && m.now >= m.due {
		fn := m.pending
		m.pending = nil
		fn()
	}
}
