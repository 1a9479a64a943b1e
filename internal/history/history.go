/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history keeps undo/redo stacks of completed drag reorders.
package history

import (
	"sync"
	"time"
)

// Slot names a (page, index) position.
type Slot struct{ Page, Index int }

// Move records one element relocation.
type Move struct {
	Element string
	From    Slot
	To      Slot
	TS      time.Time
}

// Inverse returns the move that takes the element back.
func (m Move) Inverse() Move { return Move{Element: m.Element, From: m.To, To: m.From, TS: m.TS} }

// Config controls depth caps and coalescing.
type Config struct {
	// MaxDepth limits the number of undo entries kept (0 means the default of 100).
	MaxDepth int
	// MinInterval merges moves of the same element recorded within the
	// interval into one entry spanning the first From and the latest To.
	MinInterval time.Duration
}

// Manager is an undo/redo stack of moves. It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Move
	redo []Move
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	return &Manager{cfg: cfg}
}

// Push records a completed move and clears the redo stack. A move whose From
// equals its To is ignored.
func (m *Manager) Push(mv Move) {
	if mv.From == mv.To {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if n := len(m.undo); n > 0 && m.cfg.MinInterval > 0 {
		last := m.undo[n-1]
		if last.Element == mv.Element && mv.TS.Sub(last.TS) < m.cfg.MinInterval {
			last.To = mv.To
			last.TS = mv.TS
			if last.From == last.To {
				m.undo = m.undo[:n-1]
			} else {
				m.undo[n-1] = last
			}
			return
		}
	}
	m.undo = append(m.undo, mv)
	if over := len(m.undo) - m.cfg.MaxDepth; over > 0 {
		m.undo = append([]Move(nil), m.undo[over:]...)
	}
}

// Undo pops the latest move and moves it onto the redo stack.
func (m *Manager) Undo() (Move, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undo)
	if n == 0 {
		return Move{}, false
	}
	mv := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, mv)
	return mv, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo() (Move, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redo)
	if n == 0 {
		return Move{}, false
	}
	mv := m.redo[n-1]
	m.redo = m.redo[:n-1]
	m.undo = append(m.undo, mv)
	return mv, true
}

// Clear drops both stacks, e.g. after a structural change made the
// recorded slots meaningless.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
}

// Stats returns stack depths for diagnostics.
func (m *Manager) Stats() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}
