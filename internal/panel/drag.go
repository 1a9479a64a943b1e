/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel

import (
	"fmt"
	"log/slog"
	"time"

	"pagegrid/internal/geom"
	"pagegrid/internal/history"
)

// Session is the state of one drag gesture, from start to release. The
// recognizer hands it back on every move and on release; a session that is
// no longer current is rejected.
type Session struct {
	id      uint64
	el      Element
	grab    geom.Pt // pointer offset inside the element, already scaled
	origin  Slot    // slot when the drag began
	source  Slot    // slot the element occupies now
	scale   float32
	opacity float32
}

func (s *Session) ID() uint64          { return s.id }
func (s *Session) Element() Element    { return s.el }
func (s *Session) Origin() Slot        { return s.origin }
func (s *Session) Source() Slot        { return s.source }
func (s *Session) Opacity() float32    { return s.opacity }
func (s *Session) Scale() float32      { return s.scale }
func (s *Session) GrabOffset() geom.Pt { return s.grab }

// DragController is the Idle/Dragging state machine. It is Dragging exactly
// while session is non-nil.
type DragController struct {
	p       *Panel
	session *Session
	lastID  uint64
	moving  bool
}

// Dragging reports whether a session is active.
func (d *DragController) Dragging() bool { return d.session != nil }

// Session returns the active session or nil.
func (d *DragController) Session() *Session { return d.session }

func (d *DragController) isDragging(el Element) bool {
	return d.session != nil && d.session.el == el
}

// Start lifts el out of the layout. origin is the grab point in element
// coordinates and position the same point in panel coordinates.
func (d *DragController) Start(el Element, origin, position geom.Pt) (*Session, error) {
	p := d.p
	if el == nil {
		return nil, ErrNilElement
	}
	if d.session != nil {
		return nil, ErrDragInProgress
	}
	slot, ok := p.SlotOf(el)
	if !ok {
		return nil, fmt.Errorf("start drag of %s: %w", el.ID(), ErrUnknownElement)
	}
	if at, ok := d.resolve(position, false); !ok || at != slot {
		p.log.Debug("grab point outside element slot", slog.String("el", el.ID()), slog.String("slot", slot.String()))
	}

	d.lastID++
	s := &Session{
		id:      d.lastID,
		el:      el,
		origin:  slot,
		source:  slot,
		scale:   p.DragScale.Get(),
		opacity: p.DragOpacity.Get(),
	}
	s.grab = origin.Mul(s.scale)

	p.surface.SetOpacity(el, s.opacity)
	p.surface.SetZ(el, ZDrag)
	at := p.surface.Transform(el).Offset()
	p.surface.SetTransform(el, geom.Placement(at.X, at.Y, s.scale))
	p.surface.Capture(el)
	d.session = s

	p.log.Debug("drag started", slog.Uint64("session", s.id), slog.String("el", el.ID()), slog.String("slot", slot.String()))
	return s, nil
}

// Move makes the element follow the pointer and reorders the model when the
// pointer enters a different slot. Moves arriving while a previous move is
// still being applied are dropped.
func (d *DragController) Move(s *Session, _, position geom.Pt) error {
	if err := d.check(s); err != nil {
		return err
	}
	if d.moving {
		return nil
	}
	d.moving = true
	defer func() { d.moving = false }()

	at := position.Sub(s.grab)
	d.p.surface.SetTransform(s.el, geom.Placement(at.X, at.Y, s.scale))

	dst, ok := d.resolve(position, true)
	if !ok {
		return nil
	}
	if d.reorder(s, dst) {
		d.p.relayout()
	}
	return nil
}

// End drops the element at the slot under position, or back at its current
// slot when released outside every page grid, and lets it settle.
func (d *DragController) End(s *Session, _, position geom.Pt) error {
	if err := d.check(s); err != nil {
		return err
	}
	p := d.p
	if dst, ok := d.resolve(position, false); ok {
		d.reorder(s, dst)
	}

	p.surface.SetOpacity(s.el, 1)
	p.surface.SetZ(s.el, ZTransition)
	p.surface.Release(s.el)
	d.session = nil

	if p.history != nil {
		p.history.Push(history.Move{
			Element: s.el.ID(),
			From:    history.Slot(s.origin),
			To:      history.Slot(s.source),
			TS:      time.Now(),
		})
	}
	p.log.Debug("drag ended", slog.Uint64("session", s.id), slog.String("el", s.el.ID()),
		slog.String("from", s.origin.String()), slog.String("to", s.source.String()))
	p.relayout()
	return nil
}

func (d *DragController) check(s *Session) error {
	switch {
	case d.session == nil:
		return ErrNotDragging
	case s == nil || s != d.session:
		return ErrStaleSession
	}
	return nil
}

// resolve maps a panel point to a slot. Points on a page but outside its grid
// resolve to the last cell when clampMargin is set and fail otherwise.
func (d *DragController) resolve(pos geom.Pt, clampMargin bool) (Slot, bool) {
	p := d.p
	m := p.Metrics()
	pi := m.PageIndexAt(pos)
	if pi < 0 || pi >= len(p.pages) {
		return Slot{}, false
	}
	if !m.GridRect(pi).Contains(pos) {
		if !clampMargin {
			return Slot{}, false
		}
		return Slot{Page: pi, Index: m.Capacity() - 1}, true
	}
	return Slot{Page: pi, Index: m.CellIndexAt(pos, pi)}, true
}

// reorder moves the session's element to dst, clamped to the destination
// page. It reports whether the model changed.
func (d *DragController) reorder(s *Session, dst Slot) bool {
	p := d.p
	src := s.source
	if src.Page >= len(p.pages) || p.pages[src.Page].At(src.Index) != s.el {
		// The page was edited underneath the drag; trust the model.
		var ok bool
		if src, ok = p.SlotOf(s.el); !ok {
			return false
		}
		s.source = src
	}
	dst = p.clampDestination(src, dst)
	if dst == src {
		return false
	}
	p.move(src, dst)
	s.source = dst
	p.log.Debug("drag reorder", slog.Uint64("session", s.id), slog.String("from", src.String()), slog.String("to", dst.String()))
	return true
}

// forget aborts the session when its element leaves the panel.
func (d *DragController) forget(el Element) {
	s := d.session
	if s == nil || s.el != el {
		return
	}
	d.session = nil
	d.p.surface.SetOpacity(el, 1)
	d.p.surface.SetZ(el, ZDefault)
	d.p.surface.Release(el)
	d.p.log.Debug("drag aborted: element removed", slog.Uint64("session", s.id), slog.String("el", el.ID()))
}
