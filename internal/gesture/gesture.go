/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns raw pointer input on one element into drag
// start/move/end calls. A drag starts only after the trigger button has been
// held for HoldDelay with the pointer still over the element.
package gesture

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pagegrid/internal/geom"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
	"pagegrid/internal/sched"
	"pagegrid/internal/setting"
)

// DefaultHoldDelay is the press-and-hold time before a drag starts.
const DefaultHoldDelay = 300 * time.Millisecond

// Button identifies a pointer button.
type Button int

const (
	Left Button = iota
	Right
	Middle
	X1
	X2
)

var buttonNames = [...]string{"left", "right", "middle", "x1", "x2"}

func (b Button) String() string {
	if b < 0 || int(b) >= len(buttonNames) {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

// ParseButton accepts the names returned by String; empty means Left.
func ParseButton(s string) (Button, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Left, nil
	}
	for i, n := range buttonNames {
		if n == s {
			return Button(i), nil
		}
	}
	return Left, fmt.Errorf("unknown pointer button %q", s)
}

// Buttons is the set of buttons held down.
type Buttons uint8

// Of builds a set from individual buttons.
func Of(bs ...Button) Buttons {
	var set Buttons
	for _, b := range bs {
		set |= 1 << uint(b)
	}
	return set
}

func (s Buttons) Has(b Button) bool { return s&(1<<uint(b)) != 0 }

// PointerEvent is one pointer sample as seen by the element.
type PointerEvent struct {
	// Button changed state in a down or up event; ignored for moves.
	Button Button
	// Pressed holds the buttons down after the event.
	Pressed Buttons
	// Local is the position relative to the element, Panel relative to the panel.
	Local geom.Pt
	Panel geom.Pt
	// Inside reports whether the pointer is over the element.
	Inside bool
}

// Handler receives drag transitions. *panel.DragController implements it.
type Handler interface {
	Start(el panel.Element, origin, position geom.Pt) (*panel.Session, error)
	Move(s *panel.Session, origin, position geom.Pt) error
	End(s *panel.Session, origin, position geom.Pt) error
}

var _ Handler = (*panel.DragController)(nil)

type Options struct {
	DragButton Button
	HoldDelay  time.Duration // 0 means DefaultHoldDelay
	Logger     *slog.Logger
}

// Recognizer tracks pointer input for a single element. It must be used
// from the UI goroutine, and the scheduler must run callbacks there too.
type Recognizer struct {
	DragButton *setting.Setting[Button]
	HoldDelay  *setting.Setting[time.Duration]

	el      panel.Element
	h       Handler
	sched   sched.Scheduler
	session *panel.Session
	last    PointerEvent
	log     *slog.Logger
}

func New(el panel.Element, h Handler, s sched.Scheduler, opts Options) *Recognizer {
	if opts.HoldDelay <= 0 {
		opts.HoldDelay = DefaultHoldDelay
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("gesture")
	}
	r := &Recognizer{
		DragButton: setting.New(opts.DragButton, setting.Comparable[Button]()),
		HoldDelay: setting.New(opts.HoldDelay, setting.WithCoerce(func(d time.Duration) time.Duration {
			return max(d, 0)
		}), setting.Comparable[time.Duration]()),
		el:    el,
		h:     h,
		sched: s,
		log:   l.With(slog.String("el", el.ID())),
	}
	r.DragButton.OnChange(func(_, _ Button) { r.sched.Cancel() })
	return r
}

// Dragging reports whether this recognizer owns an active drag session.
func (r *Recognizer) Dragging() bool { return r.session != nil }

func (r *Recognizer) PointerDown(ev PointerEvent) {
	r.last = ev
	if ev.Button != r.DragButton.Get() || r.session != nil {
		return
	}
	r.sched.Schedule(r.HoldDelay.Get(), r.hold)
}

func (r *Recognizer) hold() {
	if !r.last.Inside {
		return
	}
	s, err := r.h.Start(r.el, r.last.Local, r.last.Panel)
	if err != nil {
		r.log.Warn("drag start rejected", slog.String("err", err.Error()))
		return
	}
	r.session = s
}

func (r *Recognizer) PointerMove(ev PointerEvent) {
	r.last = ev
	if !ev.Inside {
		r.sched.Cancel()
		// A live drag keeps following the pointer even when it outruns the element.
		if r.session == nil {
			return
		}
	}
	if r.session == nil || !ev.Pressed.Has(r.DragButton.Get()) {
		return
	}
	if err := r.h.Move(r.session, ev.Local, ev.Panel); err != nil {
		r.fail("drag move failed", err)
	}
}

func (r *Recognizer) PointerUp(ev PointerEvent) {
	r.last = ev
	if ev.Button != r.DragButton.Get() {
		return
	}
	r.sched.Cancel()
	s := r.session
	if s == nil {
		return
	}
	r.session = nil
	if err := r.h.End(s, ev.Local, ev.Panel); err != nil {
		r.fail("drag end failed", err)
	}
}

// PointerLeave cancels a pending hold.
func (r *Recognizer) PointerLeave() {
	r.last.Inside = false
	r.sched.Cancel()
}

// fail logs a handler error. Sessions the controller no longer knows are dropped.
func (r *Recognizer) fail(msg string, err error) {
	if errors.Is(err, panel.ErrNotDragging) || errors.Is(err, panel.ErrStaleSession) {
		r.session = nil
	}
	r.log.Warn(msg, slog.String("err", err.Error()))
}
