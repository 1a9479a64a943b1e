/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"errors"
	"testing"
	"time"

	"pagegrid/internal/geom"
	"pagegrid/internal/headless"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
	"pagegrid/internal/sched"
)

type call struct {
	op       string
	origin   geom.Pt
	position geom.Pt
}

type recorder struct {
	calls    []call
	startErr error
	moveErr  error
}

func (r *recorder) Start(_ panel.Element, origin, position geom.Pt) (*panel.Session, error) {
	r.calls = append(r.calls, call{"start", origin, position})
	if r.startErr != nil {
		return nil, r.startErr
	}
	return &panel.Session{}, nil
}

func (r *recorder) Move(_ *panel.Session, origin, position geom.Pt) error {
	r.calls = append(r.calls, call{"move", origin, position})
	return r.moveErr
}

func (r *recorder) End(_ *panel.Session, origin, position geom.Pt) error {
	r.calls = append(r.calls, call{"end", origin, position})
	return nil
}

func (r *recorder) ops() []string {
	var out []string
	for _, c := range r.calls {
		out = append(out, c.op)
	}
	return out
}

func newRecognizer(h Handler) (*Recognizer, *sched.Manual) {
	m := &sched.Manual{}
	r := New(&headless.Item{Name: "a"}, h, m, Options{HoldDelay: 100 * time.Millisecond, Logger: applog.Discard()})
	return r, m
}

func down(local, pnl geom.Pt) PointerEvent {
	return PointerEvent{Button: Left, Pressed: Of(Left), Local: local, Panel: pnl, Inside: true}
}

func TestHoldStartsDrag(t *testing.T) {
	rec := &recorder{}
	r, m := newRecognizer(rec)
	r.PointerDown(down(geom.Pt{X: 5, Y: 5}, geom.Pt{X: 105, Y: 5}))
	m.Advance(50 * time.Millisecond)
	if len(rec.calls) != 0 {
		t.Fatalf("started before hold delay: %v", rec.ops())
	}
	m.Advance(50 * time.Millisecond)
	if len(rec.calls) != 1 || rec.calls[0].origin != (geom.Pt{X: 5, Y: 5}) || rec.calls[0].position != (geom.Pt{X: 105, Y: 5}) {
		t.Fatalf("start call: %+v", rec.calls)
	}
	if !r.Dragging() {
		t.Fatalf("session not recorded")
	}

	r.PointerMove(PointerEvent{Pressed: Of(Left), Local: geom.Pt{X: 6, Y: 6}, Panel: geom.Pt{X: 150, Y: 20}, Inside: true})
	r.PointerUp(PointerEvent{Button: Left, Local: geom.Pt{X: 6, Y: 6}, Panel: geom.Pt{X: 160, Y: 20}, Inside: true})
	if got := rec.ops(); len(got) != 3 || got[1] != "move" || got[2] != "end" {
		t.Fatalf("ops = %v", got)
	}
	if rec.calls[2].position != (geom.Pt{X: 160, Y: 20}) {
		t.Fatalf("end position = %v", rec.calls[2].position)
	}
	if r.Dragging() {
		t.Fatalf("session not cleared on release")
	}
}

func TestReleaseBeforeHoldCancels(t *testing.T) {
	rec := &recorder{}
	r, m := newRecognizer(rec)
	r.PointerDown(down(geom.Pt{}, geom.Pt{}))
	r.PointerUp(PointerEvent{Button: Left, Inside: true})
	m.Advance(time.Second)
	if len(rec.calls) != 0 {
		t.Fatalf("canceled hold fired: %v", rec.ops())
	}
}

func TestLeavingBeforeHoldCancels(t *testing.T) {
	for name, leave := range map[string]func(*Recognizer){
		"move outside": func(r *Recognizer) { r.PointerMove(PointerEvent{Pressed: Of(Left), Inside: false}) },
		"leave":        func(r *Recognizer) { r.PointerLeave() },
	} {
		rec := &recorder{}
		r, m := newRecognizer(rec)
		r.PointerDown(down(geom.Pt{}, geom.Pt{}))
		leave(r)
		if m.Pending() {
			t.Fatalf("%s: hold still pending", name)
		}
		m.Advance(time.Second)
		if len(rec.calls) != 0 {
			t.Fatalf("%s: start called", name)
		}
	}
}

func TestOtherButtonsIgnored(t *testing.T) {
	rec := &recorder{}
	r, m := newRecognizer(rec)
	r.PointerDown(PointerEvent{Button: Right, Pressed: Of(Right), Inside: true})
	m.Advance(time.Second)
	if len(rec.calls) != 0 {
		t.Fatalf("right button started a drag")
	}

	r.DragButton.Set(Right)
	r.PointerDown(PointerEvent{Button: Right, Pressed: Of(Right), Inside: true})
	m.Advance(time.Second)
	if !r.Dragging() {
		t.Fatalf("configured button did not start a drag")
	}
	// Moves without the trigger button held are not forwarded.
	r.PointerMove(PointerEvent{Pressed: Of(Left), Inside: true})
	r.PointerUp(PointerEvent{Button: Left, Inside: true})
	if got := rec.ops(); len(got) != 1 {
		t.Fatalf("ops = %v", got)
	}
}

func TestMoveOutsideDuringDragIsForwarded(t *testing.T) {
	rec := &recorder{}
	r, m := newRecognizer(rec)
	r.PointerDown(down(geom.Pt{}, geom.Pt{}))
	m.Advance(time.Second)
	r.PointerMove(PointerEvent{Pressed: Of(Left), Panel: geom.Pt{X: 900}, Inside: false})
	if got := rec.ops(); len(got) != 2 || got[1] != "move" {
		t.Fatalf("ops = %v", got)
	}
}

func TestHoldAfterPointerLeftDoesNotStart(t *testing.T) {
	rec := &recorder{}
	r, m := newRecognizer(rec)
	r.PointerDown(down(geom.Pt{}, geom.Pt{}))
	r.last.Inside = false
	m.Advance(time.Second)
	if len(rec.calls) != 0 {
		t.Fatalf("start called with pointer outside")
	}
}

func TestHandlerErrors(t *testing.T) {
	rec := &recorder{startErr: panel.ErrDragInProgress}
	r, m := newRecognizer(rec)
	r.PointerDown(down(geom.Pt{}, geom.Pt{}))
	m.Advance(time.Second)
	if r.Dragging() {
		t.Fatalf("rejected start must not record a session")
	}

	rec.startErr = nil
	rec.moveErr = panel.ErrStaleSession
	r.PointerDown(down(geom.Pt{}, geom.Pt{}))
	m.Advance(time.Second)
	r.PointerMove(PointerEvent{Pressed: Of(Left), Inside: true})
	if r.Dragging() {
		t.Fatalf("stale session must be dropped")
	}

	rec.moveErr = errors.New("boom")
	r.PointerDown(down(geom.Pt{}, geom.Pt{}))
	m.Advance(time.Second)
	r.PointerMove(PointerEvent{Pressed: Of(Left), Inside: true})
	if !r.Dragging() {
		t.Fatalf("unrelated errors keep the session")
	}
}

func TestDriveRealPanel(t *testing.T) {
	items := headless.Items("a", 3)
	s := headless.New()
	p := panel.New(s, panel.Options{PageWidth: 300, PageHeight: 200, CellWidth: 100, CellHeight: 100, Logger: applog.Discard()})
	if err := p.AddPage(panel.NewPage(items...)); err != nil {
		t.Fatal(err)
	}
	s.Pump(p)

	m := &sched.Manual{}
	r := New(items[0], p.Drag(), m, Options{Logger: applog.Discard()})
	r.PointerDown(down(geom.Pt{X: 50, Y: 50}, geom.Pt{X: 50, Y: 50}))
	m.Advance(DefaultHoldDelay)
	r.PointerMove(PointerEvent{Pressed: Of(Left), Local: geom.Pt{X: 50, Y: 50}, Panel: geom.Pt{X: 250, Y: 50}, Inside: true})
	r.PointerUp(PointerEvent{Button: Left, Local: geom.Pt{X: 50, Y: 50}, Panel: geom.Pt{X: 250, Y: 50}, Inside: true})
	s.Flush()

	pg, _ := p.Page(0)
	if pg.At(2) != items[0] {
		t.Fatalf("a0 not moved to cell 2: %v", pg.Items())
	}
	if p.Drag().Dragging() || r.Dragging() {
		t.Fatalf("drag not finished")
	}
}

func TestParseButton(t *testing.T) {
	cases := map[string]Button{"": Left, "left": Left, "Right": Right, "middle": Middle, "x1": X1, "X2": X2}
	for in, want := range cases {
		got, err := ParseButton(in)
		if err != nil || got != want {
			t.Fatalf("ParseButton(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseButton("thumb"); err == nil {
		t.Fatalf("expected error")
	}
	if X2.String() != "x2" || Button(9).String() != "button(9)" {
		t.Fatalf("unexpected names")
	}
}
