/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel_test

import (
	"errors"
	"strings"
	"testing"

	"pagegrid/internal/geom"
	"pagegrid/internal/headless"
	"pagegrid/internal/history"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
)

func scenarioOptions() panel.Options {
	return panel.Options{PageWidth: 300, PageHeight: 200, CellWidth: 100, CellHeight: 100, Logger: applog.Discard()}
}

// newPanel builds a panel with one page per item group and runs the first pass.
func newPanel(t *testing.T, opts panel.Options, groups ...[]panel.Element) (*panel.Panel, *headless.Surface) {
	t.Helper()
	s := headless.New()
	p := panel.New(s, opts)
	for _, g := range groups {
		if err := p.AddPage(panel.NewPage(g...)); err != nil {
			t.Fatalf("add page: %v", err)
		}
	}
	s.Pump(p)
	return p, s
}

func order(t *testing.T, p *panel.Panel, page int) string {
	t.Helper()
	pg, err := p.Page(page)
	if err != nil {
		t.Fatalf("page %d: %v", page, err)
	}
	var ids []string
	for _, el := range pg.Items() {
		ids = append(ids, el.ID())
	}
	return strings.Join(ids, ",")
}

func TestNewDefaults(t *testing.T) {
	p := panel.New(headless.New(), panel.Options{Logger: applog.Discard()})
	if p.TransitionDuration.Get() != panel.DefaultTransitionDuration {
		t.Fatalf("transition duration = %v", p.TransitionDuration.Get())
	}
	if p.DragScale.Get() != 1 || p.DragOpacity.Get() != 1 {
		t.Fatalf("drag scale/opacity = %v/%v", p.DragScale.Get(), p.DragOpacity.Get())
	}
	if p.PageWidth.Get() != 1 || p.CellWidth.Get() != 1 {
		t.Fatalf("dimensions not coerced to at least 1: %v %v", p.PageWidth.Get(), p.CellWidth.Get())
	}
	if !p.AnimationDisabled() {
		t.Fatalf("first pass must snap")
	}
	d := panel.DefaultOptions()
	if d.PageWidth != 800 || d.PageHeight != 600 || d.CellWidth != 100 || d.Orientation != geom.Horizontal {
		t.Fatalf("unexpected default options: %+v", d)
	}
}

func TestDragOpacityCoercion(t *testing.T) {
	p := panel.New(headless.New(), scenarioOptions())
	cases := []struct{ in, want float32 }{{0, 0.1}, {2, 1}, {0.5, 0.5}, {-1, 0.1}}
	for _, c := range cases {
		p.DragOpacity.Set(c.in)
		if got := p.DragOpacity.Get(); got != c.want {
			t.Fatalf("DragOpacity.Set(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	p.DragScale.Set(0)
	if p.DragScale.Get() <= 0 {
		t.Fatalf("drag scale must stay positive: %v", p.DragScale.Get())
	}
}

func TestDragOpacityOptionIsClamped(t *testing.T) {
	cases := []struct{ in, want float32 }{{0, 0.1}, {2, 1}, {0.5, 0.5}}
	for _, c := range cases {
		opts := scenarioOptions()
		opts.DragOpacity = panel.Opacity(c.in)
		p := panel.New(headless.New(), opts)
		if got := p.DragOpacity.Get(); got != c.want {
			t.Fatalf("Options.DragOpacity %v gave %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAddPageErrors(t *testing.T) {
	items := headless.Items("a", 2)
	p, _ := newPanel(t, scenarioOptions(), items)
	if err := p.AddPage(nil); !errors.Is(err, panel.ErrNilPage) {
		t.Fatalf("nil page: %v", err)
	}
	pg, _ := p.Page(0)
	if err := p.AddPage(pg); !errors.Is(err, panel.ErrPageAdded) {
		t.Fatalf("re-add: %v", err)
	}
	other, _ := newPanel(t, scenarioOptions(), headless.Items("b", 1))
	foreign, _ := other.Page(0)
	if err := p.AddPage(foreign); !errors.Is(err, panel.ErrPageOwned) {
		t.Fatalf("foreign page: %v", err)
	}
	if err := p.AddPage(panel.NewPage(items[1])); !errors.Is(err, panel.ErrDuplicateElement) {
		t.Fatalf("duplicate element: %v", err)
	}
	x := &headless.Item{Name: "x"}
	if err := p.AddPage(panel.NewPage(x, x)); !errors.Is(err, panel.ErrDuplicateElement) {
		t.Fatalf("element twice on one page: %v", err)
	}
	if err := p.AddPage(panel.NewPage(x, nil)); !errors.Is(err, panel.ErrNilElement) {
		t.Fatalf("nil element: %v", err)
	}
	if p.PageCount() != 1 {
		t.Fatalf("rejected pages must not be added, got %d pages", p.PageCount())
	}
	if _, ok := p.SlotOf(x); ok {
		t.Fatalf("x must not be placed by a rejected page")
	}
	p.Snapshot()
	if err := p.RemovePage(panel.NewPage()); !errors.Is(err, panel.ErrUnknownPage) {
		t.Fatalf("unknown page: %v", err)
	}
	if _, err := p.Page(3); !errors.Is(err, panel.ErrIndexOutOfRange) {
		t.Fatalf("page out of range: %v", err)
	}
}

func TestPageInsertRemove(t *testing.T) {
	items := headless.Items("a", 3)
	p, s := newPanel(t, scenarioOptions(), items)
	pg, _ := p.Page(0)
	x := &headless.Item{Name: "x"}

	if err := pg.Insert(1, x); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := order(t, p, 0); got != "a0,x,a1,a2" {
		t.Fatalf("after insert: %s", got)
	}
	if !s.Node(x).Attached || !s.Dirty() {
		t.Fatalf("insert must attach and invalidate")
	}
	if err := pg.Remove(x); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := order(t, p, 0); got != "a0,a1,a2" {
		t.Fatalf("insert then remove changed order: %s", got)
	}
	if s.Node(x).Attached {
		t.Fatalf("remove must detach")
	}

	if err := pg.Insert(0, items[2]); !errors.Is(err, panel.ErrDuplicateElement) {
		t.Fatalf("duplicate insert: %v", err)
	}
	if err := pg.Insert(9, x); !errors.Is(err, panel.ErrIndexOutOfRange) {
		t.Fatalf("insert out of range: %v", err)
	}
	if err := pg.Insert(0, nil); !errors.Is(err, panel.ErrNilElement) {
		t.Fatalf("nil insert: %v", err)
	}
	if _, err := pg.RemoveAt(-1); !errors.Is(err, panel.ErrIndexOutOfRange) {
		t.Fatalf("remove out of range: %v", err)
	}
	if err := pg.Remove(x); !errors.Is(err, panel.ErrUnknownElement) {
		t.Fatalf("remove unknown: %v", err)
	}
	if pg.At(5) != nil {
		t.Fatalf("At out of range must be nil")
	}
}

func TestDetachedPageRejectsDuplicates(t *testing.T) {
	a := &headless.Item{Name: "a"}
	pg := panel.NewPage(a)
	if err := pg.Append(a); !errors.Is(err, panel.ErrDuplicateElement) {
		t.Fatalf("duplicate append: %v", err)
	}
	if err := pg.Append(&headless.Item{Name: "b"}); err != nil || pg.Len() != 2 {
		t.Fatalf("append: %v len=%d", err, pg.Len())
	}
}

func TestRemovePageClampsActivePage(t *testing.T) {
	p, s := newPanel(t, scenarioOptions(), headless.Items("a", 1), headless.Items("b", 2))
	p.ActivePage.Set(5)
	if p.ActivePage.Get() != 1 {
		t.Fatalf("active page not clamped: %d", p.ActivePage.Get())
	}
	pg, _ := p.Page(1)
	if err := p.RemovePage(pg); err != nil {
		t.Fatalf("remove page: %v", err)
	}
	if p.ActivePage.Get() != 0 || p.PageCount() != 1 {
		t.Fatalf("active=%d count=%d", p.ActivePage.Get(), p.PageCount())
	}
	for _, el := range pg.Items() {
		if s.Node(el).Attached {
			t.Fatalf("%s still attached", el.ID())
		}
	}
	if err := p.AddPage(pg); err != nil {
		t.Fatalf("removed page must be reusable: %v", err)
	}
}

func TestFindAndSlotOf(t *testing.T) {
	p, _ := newPanel(t, scenarioOptions(), headless.Items("a", 2), headless.Items("b", 2))
	el, slot, ok := p.Find("b1")
	if !ok || slot != (panel.Slot{Page: 1, Index: 1}) {
		t.Fatalf("find b1: %v %v", slot, ok)
	}
	if s, ok := p.SlotOf(el); !ok || s != slot {
		t.Fatalf("slot of b1: %v %v", s, ok)
	}
	if _, _, ok := p.Find("zz"); ok {
		t.Fatalf("unexpected find")
	}
	if n := len(p.Elements()); n != 4 {
		t.Fatalf("elements = %d", n)
	}
}

func TestUndoRedo(t *testing.T) {
	opts := scenarioOptions()
	opts.History = history.NewManager(history.Config{})
	items := headless.Items("a", 3)
	p, s := newPanel(t, opts, items)

	if ok, err := p.Undo(); ok || err != nil {
		t.Fatalf("undo on empty history: %v %v", ok, err)
	}
	sess, err := p.Drag().Start(items[0], geom.Pt{X: 50, Y: 50}, geom.Pt{X: 50, Y: 50})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.Undo(); !errors.Is(err, panel.ErrDragInProgress) {
		t.Fatalf("undo while dragging: %v", err)
	}
	if err := p.Drag().End(sess, geom.Pt{}, geom.Pt{X: 250, Y: 50}); err != nil {
		t.Fatalf("end: %v", err)
	}
	s.Flush()
	if got := order(t, p, 0); got != "a1,a2,a0" {
		t.Fatalf("after drop: %s", got)
	}
	if ok, err := p.Undo(); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if got := order(t, p, 0); got != "a0,a1,a2" {
		t.Fatalf("after undo: %s", got)
	}
	if ok, err := p.Redo(); !ok || err != nil {
		t.Fatalf("redo: %v %v", ok, err)
	}
	if got := order(t, p, 0); got != "a1,a2,a0" {
		t.Fatalf("after redo: %s", got)
	}

	if err := p.AddPage(panel.NewPage(headless.Items("b", 1)...)); err != nil {
		t.Fatal(err)
	}
	if ok, _ := p.Undo(); ok {
		t.Fatalf("structure change must clear history")
	}
}

func TestUndoWithoutHistory(t *testing.T) {
	p, _ := newPanel(t, scenarioOptions(), headless.Items("a", 2))
	if ok, err := p.Undo(); ok || err != nil {
		t.Fatalf("undo without history: %v %v", ok, err)
	}
	if p.History() != nil {
		t.Fatalf("history should be nil")
	}
}
