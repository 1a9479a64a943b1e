/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel_test

import (
	"testing"
	"time"

	"pagegrid/internal/anim"
	"pagegrid/internal/geom"
	"pagegrid/internal/headless"
	"pagegrid/internal/panel"
)

func TestFirstPassSnapsThenAnimates(t *testing.T) {
	items := headless.Items("a", 3)
	p, s := newPanel(t, scenarioOptions(), items)
	if p.AnimationDisabled() {
		t.Fatalf("snap pass must enable animation")
	}
	if s.Started != 0 {
		t.Fatalf("first pass animated %d elements", s.Started)
	}
	for i, el := range items {
		c := p.Metrics().CellRect(0, i)
		if got := s.Node(el).Transform; got != geom.Placement(c.X, c.Y, 1) {
			t.Fatalf("%s placed at %+v", el.ID(), got)
		}
	}

	// Structural change: the next pass snaps again.
	if err := p.AddPage(panel.NewPage(headless.Items("b", 2)...)); err != nil {
		t.Fatal(err)
	}
	if !p.AnimationDisabled() || !s.Dirty() {
		t.Fatalf("add page must disable animation and invalidate")
	}
	s.Pump(p)
	if s.Started != 0 || p.AnimationDisabled() {
		t.Fatalf("after add page: started=%d disabled=%v", s.Started, p.AnimationDisabled())
	}
	b1, _, _ := p.Find("b1")
	if got := s.Node(b1).Transform.Offset(); got != (geom.Pt{X: 400, Y: 0}) {
		t.Fatalf("b1 offset = %v", got)
	}

	p.CellWidth.Set(150)
	if !s.Dirty() {
		t.Fatalf("cell size change must invalidate")
	}
	s.Pump(p)
	if s.Started != 5 {
		t.Fatalf("resize pass must animate all elements, started %d", s.Started)
	}
}

func TestEmptyPanelStaysInSnapMode(t *testing.T) {
	s := headless.New()
	p := panel.New(s, scenarioOptions())
	s.Invalidate()
	s.Pump(p)
	if !p.AnimationDisabled() {
		t.Fatalf("a pass without elements must not consume the snap")
	}
	if err := p.AddPage(panel.NewPage(headless.Items("a", 1)...)); err != nil {
		t.Fatal(err)
	}
	s.Pump(p)
	if s.Started != 0 {
		t.Fatalf("first populated pass animated")
	}
}

func TestMeasureAndArrange(t *testing.T) {
	items := headless.Items("a", 2)
	p, s := newPanel(t, scenarioOptions(), items, headless.Items("b", 1))
	if got := p.Measure(geom.Unbounded); got != (geom.Size{W: 600, H: 200}) {
		t.Fatalf("measure = %+v", got)
	}
	if got := p.Arrange(geom.Size{W: 1000, H: 1000}); got != (geom.Size{W: 600, H: 200}) {
		t.Fatalf("arrange = %+v", got)
	}
	if got := s.Node(items[1]).Slot; got != geom.R(0, 0, 100, 100) {
		t.Fatalf("arranged slot = %+v", got)
	}
	p.Orientation.Set(geom.Vertical)
	if got := p.Measure(geom.Unbounded); got != (geom.Size{W: 300, H: 400}) {
		t.Fatalf("vertical measure = %+v", got)
	}
}

func TestOrientationChangeInvalidatesOnce(t *testing.T) {
	p, s := newPanel(t, scenarioOptions(), headless.Items("a", 1))
	p.Orientation.Set(geom.Horizontal)
	if s.Dirty() {
		t.Fatalf("setting the same orientation must not invalidate")
	}
	p.Orientation.Set(geom.Vertical)
	if !s.Dirty() {
		t.Fatalf("orientation change must invalidate")
	}
}

func TestTransitionUsesSettings(t *testing.T) {
	opts := scenarioOptions()
	opts.TransitionDuration = 100 * time.Millisecond
	opts.Easing = anim.EaseIn
	items := headless.Items("a", 2)
	p, s := newPanel(t, opts, items)

	p.PageWidth.Set(400)
	p.PageHeight.Set(400)
	p.CellWidth.Set(200)
	s.Pump(p)
	n := s.Node(items[1])
	s.Step(50 * time.Millisecond)
	// Cell 1 moves from x=100 to x=200; ease-in at half time covers a quarter.
	if got := n.Transform.E; got != 125 {
		t.Fatalf("eased x at half time = %v", got)
	}
	s.Step(50 * time.Millisecond)
	if got := n.Transform.E; got != 200 {
		t.Fatalf("final x = %v", got)
	}
	if s.Running() != 0 {
		t.Fatalf("transitions still running")
	}
}

func TestSnapshot(t *testing.T) {
	p, _ := newPanel(t, scenarioOptions(), headless.Items("a", 3), headless.Items("b", 7))
	snap := p.Snapshot()
	if len(snap.Pages) != 2 || snap.Size != (geom.Size{W: 600, H: 200}) {
		t.Fatalf("snapshot pages=%d size=%+v", len(snap.Pages), snap.Size)
	}
	first := snap.Pages[0]
	if len(first.Cells) != 6 {
		t.Fatalf("page 0 cells = %d", len(first.Cells))
	}
	if first.Cells[0].Element != "a0" || first.Cells[3].Element != "" {
		t.Fatalf("page 0 occupancy: %+v", first.Cells)
	}
	if first.Cells[2].Rect != geom.R(200, 0, 100, 100) {
		t.Fatalf("cell 2 rect = %+v", first.Cells[2].Rect)
	}
	// Overflow cells continue below the grid.
	second := snap.Pages[1]
	if len(second.Cells) != 7 || second.Cells[6].Rect != geom.R(300, 200, 100, 100) {
		t.Fatalf("overflow cells: %d %+v", len(second.Cells), second.Cells[len(second.Cells)-1])
	}
	if second.Rect != geom.R(300, 0, 300, 200) || second.Grid != second.Rect {
		t.Fatalf("page 1 rect=%+v grid=%+v", second.Rect, second.Grid)
	}
}
