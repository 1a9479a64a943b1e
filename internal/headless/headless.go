/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package headless is an in-memory render surface. It records what the
// panel asks of it and plays animations on a virtual clock, so layouts and
// drags can be exercised without a display.
package headless

import (
	"slices"
	"strconv"
	"time"

	"pagegrid/internal/anim"
	"pagegrid/internal/geom"
	"pagegrid/internal/panel"
)

// Item is a minimal element.
type Item struct{ Name string }

func (i *Item) ID() string { return i.Name }

// Items makes n items named prefix0..prefixN-1.
func Items(prefix string, n int) []panel.Element {
	out := make([]panel.Element, n)
	for i := range out {
		out[i] = &Item{Name: prefix + strconv.Itoa(i)}
	}
	return out
}

// Node is the render state of one element.
type Node struct {
	Transform geom.Affine
	Opacity   float32
	Z         int
	Slot      geom.Rect
	Attached  bool
	Captured  bool
}

type animation struct {
	el      panel.Element
	from    geom.Affine
	t       panel.Transition
	elapsed time.Duration
	done    func()
}

// Surface implements panel.Surface.
type Surface struct {
	nodes   map[panel.Element]*Node
	running []*animation
	dirty   bool

	// Started counts Animate calls; Snapped counts SetTransform calls.
	Started int
	Snapped int
}

var _ panel.Surface = (*Surface)(nil)

func New() *Surface { return &Surface{nodes: make(map[panel.Element]*Node)} }

// Node returns the render state of el, creating it on first use.
func (s *Surface) Node(el panel.Element) *Node {
	n, ok := s.nodes[el]
	if !ok {
		n = &Node{Transform: geom.Identity, Opacity: 1}
		s.nodes[el] = n
	}
	return n
}

// Animating reports whether el has a running transition.
func (s *Surface) Animating(el panel.Element) bool {
	return slices.ContainsFunc(s.running, func(a *animation) bool { return a.el == el })
}

// Running returns the number of running transitions.
func (s *Surface) Running() int { return len(s.running) }

// Dirty reports whether Invalidate was called since the last Pump.
func (s *Surface) Dirty() bool { return s.dirty }

func (s *Surface) Attach(el panel.Element) { s.Node(el).Attached = true }

func (s *Surface) Detach(el panel.Element) {
	s.Node(el).Attached = false
	s.cancel(el)
}

func (s *Surface) Measure(panel.Element, geom.Size) geom.Size { return geom.Size{} }

func (s *Surface) Arrange(el panel.Element, r geom.Rect) { s.Node(el).Slot = r }

func (s *Surface) Transform(el panel.Element) geom.Affine { return s.Node(el).Transform }

func (s *Surface) SetTransform(el panel.Element, m geom.Affine) {
	s.cancel(el)
	s.Node(el).Transform = m
	s.Snapped++
}

func (s *Surface) SetOpacity(el panel.Element, v float32) { s.Node(el).Opacity = v }

func (s *Surface) SetZ(el panel.Element, z int) { s.Node(el).Z = z }

func (s *Surface) Capture(el panel.Element) { s.Node(el).Captured = true }

func (s *Surface) Release(el panel.Element) { s.Node(el).Captured = false }

func (s *Surface) Animate(el panel.Element, t panel.Transition, done func()) {
	s.cancel(el)
	s.Started++
	s.running = append(s.running, &animation{el: el, from: s.Node(el).Transform, t: t, done: done})
}

func (s *Surface) Invalidate() { s.dirty = true }

func (s *Surface) cancel(el panel.Element) {
	s.running = slices.DeleteFunc(s.running, func(a *animation) bool { return a.el == el })
}

// Step advances the animation clock by d, updating transforms and firing
// completions for transitions that finished, in start order.
func (s *Surface) Step(d time.Duration) {
	var finished []*animation
	for _, a := range s.running {
		a.elapsed += d
		progress := float32(1)
		if a.t.Duration > 0 && a.elapsed < a.t.Duration {
			progress = float32(a.elapsed) / float32(a.t.Duration)
		}
		s.Node(a.el).Transform = anim.Lerp(a.from, a.t.To, a.t.Easing.Apply(progress))
		if progress >= 1 {
			finished = append(finished, a)
		}
	}
	s.running = slices.DeleteFunc(s.running, func(a *animation) bool { return slices.Contains(finished, a) })
	for _, a := range finished {
		if a.done != nil {
			a.done()
		}
	}
}

// Flush runs every transition to completion, including ones started by
// completion callbacks.
func (s *Surface) Flush() {
	for len(s.running) > 0 {
		var longest time.Duration
		for _, a := range s.running {
			longest = max(longest, a.t.Duration-a.elapsed)
		}
		s.Step(max(longest, 1))
	}
}

// Layouter is the part of a panel the surface drives.
type Layouter interface {
	Measure(available geom.Size) geom.Size
	Arrange(final geom.Size) geom.Size
}

// Pump runs a measure/arrange pass if one was requested and reports whether it did.
func (s *Surface) Pump(l Layouter) bool {
	if !s.dirty {
		return false
	}
	s.dirty = false
	size := l.Measure(geom.Unbounded)
	l.Arrange(size)
	return true
}
