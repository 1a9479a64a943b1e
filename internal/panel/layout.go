/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel

import (
	"log/slog"

	"pagegrid/internal/geom"
)

// layoutEngine places elements into their cells. Every animated pass gets a
// generation number; a completion only resets z-order if the element has not
// been re-targeted by a later pass since.
type layoutEngine struct {
	p        *Panel
	pass     uint64
	lastPass map[Element]uint64
}

func newLayoutEngine(p *Panel) *layoutEngine {
	return &layoutEngine{p: p, lastPass: make(map[Element]uint64)}
}

func (l *layoutEngine) forget(el Element) { delete(l.lastPass, el) }

// Measure measures every element in unconstrained space and returns the
// panel's desired size: pageCount pages along the orientation axis.
func (p *Panel) Measure(_ geom.Size) geom.Size {
	for _, el := range p.Elements() {
		p.surface.Measure(el, geom.Unbounded)
	}
	return p.Metrics().ContentSize(len(p.pages))
}

// Arrange runs a layout pass. After a structural change the pass snaps every
// element into place; otherwise each element transitions to its cell.
func (p *Panel) Arrange(_ geom.Size) geom.Size {
	m := p.Metrics()
	els := p.Elements()
	cell := geom.R(0, 0, m.CellWidth, m.CellHeight)
	for _, el := range els {
		p.surface.Arrange(el, cell)
	}
	switch {
	case p.disableAnimation && len(els) > 0:
		p.layout.snap(m)
	case !p.disableAnimation:
		p.layout.animate(m)
	}
	return m.ContentSize(len(p.pages))
}

func (l *layoutEngine) snap(m geom.Metrics) {
	p := l.p
	for pi, pg := range p.pages {
		for i, el := range pg.items {
			if p.drag.isDragging(el) {
				continue
			}
			c := m.CellRect(pi, i)
			p.surface.SetTransform(el, geom.Placement(c.X, c.Y, 1))
		}
	}
	if !p.DesignMode {
		p.disableAnimation = false
	}
	p.log.Debug("layout snapped", slog.Int("pages", len(p.pages)))
}

func (l *layoutEngine) animate(m geom.Metrics) {
	p := l.p
	l.pass++
	pass := l.pass
	for pi, pg := range p.pages {
		for i, el := range pg.items {
			if p.drag.isDragging(el) {
				// Follows the pointer until released.
				continue
			}
			c := m.CellRect(pi, i)
			l.lastPass[el] = pass
			p.surface.Animate(el, Transition{
				To:       geom.Placement(c.X, c.Y, 1),
				Duration: p.TransitionDuration.Get(),
				Easing:   p.Easing.Get(),
			}, func() { l.completed(el, pass) })
		}
	}
}

func (l *layoutEngine) completed(el Element, pass uint64) {
	p := l.p
	if s := p.drag.session; s != nil {
		p.surface.SetZ(s.el, ZDrag)
		if s.el == el {
			return
		}
	}
	if l.lastPass[el] == pass {
		p.surface.SetZ(el, ZDefault)
	}
}

// CellSnapshot describes one cell of a page grid.
type CellSnapshot struct {
	Index   int
	Rect    geom.Rect
	Element string // empty for a free cell
}

// PageSnapshot describes one page and its cells.
type PageSnapshot struct {
	Index int
	Rect  geom.Rect
	Grid  geom.Rect
	Cells []CellSnapshot
}

// Snapshot is a point-in-time description of the panel's target layout.
type Snapshot struct {
	Metrics geom.Metrics
	Size    geom.Size
	Pages   []PageSnapshot
}

// Snapshot reports where every element is headed, independent of animation progress.
func (p *Panel) Snapshot() Snapshot {
	m := p.Metrics()
	snap := Snapshot{Metrics: m, Size: m.ContentSize(len(p.pages))}
	for pi, pg := range p.pages {
		ps := PageSnapshot{Index: pi, Rect: m.PageRect(pi), Grid: m.GridRect(pi)}
		n := max(m.Capacity(), len(pg.items))
		for i := 0; i < n; i++ {
			cs := CellSnapshot{Index: i, Rect: m.CellRect(pi, i)}
			if i < len(pg.items) {
				cs.Element = pg.items[i].ID()
			}
			ps.Cells = append(ps.Cells, cs)
		}
		snap.Pages = append(snap.Pages, ps)
	}
	return snap
}
