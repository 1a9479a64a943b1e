/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package panel implements the paged grid container: the page/item model,
// the layout engine that places every element into its cell with snap or
// animated passes, and the drag controller that reorders elements live as
// the pointer moves across cells and pages.
//
// A Panel is driven from the UI goroutine only and is not safe for
// concurrent use.
package panel

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"pagegrid/internal/anim"
	"pagegrid/internal/geom"
	"pagegrid/internal/history"
	applog "pagegrid/internal/log"
	"pagegrid/internal/setting"
)

// Defaults.
const (
	DefaultTransitionDuration = 300 * time.Millisecond
	DefaultDragScale          = 1.0
	DefaultDragOpacity        = 1.0
	MinimumDragOpacity        = 0.1
)

// Options configures a new Panel. Zero dimensions fall back to 1.
type Options struct {
	Orientation        geom.Orientation
	PageWidth          float32
	PageHeight         float32
	CellWidth          float32
	CellHeight         float32
	TransitionDuration time.Duration
	Easing             anim.Easing
	DragScale          float32
	// DragOpacity is clamped into [0.1, 1.0]; nil means DefaultDragOpacity.
	DragOpacity *float32
	// DesignMode keeps every pass in snap mode so previews stay stable.
	DesignMode bool
	// History records completed reorders for Undo/Redo. Optional.
	History *history.Manager
	Logger  *slog.Logger
}

// DefaultOptions returns an 800x600 page with 100x100 cells.
func DefaultOptions() Options {
	return Options{
		Orientation:        geom.Horizontal,
		PageWidth:          800,
		PageHeight:         600,
		CellWidth:          100,
		CellHeight:         100,
		TransitionDuration: DefaultTransitionDuration,
		DragScale:          DefaultDragScale,
		DragOpacity:        Opacity(DefaultDragOpacity),
	}
}

// Opacity returns a pointer to v for Options.DragOpacity.
func Opacity(v float32) *float32 { return &v }

// ClampOpacity coerces a drag opacity into [0.1, 1.0].
func ClampOpacity(v float32) float32 { return setting.Clamp(MinimumDragOpacity, 1)(v) }

// Panel owns the page topology and all geometry.
type Panel struct {
	Orientation        *setting.Setting[geom.Orientation]
	PageWidth          *setting.Setting[float32]
	PageHeight         *setting.Setting[float32]
	CellWidth          *setting.Setting[float32]
	CellHeight         *setting.Setting[float32]
	TransitionDuration *setting.Setting[time.Duration]
	Easing             *setting.Setting[anim.Easing]
	DragScale          *setting.Setting[float32]
	DragOpacity        *setting.Setting[float32]
	ActivePage         *setting.Setting[int]

	DesignMode bool

	surface          Surface
	pages            []*Page
	disableAnimation bool
	layout           *layoutEngine
	drag             *DragController
	history          *history.Manager
	log              *slog.Logger
}

// New creates an empty panel drawing on s.
func New(s Surface, opts Options) *Panel {
	if opts.TransitionDuration <= 0 {
		opts.TransitionDuration = DefaultTransitionDuration
	}
	if opts.DragScale <= 0 {
		opts.DragScale = DefaultDragScale
	}
	opacity := float32(DefaultDragOpacity)
	if opts.DragOpacity != nil {
		opacity = *opts.DragOpacity
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("panel")
	}

	positive := setting.WithCoerce(setting.AtLeast(1))
	same := setting.Comparable[float32]()
	p := &Panel{
		Orientation:        setting.New(opts.Orientation, setting.Comparable[geom.Orientation]()),
		PageWidth:          setting.New(opts.PageWidth, positive, same),
		PageHeight:         setting.New(opts.PageHeight, positive, same),
		CellWidth:          setting.New(opts.CellWidth, positive, same),
		CellHeight:         setting.New(opts.CellHeight, positive, same),
		TransitionDuration: setting.New(opts.TransitionDuration, setting.Comparable[time.Duration]()),
		Easing:             setting.New(opts.Easing),
		DragScale:          setting.New(opts.DragScale, setting.WithCoerce(setting.AtLeast(0.01)), same),
		DragOpacity:        setting.New(opacity, setting.WithCoerce(ClampOpacity), same),
		DesignMode:         opts.DesignMode,
		surface:            s,
		disableAnimation:   true,
		history:            opts.History,
		log:                l,
	}
	p.ActivePage = setting.New(0, setting.WithCoerce(p.clampPage), setting.Comparable[int]())
	p.layout = newLayoutEngine(p)
	p.drag = &DragController{p: p}

	p.Orientation.OnChange(func(old, v geom.Orientation) {
		p.log.Debug("orientation changed", slog.String("from", old.String()), slog.String("to", v.String()))
		p.surface.Invalidate()
	})
	for _, dim := range []*setting.Setting[float32]{p.PageWidth, p.PageHeight, p.CellWidth, p.CellHeight} {
		dim.OnChange(func(_, _ float32) { p.surface.Invalidate() })
	}
	return p
}

// Drag returns the panel's drag controller.
func (p *Panel) Drag() *DragController { return p.drag }

// History returns the reorder history, which may be nil.
func (p *Panel) History() *history.Manager { return p.history }

// Metrics snapshots the current geometry settings.
func (p *Panel) Metrics() geom.Metrics {
	return geom.Metrics{
		Orientation: p.Orientation.Get(),
		PageWidth:   p.PageWidth.Get(),
		PageHeight:  p.PageHeight.Get(),
		CellWidth:   p.CellWidth.Get(),
		CellHeight:  p.CellHeight.Get(),
	}
}

// AnimationDisabled reports whether the next pass will snap.
func (p *Panel) AnimationDisabled() bool { return p.disableAnimation }

// PageCount returns the number of pages.
func (p *Panel) PageCount() int { return len(p.pages) }

// Page returns the page at index i.
func (p *Panel) Page(i int) (*Page, error) {
	if i < 0 || i >= len(p.pages) {
		return nil, fmt.Errorf("page %d of %d: %w", i, len(p.pages), ErrIndexOutOfRange)
	}
	return p.pages[i], nil
}

// PageIndex returns the index of pg or -1.
func (p *Panel) PageIndex(pg *Page) int { return slices.Index(p.pages, pg) }

// SlotOf finds the slot holding el.
func (p *Panel) SlotOf(el Element) (Slot, bool) {
	for pi, pg := range p.pages {
		if i := pg.IndexOf(el); i >= 0 {
			return Slot{Page: pi, Index: i}, true
		}
	}
	return Slot{}, false
}

// Find returns the element with the given ID and its slot.
func (p *Panel) Find(id string) (Element, Slot, bool) {
	for pi, pg := range p.pages {
		for i, el := range pg.items {
			if el.ID() == id {
				return el, Slot{Page: pi, Index: i}, true
			}
		}
	}
	return nil, Slot{}, false
}

// Elements returns every element in page order.
func (p *Panel) Elements() []Element {
	var out []Element
	for _, pg := range p.pages {
		out = append(out, pg.items...)
	}
	return out
}

// AddPage appends pg and attaches its elements. The next pass snaps.
func (p *Panel) AddPage(pg *Page) error {
	if pg == nil {
		return ErrNilPage
	}
	if pg.owner == p {
		return ErrPageAdded
	}
	if pg.owner != nil {
		return ErrPageOwned
	}
	for i, el := range pg.items {
		if el == nil {
			return fmt.Errorf("add page: item %d: %w", i, ErrNilElement)
		}
		if j := pg.IndexOf(el); j != i {
			return fmt.Errorf("add page: %s at %d and %d: %w", el.ID(), j, i, ErrDuplicateElement)
		}
		if s, ok := p.SlotOf(el); ok {
			return fmt.Errorf("add page: %s already at %s: %w", el.ID(), s, ErrDuplicateElement)
		}
	}
	pg.owner = p
	p.pages = append(p.pages, pg)
	for _, el := range pg.items {
		p.surface.Attach(el)
	}
	p.structureChanged()
	p.log.Debug("page added", slog.Int("page", len(p.pages)-1), slog.Int("items", pg.Len()))
	return nil
}

// RemovePage detaches pg and its elements. The next pass snaps. A drag of
// one of its elements is aborted.
func (p *Panel) RemovePage(pg *Page) error {
	if pg == nil {
		return ErrNilPage
	}
	idx := p.PageIndex(pg)
	if idx < 0 {
		return ErrUnknownPage
	}
	p.pages = slices.Delete(p.pages, idx, idx+1)
	pg.owner = nil
	for _, el := range pg.items {
		p.drag.forget(el)
		p.layout.forget(el)
		p.surface.Detach(el)
	}
	p.ActivePage.Set(p.ActivePage.Get())
	p.structureChanged()
	p.log.Debug("page removed", slog.Int("page", idx), slog.Int("items", pg.Len()))
	return nil
}

// structureChanged handles whole-page changes: recorded reorders no longer
// line up with the pages, and there is no sensible per-item animation.
func (p *Panel) structureChanged() {
	if p.history != nil {
		p.history.Clear()
	}
	p.disableAnimation = true
	p.surface.Invalidate()
}

func (p *Panel) elementInserted(_ *Page, el Element) {
	p.surface.Attach(el)
	p.surface.Invalidate()
}

func (p *Panel) elementRemoved(el Element) {
	p.drag.forget(el)
	p.layout.forget(el)
	p.surface.Detach(el)
	p.surface.Invalidate()
}

func (p *Panel) clampPage(v int) int {
	if v >= len(p.pages) {
		v = len(p.pages) - 1
	}
	return max(v, 0)
}

// relayout runs an animated pass now, or defers to the host when a snap is
// pending.
func (p *Panel) relayout() {
	if p.disableAnimation {
		p.surface.Invalidate()
		return
	}
	p.layout.animate(p.Metrics())
}

// clampDestination limits dst to a valid insertion index once the element
// has been taken out of src.
func (p *Panel) clampDestination(src, dst Slot) Slot {
	n := len(p.pages[dst.Page].items)
	if dst.Page == src.Page {
		n--
	}
	dst.Index = min(max(dst.Index, 0), n)
	return dst
}

// move relocates the element at src to dst without notifying observers in
// between. dst must already be clamped.
func (p *Panel) move(src, dst Slot) {
	el := p.pages[src.Page].take(src.Index)
	p.pages[dst.Page].put(dst.Index, el)
}
