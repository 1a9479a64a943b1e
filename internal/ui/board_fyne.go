//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"log/slog"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pagegrid/internal/anim"
	"pagegrid/internal/geom"
	"pagegrid/internal/gesture"
	"pagegrid/internal/panel"
	"pagegrid/internal/sched"
)

// Board hosts a panel.Panel in a fyne widget tree. It implements
// panel.Surface by positioning Tiles manually inside a container without
// layout; render transforms become Move/Resize, z becomes object order.
type Board struct {
	widget.BaseWidget

	Panel *panel.Panel

	// OnDrop, if set, runs after a drag ends with the slot it started from
	// and the slot it settled in.
	OnDrop func(from, to panel.Slot)

	content  *fyne.Container
	captured *Tile
	dirty    bool // a measure/arrange pass was requested
	gestures gesture.Options
	log      *slog.Logger
}

var _ panel.Surface = (*Board)(nil)

func NewBoard(opts panel.Options, g gesture.Options, l *slog.Logger) *Board {
	b := &Board{content: container.NewWithoutLayout(), gestures: g, log: l}
	if opts.Logger == nil {
		opts.Logger = l
	}
	if g.Logger == nil {
		b.gestures.Logger = l
	}
	b.Panel = panel.New(b, opts)
	b.Panel.ActivePage.OnChange(func(_, _ int) { b.Refresh() })
	b.ExtendBaseWidget(b)
	return b
}

// NewTile creates a tile wired to this board's drag controller.
func (b *Board) NewTile(id, label string, fill color.RGBA) *Tile {
	t := &Tile{id: id, label: label, fill: fill, opacity: 1, transform: geom.Identity, board: b}
	t.rec = gesture.New(t, b.Panel.Drag(), sched.NewTimer(fyne.Do), b.gestures)
	t.ExtendBaseWidget(t)
	return t
}

func tileOf(el panel.Element) *Tile {
	t, ok := el.(*Tile)
	if !ok {
		panic("ui: board elements must be *ui.Tile")
	}
	return t
}

// toPanel converts an absolute canvas position into panel coordinates.
func (b *Board) toPanel(abs fyne.Position) geom.Pt {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(b)
	return geom.Pt{X: abs.X - origin.X, Y: abs.Y - origin.Y}
}

func (b *Board) Attach(el panel.Element) {
	t := tileOf(el)
	b.content.Add(t)
	b.sortZ()
}

func (b *Board) Detach(el panel.Element) {
	t := tileOf(el)
	t.stopAnimation()
	b.content.Remove(t)
}

func (b *Board) Measure(el panel.Element, _ geom.Size) geom.Size {
	s := tileOf(el).MinSize()
	return geom.Size{W: s.Width, H: s.Height}
}

func (b *Board) Arrange(el panel.Element, r geom.Rect) {
	t := tileOf(el)
	t.slot = r
	t.apply(t.transform)
}

func (b *Board) Transform(el panel.Element) geom.Affine { return tileOf(el).transform }

func (b *Board) SetTransform(el panel.Element, m geom.Affine) {
	t := tileOf(el)
	t.stopAnimation()
	t.apply(m)
}

func (b *Board) SetOpacity(el panel.Element, v float32) {
	t := tileOf(el)
	t.opacity = v
	t.Refresh()
}

func (b *Board) SetZ(el panel.Element, z int) {
	tileOf(el).z = z
	b.sortZ()
}

func (b *Board) sortZ() {
	objs := b.content.Objects
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].(*Tile).z < objs[j].(*Tile).z })
	b.content.Refresh()
}

func (b *Board) Capture(el panel.Element) { b.captured = tileOf(el) }

func (b *Board) Release(el panel.Element) {
	if b.captured == tileOf(el) {
		b.captured = nil
	}
}

// Animate runs t on the fyne animation clock. Ticks run on the UI goroutine,
// so done can call back into the panel directly.
func (b *Board) Animate(el panel.Element, tr panel.Transition, done func()) {
	t := tileOf(el)
	t.stopAnimation()
	from := t.transform
	t.animGen++
	gen := t.animGen
	a := fyne.NewAnimation(tr.Duration, func(p float32) {
		if t.animGen != gen {
			return
		}
		t.apply(anim.Lerp(from, tr.To, p))
		if p >= 1 {
			t.anim = nil
			if done != nil {
				done()
			}
		}
	})
	a.Curve = fyne.AnimationCurve(tr.Easing.Apply)
	t.anim = a
	a.Start()
}

// Invalidate marks the layout stale. The arrange pass runs on the next
// renderer layout, so plain repaints never restart transitions.
func (b *Board) Invalidate() {
	b.dirty = true
	b.Refresh()
}

func (b *Board) MinSize() fyne.Size {
	b.ExtendBaseWidget(b)
	s := b.Panel.Measure(geom.Unbounded)
	return fyne.NewSize(s.W, s.H)
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	return &boardRenderer{b: b, bg: bg}
}

type boardRenderer struct {
	b        *Board
	bg       *canvas.Rectangle
	frames   []*canvas.Rectangle // page and grid outline per page
	objects  []fyne.CanvasObject
	lastSize fyne.Size
}

var (
	pageStroke   = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	activeStroke = color.RGBA{R: 40, G: 120, B: 220, A: 255}
	gridStroke   = color.RGBA{R: 200, G: 0, B: 0, A: 160}
)

func (r *boardRenderer) Destroy()                     {}
func (r *boardRenderer) MinSize() fyne.Size           { return r.b.MinSize() }
func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

// syncFrames rebuilds the frame objects when the page count changed.
func (r *boardRenderer) syncFrames() bool {
	n := r.b.Panel.PageCount()
	if len(r.frames) == 2*n && r.objects != nil {
		return false
	}
	r.frames = r.frames[:0]
	for range n {
		page := canvas.NewRectangle(color.RGBA{R: 250, G: 250, B: 250, A: 255})
		page.StrokeWidth = 2
		grid := canvas.NewRectangle(color.Transparent)
		grid.StrokeColor = gridStroke
		grid.StrokeWidth = 1
		r.frames = append(r.frames, page, grid)
	}
	r.objects = []fyne.CanvasObject{r.bg}
	for _, f := range r.frames {
		r.objects = append(r.objects, f)
	}
	r.objects = append(r.objects, r.b.content)
	return true
}

func (r *boardRenderer) Refresh() {
	changed := r.syncFrames()
	r.Layout(r.b.Size())
	active := r.b.Panel.ActivePage.Get()
	for i := 0; i < len(r.frames); i += 2 {
		page := r.frames[i]
		page.StrokeColor = pageStroke
		page.StrokeWidth = 2
		if i/2 == active {
			page.StrokeColor = activeStroke
			page.StrokeWidth = 4
		}
		page.Refresh()
	}
	if changed {
		canvas.Refresh(r.b)
	}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.syncFrames()
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.b.content.Resize(size)

	m := r.b.Panel.Metrics()
	for i := 0; i < len(r.frames); i += 2 {
		place(r.frames[i], m.PageRect(i/2))
		place(r.frames[i+1], m.GridRect(i/2))
	}

	if !r.b.dirty && size == r.lastSize {
		return
	}
	r.b.dirty = false
	r.lastSize = size
	avail := r.b.Panel.Measure(geom.Size{W: size.Width, H: size.Height})
	r.b.Panel.Arrange(avail)
}

func place(o fyne.CanvasObject, rect geom.Rect) {
	o.Move(fyne.NewPos(rect.X, rect.Y))
	o.Resize(fyne.NewSize(rect.W, rect.H))
}

// Tile is a draggable panel element. Pointer input is relayed to a
// gesture.Recognizer; fyne routes drag events to the tile that saw the
// press, which gives capture semantics for free.
type Tile struct {
	widget.BaseWidget

	id, label string
	fill      color.RGBA
	board     *Board
	rec       *gesture.Recognizer

	slot      geom.Rect
	transform geom.Affine
	opacity   float32
	z         int
	pressed   gesture.Buttons
	anim      *fyne.Animation
	animGen   uint64
}

var (
	_ panel.Element     = (*Tile)(nil)
	_ desktop.Mouseable = (*Tile)(nil)
	_ desktop.Hoverable = (*Tile)(nil)
	_ fyne.Draggable    = (*Tile)(nil)
)

func (t *Tile) ID() string { return t.id }

func (t *Tile) stopAnimation() {
	t.animGen++
	if t.anim != nil {
		t.anim.Stop()
		t.anim = nil
	}
}

// apply maps a translate+scale transform onto the tile's position and size.
func (t *Tile) apply(m geom.Affine) {
	t.transform = m
	s, _ := m.ScaleFactor()
	t.Move(fyne.NewPos(m.E, m.F))
	t.Resize(fyne.NewSize(t.slot.W*s, t.slot.H*s))
}

func buttonOf(b desktop.MouseButton) (gesture.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return gesture.Left, true
	case desktop.MouseButtonSecondary:
		return gesture.Right, true
	case desktop.MouseButtonTertiary:
		return gesture.Middle, true
	}
	return 0, false
}

func (t *Tile) inside(local fyne.Position) bool {
	s := t.Size()
	return local.X >= 0 && local.Y >= 0 && local.X < s.Width && local.Y < s.Height
}

func (t *Tile) event(btn gesture.Button, pe fyne.PointEvent) gesture.PointerEvent {
	return gesture.PointerEvent{
		Button:  btn,
		Pressed: t.pressed,
		Local:   geom.Pt{X: pe.Position.X, Y: pe.Position.Y},
		Panel:   t.board.toPanel(pe.AbsolutePosition),
		Inside:  t.inside(pe.Position),
	}
}

func (t *Tile) MouseDown(e *desktop.MouseEvent) {
	btn, ok := buttonOf(e.Button)
	if !ok {
		return
	}
	t.pressed |= gesture.Of(btn)
	t.rec.PointerDown(t.event(btn, e.PointEvent))
}

func (t *Tile) MouseUp(e *desktop.MouseEvent) {
	btn, ok := buttonOf(e.Button)
	if !ok {
		return
	}
	t.pressed &^= gesture.Of(btn)
	d := t.board.Panel.Drag()
	s := d.Session()
	t.rec.PointerUp(t.event(btn, e.PointEvent))
	if s != nil && d.Session() == nil && t.board.OnDrop != nil {
		t.board.OnDrop(s.Origin(), s.Source())
	}
}

func (t *Tile) MouseIn(*desktop.MouseEvent) {}

func (t *Tile) MouseMoved(e *desktop.MouseEvent) { t.rec.PointerMove(t.event(0, e.PointEvent)) }

func (t *Tile) MouseOut() {
	if !t.rec.Dragging() {
		t.rec.PointerLeave()
	}
}

func (t *Tile) Dragged(e *fyne.DragEvent) { t.rec.PointerMove(t.event(0, e.PointEvent)) }

// DragEnd is a no-op: the release arrives through MouseUp with its position.
func (t *Tile) DragEnd() {}

func (t *Tile) MinSize() fyne.Size {
	t.ExtendBaseWidget(t)
	return fyne.NewSize(40, 30)
}

func (t *Tile) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(t.fill)
	bg.StrokeColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	bg.StrokeWidth = 1
	bg.CornerRadius = 6
	txt := canvas.NewText(t.label, color.Black)
	txt.Alignment = fyne.TextAlignCenter
	txt.TextSize = 12
	return &tileRenderer{t: t, bg: bg, txt: txt}
}

type tileRenderer struct {
	t   *Tile
	bg  *canvas.Rectangle
	txt *canvas.Text
}

func (r *tileRenderer) Destroy()                     {}
func (r *tileRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.bg, r.txt} }
func (r *tileRenderer) MinSize() fyne.Size           { return r.t.MinSize() }

func (r *tileRenderer) Layout(size fyne.Size) {
	inset := float32(4)
	r.bg.Move(fyne.NewPos(inset, inset))
	r.bg.Resize(fyne.NewSize(max(size.Width-2*inset, 0), max(size.Height-2*inset, 0)))
	ts := r.txt.MinSize()
	r.txt.Move(fyne.NewPos(0, (size.Height-ts.Height)/2))
	r.txt.Resize(fyne.NewSize(size.Width, ts.Height))
}

func (r *tileRenderer) Refresh() {
	a := uint8(255 * r.t.opacity)
	fill := r.t.fill
	fill.A = a
	r.bg.FillColor = fill
	r.bg.StrokeColor = color.RGBA{R: 30, G: 30, B: 30, A: a}
	r.txt.Color = color.RGBA{A: a}
	r.Layout(r.t.Size())
	canvas.Refresh(r.t)
}
