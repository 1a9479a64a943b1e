/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the 2D primitives and the pure page/grid/cell
// geometry used by the panel. Values are float32 to line up with the
// UI toolkit coordinates they end up in.
package geom

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float32 }

// Sub returns p - o.
func (p Pt) Sub(o Pt) Pt { return Pt{p.X - o.X, p.Y - o.Y} }

// Add returns p + o.
func (p Pt) Add(o Pt) Pt { return Pt{p.X + o.X, p.Y + o.Y} }

// Mul scales both coordinates by s.
func (p Pt) Mul(s float32) Pt { return Pt{p.X * s, p.Y * s} }

// Size is a width/height pair.
type Size struct{ W, H float32 }

// Unbounded is the measure constraint used for children: no limit on either axis.
var Unbounded = Size{W: float32(math.Inf(1)), H: float32(math.Inf(1))}

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float32
	W, H float32
}

func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r. The min edges are inclusive and
// the max edges exclusive, so adjacent rectangles never both claim a point.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.W && p.Y < r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Affine represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// The panel only ever produces translate+scale transforms (B and C zero).
type Affine struct{ A, B, C, D, E, F float32 }

var Identity = Affine{A: 1, D: 1}

func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Offset is the translation part of m.
func (m Affine) Offset() Pt { return Pt{m.E, m.F} }

// ScaleFactor returns the x and y scale of a translate+scale transform.
func (m Affine) ScaleFactor() (sx, sy float32) { return m.A, m.D }

func Translate(tx, ty float32) Affine { return Affine{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float32) Affine     { return Affine{A: sx, D: sy} }

// Placement scales an element about its origin by s and then moves it to (x, y).
func Placement(x, y, s float32) Affine { return Translate(x, y).Mul(Scale(s, s)) }

// Floor is math.Floor for float32 coordinates, returned as int.
func Floor(v float32) int { return int(math.Floor(float64(v))) }
