/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"fmt"
	"strings"
)

// Orientation selects the axis pages are laid out along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation accepts "horizontal" or "vertical" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("unknown orientation %q", s)
	}
}

// Metrics is the dimensional input of every geometry query. All functions
// on it are pure; the panel builds a fresh value from its settings per pass.
type Metrics struct {
	Orientation Orientation
	PageWidth   float32
	PageHeight  float32
	CellWidth   float32
	CellHeight  float32
}

// GridDims returns the number of cells per row and the number of rows that
// fit in a page. Both are at least 1 so degenerate cell sizes never divide by zero.
func (m Metrics) GridDims() (rowCount, colCount int) {
	rowCount, colCount = 1, 1
	if m.CellWidth > 0 {
		rowCount = max(1, Floor(m.PageWidth/m.CellWidth))
	}
	if m.CellHeight > 0 {
		colCount = max(1, Floor(m.PageHeight/m.CellHeight))
	}
	return rowCount, colCount
}

// Capacity is the number of cells in one page grid.
func (m Metrics) Capacity() int {
	r, c := m.GridDims()
	return r * c
}

// PageRect returns the region of page p in panel coordinates.
func (m Metrics) PageRect(p int) Rect {
	if m.Orientation == Vertical {
		return R(0, float32(p)*m.PageHeight, m.PageWidth, m.PageHeight)
	}
	return R(float32(p)*m.PageWidth, 0, m.PageWidth, m.PageHeight)
}

// GridRect returns the cell grid of page p, centered within the page.
func (m Metrics) GridRect(p int) Rect {
	page := m.PageRect(p)
	r, c := m.GridDims()
	w := float32(r) * m.CellWidth
	h := float32(c) * m.CellHeight
	return R(page.X+(m.PageWidth-w)/2, page.Y+(m.PageHeight-h)/2, w, h)
}

// CellRect returns the rectangle of cell i on page p. Cells are addressed
// row-major; indexes beyond Capacity continue below the grid. The row divisor
// is the number of cells per row, which keeps CellIndexAt its exact inverse
// on non-square grids.
func (m Metrics) CellRect(p, i int) Rect {
	grid := m.GridRect(p)
	r, _ := m.GridDims()
	col := i % r
	row := i / r
	return R(grid.X+float32(col)*m.CellWidth, grid.Y+float32(row)*m.CellHeight, m.CellWidth, m.CellHeight)
}

// PageIndexAt returns the page under pt. The result may be negative or past
// the last page; callers bounds-check.
func (m Metrics) PageIndexAt(pt Pt) int {
	if m.Orientation == Vertical {
		return Floor(pt.Y / m.PageHeight)
	}
	return Floor(pt.X / m.PageWidth)
}

// CellIndexAt returns the cell index on page p under pt, using the same
// row-major addressing as CellRect. Points outside the grid produce indexes
// that do not name a real cell; use GridRect(p).Contains first.
func (m Metrics) CellIndexAt(pt Pt, p int) int {
	grid := m.GridRect(p)
	r, _ := m.GridDims()
	local := pt.Sub(grid.Min())
	return Floor(local.X/m.CellWidth) + Floor(local.Y/m.CellHeight)*r
}

// ContentSize is the panel's desired size for n pages. Pages are fixed-size
// regions, so occupancy does not matter.
func (m Metrics) ContentSize(n int) Size {
	if m.Orientation == Vertical {
		return Size{W: m.PageWidth, H: m.PageHeight * float32(n)}
	}
	return Size{W: m.PageWidth * float32(n), H: m.PageHeight}
}
