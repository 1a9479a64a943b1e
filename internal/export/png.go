/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"pagegrid/internal/geom"
	"pagegrid/internal/panel"
)

// ErrEmpty is returned when a snapshot has no pages to render.
var ErrEmpty = errors.New("export: snapshot has no pages")

// PNG rasterizes the snapshot into a single image covering the panel's
// content size. Pages not selected by opt.Pages are left blank.
func PNG(w io.Writer, snap panel.Snapshot, opt Options) error {
	img, err := Rasterize(snap, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize draws the snapshot into an RGBA image.
func Rasterize(snap panel.Snapshot, opt Options) (*image.RGBA, error) {
	if len(snap.Pages) == 0 {
		return nil, ErrEmpty
	}
	opt = opt.normalized()
	st := opt.Style
	px := func(v float32) int { return int(math.Round(float64(v) * opt.Scale)) }

	img := image.NewRGBA(image.Rect(0, 0, px(snap.Size.W), px(snap.Size.H)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: st.Background}, image.Point{}, draw.Src)

	box := func(r geom.Rect) (x0, y0, x1, y1 int) {
		return px(r.X), px(r.Y), px(r.X+r.W) - 1, px(r.Y+r.H) - 1
	}
	for _, pg := range selectPages(snap, opt.Pages) {
		for _, c := range pg.Cells {
			x0, y0, x1, y1 := box(c.Rect)
			if c.Element != "" {
				fillRect(img, x0, y0, x1, y1, st.CellFill)
			}
			strokeRect(img, x0, y0, x1, y1, st.CellStroke)
			if opt.Labels && c.Element != "" {
				drawLabel(img, x0+3, y0+13, x1-x0-5, c.Element, st.Label)
			}
		}
		gx0, gy0, gx1, gy1 := box(pg.Grid)
		strokeRect(img, gx0, gy0, gx1, gy1, st.GridStroke)
		x0, y0, x1, y1 := box(pg.Rect)
		strokeRect(img, x0, y0, x1, y1, st.PageStroke)
	}
	return img, nil
}

// drawLabel writes s with its baseline at (x, y), truncated to maxW pixels.
func drawLabel(img *image.RGBA, x, y, maxW int, s string, col color.RGBA) {
	face := basicfont.Face7x13
	s = fitLabel(face, s, maxW)
	if s == "" {
		return
	}
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func fitLabel(face font.Face, s string, maxW int) string {
	r := []rune(s)
	for len(r) > 0 && font.MeasureString(face, string(r)).Ceil() > maxW {
		r = r[:len(r)-1]
	}
	return string(r)
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
