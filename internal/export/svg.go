/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"io"
	"math"

	"pagegrid/internal/panel"
)

// SVG writes the snapshot as one document whose viewBox is the panel's
// content size in layout units; width and height are scaled by opt.Scale.
func SVG(w io.Writer, snap panel.Snapshot, opt Options) error {
	if len(snap.Pages) == 0 {
		return ErrEmpty
	}
	opt = opt.normalized()
	st := opt.Style
	size := snap.Size

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n",
		int(math.Round(float64(size.W)*opt.Scale)), int(math.Round(float64(size.H)*opt.Scale)), size.W, size.H)
	if opt.Title != "" {
		wf("  <title>%s</title>\n", html.EscapeString(opt.Title))
	}
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", size.W, size.H, svgColor(st.Background))

	half := st.Stroke / 2
	for _, pg := range selectPages(snap, opt.Pages) {
		wf("  <g id=\"page-%d\">\n", pg.Index)
		for _, c := range pg.Cells {
			r := c.Rect
			fill := "none"
			if c.Element != "" {
				fill = svgColor(st.CellFill)
			}
			wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				r.X, r.Y, r.W, r.H, fill, svgColor(st.CellStroke), half)
			if opt.Labels && c.Element != "" {
				wf("    <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"9\" fill=\"%s\">%s</text>\n",
					r.X+3, r.Y+11, svgColor(st.Label), html.EscapeString(c.Element))
			}
		}
		g := pg.Grid
		wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			g.X, g.Y, g.W, g.H, svgColor(st.GridStroke), st.Stroke)
		p := pg.Rect
		wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			p.X, p.Y, p.W, p.H, svgColor(st.PageStroke), st.Stroke)
		wf("  </g>\n")
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
