/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"pagegrid/internal/geom"
	"pagegrid/internal/panel"
)

// PDF writes one vector page per selected panel page. Units are points and
// map 1:1 to layout units; coordinates are relative to each page's origin.
// Built-in Helvetica keeps labels vector without embedding.
func PDF(w io.Writer, snap panel.Snapshot, opt Options) error {
	pages := selectPages(snap, opt.Pages)
	if len(pages) == 0 {
		return ErrEmpty
	}
	opt = opt.normalized()
	st := opt.Style
	size := gofpdf.SizeType{Wd: float64(snap.Metrics.PageWidth), Ht: float64(snap.Metrics.PageHeight)}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: size, OrientationStr: "P"})
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	pdf.SetCreator("pagegrid", false)
	pdf.SetFont("Helvetica", "", 9)

	for _, pg := range pages {
		pdf.AddPageFormat("P", size)
		origin := pg.Rect.Min()
		rect := func(r geom.Rect, style string) {
			pdf.Rect(float64(r.X-origin.X), float64(r.Y-origin.Y), float64(r.W), float64(r.H), style)
		}

		pdf.SetLineWidth(st.Stroke / 2)
		setDrawColor(pdf, st.CellStroke)
		setFillColor(pdf, st.CellFill)
		for _, c := range pg.Cells {
			if c.Element == "" {
				rect(c.Rect, "D")
				continue
			}
			rect(c.Rect, "FD")
			if opt.Labels {
				pdf.SetTextColor(int(st.Label.R), int(st.Label.G), int(st.Label.B))
				pdf.Text(float64(c.Rect.X-origin.X)+3, float64(c.Rect.Y-origin.Y)+11, fitPDFLabel(pdf, c.Element, float64(c.Rect.W)-6))
			}
		}

		pdf.SetLineWidth(st.Stroke)
		setDrawColor(pdf, st.GridStroke)
		rect(pg.Grid, "D")
		setDrawColor(pdf, st.PageStroke)
		rect(pg.Rect, "D")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func fitPDFLabel(pdf *gofpdf.Fpdf, s string, maxW float64) string {
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)) > maxW {
		r = r[:len(r)-1]
	}
	return string(r)
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
