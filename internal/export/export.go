/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a panel layout snapshot to PNG, PDF or SVG so a
// layout can be reviewed outside the running UI.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pagegrid/internal/panel"
)

// Style controls colors and stroke widths; zero values fall back to DefaultStyle.
type Style struct {
	Background color.RGBA
	PageStroke color.RGBA
	GridStroke color.RGBA
	CellStroke color.RGBA
	CellFill   color.RGBA // occupied cells
	Label      color.RGBA
	Stroke     float64 // line width in layout units (PDF/SVG)
}

func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{255, 255, 255, 255},
		PageStroke: color.RGBA{0, 0, 0, 255},
		GridStroke: color.RGBA{255, 0, 0, 255},
		CellStroke: color.RGBA{160, 160, 160, 255},
		CellFill:   color.RGBA{220, 232, 250, 255},
		Label:      color.RGBA{20, 20, 20, 255},
		Stroke:     1,
	}
}

// Options controls export behavior.
//   - Scale: output pixels per layout unit for PNG and SVG (default 1)
//   - Pages: if empty, export all
//   - Labels: draw element IDs in occupied cells
type Options struct {
	Scale  float64
	Pages  []int
	Labels bool
	Title  string
	Style  Style
}

func (o Options) normalized() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	d := DefaultStyle()
	s := &o.Style
	orDefault(&s.Background, d.Background)
	orDefault(&s.PageStroke, d.PageStroke)
	orDefault(&s.GridStroke, d.GridStroke)
	orDefault(&s.CellStroke, d.CellStroke)
	orDefault(&s.CellFill, d.CellFill)
	orDefault(&s.Label, d.Label)
	if s.Stroke <= 0 {
		s.Stroke = d.Stroke
	}
	return o
}

func orDefault(c *color.RGBA, def color.RGBA) {
	if *c == (color.RGBA{}) {
		*c = def
	}
}

// selectPages returns the requested pages in order, skipping unknown indexes.
func selectPages(snap panel.Snapshot, specific []int) []panel.PageSnapshot {
	if len(specific) == 0 {
		return snap.Pages
	}
	var out []panel.PageSnapshot
	for _, i := range specific {
		if i >= 0 && i < len(snap.Pages) {
			out = append(out, snap.Pages[i])
		}
	}
	return out
}

// Format names an output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// ParseFormat accepts a format name, case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatPDF, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Write renders snap in format f to w.
func Write(w io.Writer, f Format, snap panel.Snapshot, opt Options) error {
	switch f {
	case FormatPNG:
		return PNG(w, snap, opt)
	case FormatPDF:
		return PDF(w, snap, opt)
	case FormatSVG:
		return SVG(w, snap, opt)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteFile renders snap to path, creating parent directories. The format
// follows the file extension.
func WriteFile(path string, snap panel.Snapshot, opt Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	if err := Write(out, f, snap, opt); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f, err)
	}
	return nil
}
