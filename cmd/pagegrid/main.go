/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pagegrid/internal/config"
	"pagegrid/internal/crash"
	"pagegrid/internal/export"
	"pagegrid/internal/geom"
	"pagegrid/internal/headless"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
	"pagegrid/internal/telemetry"
	"pagegrid/internal/ui"
	"pagegrid/internal/version"
)

func usage() {
	fmt.Println("pagegrid - paged grid layout with drag-to-reorder")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pagegrid version|-v|--version               Show version")
	fmt.Println("  pagegrid layout [pages] [items]              Print the cell layout of a demo panel")
	fmt.Println("  pagegrid simulate <item> <x> <y> [pages] [items]")
	fmt.Println("                                               Drag <item> to panel point (x,y) and print the result")
	fmt.Println("  pagegrid export <out.png|pdf|svg> [pages] [items]")
	fmt.Println("                                               Write a layout snapshot")
	fmt.Println("  pagegrid ui                                  Launch desktop UI (build with -tags fyne)")
	fmt.Println()
	fmt.Println("Configuration is read from $PAGEGRID_CONFIG or the user config dir.")
}

var (
	demoPages = 2
	demoItems = 5
)

func main() {
	cfg, cerr := config.Load()
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("cli")
	var p *panel.Panel
	defer crash.Recover(crash.Options{Layout: func() panel.Snapshot { return p.Snapshot() }})

	if cerr != nil {
		l.Error("config load failed", slog.Any("err", cerr))
		fmt.Println("Error:", cerr)
		os.Exit(1)
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("pagegrid")
		fmt.Println(version.String())
	case "layout":
		pages, items, err := counts(args[2:])
		if err != nil {
			fail(l, "layout", err, 2)
		}
		if p, _, err = demoPanel(cfg, pages, items); err != nil {
			fail(l, "layout", err, 1)
		}
		printLayout(os.Stdout, p.Snapshot())
	case "simulate":
		if len(args) < 5 {
			fmt.Println("simulate requires <item> <x> <y>")
			usage()
			os.Exit(2)
		}
		x, xerr := strconv.ParseFloat(args[3], 32)
		y, yerr := strconv.ParseFloat(args[4], 32)
		if xerr != nil || yerr != nil {
			fail(l, "simulate", fmt.Errorf("invalid point %q,%q", args[3], args[4]), 2)
		}
		pages, items, err := counts(args[5:])
		if err != nil {
			fail(l, "simulate", err, 2)
		}
		var s *headless.Surface
		if p, s, err = demoPanel(cfg, pages, items); err != nil {
			fail(l, "simulate", err, 1)
		}
		fmt.Println("before:")
		printOrder(os.Stdout, p)
		from, to, err := simulate(p, s, args[2], geom.Pt{X: float32(x), Y: float32(y)})
		if err != nil {
			fail(l, "simulate", err, 1)
		}
		telemetry.Default().Reorder(from.Page, from.Index, to.Page, to.Index)
		flushTelemetry()
		fmt.Println("after:")
		printOrder(os.Stdout, p)
	case "export":
		if len(args) < 3 {
			fmt.Println("export requires <out>")
			usage()
			os.Exit(2)
		}
		out, _ := filepath.Abs(args[2])
		pages, items, err := counts(args[3:])
		if err != nil {
			fail(l, "export", err, 2)
		}
		if p, _, err = demoPanel(cfg, pages, items); err != nil {
			fail(l, "export", err, 1)
		}
		l.Info("export", slog.String("out", out))
		if err := export.WriteFile(out, p.Snapshot(), export.Options{Labels: true, Title: "pagegrid"}); err != nil {
			fail(l, "export", err, 1)
		}
		if f, err := export.FormatFromPath(out); err == nil {
			telemetry.Default().Export(string(f), p.PageCount())
			flushTelemetry()
		}
		fmt.Println("Wrote", out)
	case "ui":
		if err := ui.Run(ui.Options{Config: cfg}); err != nil {
			fail(l, "ui", err, 1)
		}
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Printf("Unknown command: %s\n", args[1])
		usage()
		os.Exit(2)
	}
}

func fail(l *slog.Logger, op string, err error, code int) {
	l.Error(op+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(code)
}

func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	telemetry.Default().Flush(ctx)
}

// counts parses the optional [pages] [items] arguments.
func counts(args []string) (pages, items int, err error) {
	pages, items = demoPages, demoItems
	if len(args) > 0 {
		if pages, err = strconv.Atoi(args[0]); err != nil || pages < 1 {
			return 0, 0, fmt.Errorf("invalid page count %q", args[0])
		}
	}
	if len(args) > 1 {
		if items, err = strconv.Atoi(args[1]); err != nil || items < 0 {
			return 0, 0, fmt.Errorf("invalid item count %q", args[1])
		}
	}
	return pages, items, nil
}

// demoPanel builds a headless panel with items named "<page>-<n>" and runs
// the initial snap pass.
func demoPanel(cfg config.AppConfig, pages, items int) (*panel.Panel, *headless.Surface, error) {
	opts, err := cfg.PanelOptions()
	if err != nil {
		return nil, nil, err
	}
	s := headless.New()
	p := panel.New(s, opts)
	for i := range pages {
		if err := p.AddPage(panel.NewPage(headless.Items(strconv.Itoa(i)+"-", items)...)); err != nil {
			return nil, nil, err
		}
	}
	s.Pump(p)
	return p, s, nil
}

// simulate drags the named item from the center of its cell to target,
// moving in a straight line, and lets all transitions settle. It returns the
// slot the item started in and the slot it ended up in.
func simulate(p *panel.Panel, s *headless.Surface, id string, target geom.Pt) (from, to panel.Slot, err error) {
	el, slot, ok := p.Find(id)
	if !ok {
		return slot, slot, fmt.Errorf("item %q: %w", id, panel.ErrUnknownElement)
	}
	m := p.Metrics()
	cell := m.CellRect(slot.Page, slot.Index)
	grab := geom.Pt{X: cell.W / 2, Y: cell.H / 2}
	start := cell.Center()

	d := p.Drag()
	sess, err := d.Start(el, grab, start)
	if err != nil {
		return slot, slot, err
	}
	const steps = 8
	for i := 1; i <= steps; i++ {
		t := float32(i) / steps
		pos := start.Add(target.Sub(start).Mul(t))
		if err := d.Move(sess, grab, pos); err != nil {
			return slot, slot, err
		}
		s.Pump(p)
	}
	if err := d.End(sess, grab, target); err != nil {
		return slot, slot, err
	}
	s.Pump(p)
	s.Flush()
	return sess.Origin(), sess.Source(), nil
}

func printOrder(w io.Writer, p *panel.Panel) {
	for i := range p.PageCount() {
		pg, _ := p.Page(i)
		ids := make([]string, 0, pg.Len())
		for _, el := range pg.Items() {
			ids = append(ids, el.ID())
		}
		fmt.Fprintf(w, "  page %d: %s\n", i, strings.Join(ids, " "))
	}
}

func printLayout(w io.Writer, snap panel.Snapshot) {
	rows, cols := snap.Metrics.GridDims()
	fmt.Fprintf(w, "%s, %d pages, %gx%g content, %dx%d cells per page\n",
		snap.Metrics.Orientation, len(snap.Pages), snap.Size.W, snap.Size.H, rows, cols)
	for _, pg := range snap.Pages {
		fmt.Fprintf(w, "page %d at (%g,%g) grid (%g,%g %gx%g)\n",
			pg.Index, pg.Rect.X, pg.Rect.Y, pg.Grid.X, pg.Grid.Y, pg.Grid.W, pg.Grid.H)
		for _, c := range pg.Cells {
			name := c.Element
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "  [%d] (%g,%g) %s\n", c.Index, c.Rect.X, c.Rect.Y, name)
		}
	}
}
