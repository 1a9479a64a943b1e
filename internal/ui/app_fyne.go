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
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pagegrid/internal/crash"
	"pagegrid/internal/export"
	"pagegrid/internal/geom"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
	"pagegrid/internal/telemetry"
	"pagegrid/internal/version"
)

var palette = []color.RGBA{
	{R: 0x8e, G: 0xca, B: 0xe6, A: 0xff},
	{R: 0xff, G: 0xb7, B: 0x03, A: 0xff},
	{R: 0xa7, G: 0xc9, B: 0x57, A: 0xff},
	{R: 0xf2, G: 0x84, B: 0x82, A: 0xff},
	{R: 0xcd, G: 0xb4, B: 0xdb, A: 0xff},
}

// Run starts the desktop demo: a scrollable board of pages filled with
// draggable tiles.
func Run(opts Options) error {
	opts = opts.withDefaults()
	applog.Init(opts.Config.LogOptions())
	l := applog.WithComponent("ui")
	l.Info("starting UI", "version", version.String())

	var board *Board
	defer crash.Recover(crash.Options{Layout: func() panel.Snapshot { return board.Panel.Snapshot() }})
	tc := telemetry.Default()
	defer tc.Close()

	popts, err := opts.Config.PanelOptions()
	if err != nil {
		return fmt.Errorf("panel options: %w", err)
	}
	gopts, err := opts.Config.GestureOptions()
	if err != nil {
		return fmt.Errorf("gesture options: %w", err)
	}
	board = NewBoard(popts, gopts, l)

	n := 0
	for range opts.Pages {
		pg := panel.NewPage()
		for range opts.ItemsPerPage {
			n++
			t := board.NewTile("item-"+strconv.Itoa(n), strconv.Itoa(n), palette[(n-1)%len(palette)])
			if err := pg.Append(t); err != nil {
				return fmt.Errorf("seed page: %w", err)
			}
		}
		if err := board.Panel.AddPage(pg); err != nil {
			return fmt.Errorf("seed page: %w", err)
		}
	}

	fyneApp := app.NewWithID("pagegrid")
	w := fyneApp.NewWindow("pagegrid")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1000), 640)
	winH := max(prefs.IntWithFallback("window.height", 760), 480)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	refreshStatus := func() {
		u, r := 0, 0
		if h := board.Panel.History(); h != nil {
			u, r = h.Stats()
		}
		status.SetText(fmt.Sprintf("page %d of %d · %d items · undo %d · redo %d",
			board.Panel.ActivePage.Get()+1, board.Panel.PageCount(), len(board.Panel.Elements()), u, r))
	}
	board.OnDrop = func(from, to panel.Slot) {
		tc.Reorder(from.Page, from.Index, to.Page, to.Index)
		board.Panel.ActivePage.Set(to.Page)
		refreshStatus()
	}

	undoBtn := widget.NewButton("Undo", func() {
		if _, err := board.Panel.Undo(); err != nil {
			dialog.ShowError(err, w)
		}
		refreshStatus()
	})
	redoBtn := widget.NewButton("Redo", func() {
		if _, err := board.Panel.Redo(); err != nil {
			dialog.ShowError(err, w)
		}
		refreshStatus()
	})
	orient := widget.NewSelect([]string{geom.Horizontal.String(), geom.Vertical.String()}, func(s string) {
		o, err := geom.ParseOrientation(s)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		board.Panel.Orientation.Set(o)
	})
	orient.SetSelected(board.Panel.Orientation.Get().String())

	addPage := widget.NewButton("Add page", func() {
		if err := board.Panel.AddPage(panel.NewPage()); err != nil {
			dialog.ShowError(err, w)
		}
		refreshStatus()
	})
	removePage := widget.NewButton("Remove page", func() {
		last := board.Panel.PageCount() - 1
		if last < 0 {
			return
		}
		pg, err := board.Panel.Page(last)
		if err == nil {
			err = board.Panel.RemovePage(pg)
		}
		if err != nil {
			dialog.ShowError(err, w)
		}
		refreshStatus()
	})
	exportBtn := widget.NewButton("Export PNG", func() {
		path := filepath.Join(fyneApp.Storage().RootURI().Path(), "pagegrid-layout.png")
		if err := export.WriteFile(path, board.Panel.Snapshot(), export.Options{Labels: true, Title: "pagegrid"}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		tc.Export(string(export.FormatPNG), board.Panel.PageCount())
		status.SetText("Exported " + path)
	})

	scroll := container.NewScroll(board)
	board.Panel.ActivePage.OnChange(func(_, page int) {
		r := board.Panel.Metrics().PageRect(page)
		scroll.Offset = fyne.NewPos(r.X, r.Y)
		scroll.Refresh()
		refreshStatus()
	})
	prevPage := widget.NewButton("◀", func() { board.Panel.ActivePage.Set(board.Panel.ActivePage.Get() - 1) })
	nextPage := widget.NewButton("▶", func() { board.Panel.ActivePage.Set(board.Panel.ActivePage.Get() + 1) })

	toolbar := container.NewHBox(undoBtn, redoBtn, prevPage, nextPage, widget.NewLabel("Orientation:"), orient, addPage, removePage, exportBtn)
	root := container.NewBorder(toolbar, status, nil, nil, scroll)
	w.SetContent(root)
	refreshStatus()

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})
	w.ShowAndRun()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	tc.Flush(ctx)
	l.Info("UI closed")
	return nil
}
