/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns an unrecovered panic into a logged error, a report
// file and a snapshot of the layout at the time of the crash.
package crash

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"pagegrid/internal/export"
	applog "pagegrid/internal/log"
	"pagegrid/internal/panel"
	"pagegrid/internal/telemetry"
	"pagegrid/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Options controls where reports go and what state they include.
type Options struct {
	// Dir receives the report; empty means os.TempDir().
	Dir string
	// Layout, if set, is called to capture the panel state for the report.
	Layout func() panel.Snapshot
	// Telemetry uploads the report when opted in; nil uses telemetry.Default().
	Telemetry *telemetry.Client
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and saves a layout snapshot (if provided).
//
// Usage: defer crash.Recover(opts)
func Recover(opts Options) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		snap, snapErr := captureLayout(opts.Layout)
		if snapErr != nil {
			l.Error("layout capture failed", slog.Any("err", snapErr))
		}
		reportPath, report, err := writeReport(opts.Dir, r, stack, snap)
		if err != nil {
			l.Error("crash report failed", slog.Any("err", err), slog.String("path", reportPath))
		}
		tc := opts.Telemetry
		if tc == nil {
			tc = telemetry.Default()
		}
		if tc.UploadCrash(report) {
			l.Info("crash report uploaded")
		}
		if snap != nil && len(snap.Pages) > 0 {
			path := strings.TrimSuffix(reportPath, ".log") + "-layout.svg"
			if err := export.WriteFile(path, *snap, export.Options{Labels: true, Title: "layout at crash"}); err != nil {
				l.Error("layout snapshot failed", slog.Any("err", err))
			} else {
				l.Info("layout snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

// captureLayout calls fn, converting a second panic into an error.
func captureLayout(fn func() panel.Snapshot) (snap *panel.Snapshot, err error) {
	if fn == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, fmt.Errorf("panic while capturing layout: %v", r)
		}
	}()
	s := fn()
	return &s, nil
}

// writeReport saves the report under dir and returns its path and contents.
func writeReport(dir string, panicVal any, stack []byte, snap *panel.Snapshot) (string, []byte, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "pagegrid Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if snap != nil {
		m := snap.Metrics
		_, _ = fmt.Fprintf(&buf, "Layout: %s page %gx%g cell %gx%g, %d pages\n",
			m.Orientation, m.PageWidth, m.PageHeight, m.CellWidth, m.CellHeight, len(snap.Pages))
		for _, pg := range snap.Pages {
			var ids []string
			for _, c := range pg.Cells {
				if c.Element != "" {
					ids = append(ids, c.Element)
				}
			}
			_, _ = fmt.Fprintf(&buf, "  page %d: %s\n", pg.Index, strings.Join(ids, ", "))
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, buf.Bytes(), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, buf.Bytes(), err
	}
	_, werr := f.Write(buf.Bytes())
	_ = f.Sync()
	return path, buf.Bytes(), errors.Join(werr, f.Close())
}
