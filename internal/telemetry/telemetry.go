/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous usage events (reorders, exports,
// UI sessions) and crash reports. It is disabled unless both opted in and
// given an endpoint; nothing identifying the user's items is sent.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	applog "pagegrid/internal/log"
	"pagegrid/internal/version"
)

// Config holds runtime configuration for telemetry and crash uploads.
//
// Environment variables (read by FromEnv):
// - PAGEGRID_TELEMETRY_OPT_IN: "1", "true", "yes" or "on" to enable
// - PAGEGRID_TELEMETRY_URL: endpoint receiving JSON events
// - PAGEGRID_CRASH_UPLOAD_URL: endpoint receiving plain-text crash reports
// - PAGEGRID_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

const DefaultTimeout = 1500 * time.Millisecond

func FromEnv() Config {
	cfg := Config{
		OptIn:     ParseBool(os.Getenv("PAGEGRID_TELEMETRY_OPT_IN")),
		EventsURL: strings.TrimSpace(os.Getenv("PAGEGRID_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("PAGEGRID_CRASH_UPLOAD_URL")),
		Timeout:   DefaultTimeout,
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv("PAGEGRID_TELEMETRY_TIMEOUT_MS"))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// ParseBool accepts the usual truthy spellings; everything else is false.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Event is the JSON body posted for each event.
type Event struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Client sends events from a background goroutine through a bounded queue.
// Sending never blocks the caller; events are dropped when the queue is full.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	q       chan Event
	pending sync.WaitGroup
	once    sync.Once
	closed  chan struct{}
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan Event, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events are sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Send queues a named event. Props must not contain item identifiers.
func (c *Client) Send(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	ev := Event{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Props:   props,
	}
	c.pending.Add(1)
	select {
	case c.q <- ev:
	default:
		c.pending.Done()
		c.log.Debug("telemetry queue full, event dropped", slog.String("event", name))
	}
}

// Reorder records a completed drag. Only slot positions are reported.
func (c *Client) Reorder(fromPage, fromIndex, toPage, toIndex int) {
	c.Send("reorder", map[string]any{
		"from_page": fromPage, "from_index": fromIndex,
		"to_page": toPage, "to_index": toIndex,
		"cross_page": fromPage != toPage,
	})
}

// Export records a snapshot export.
func (c *Client) Export(format string, pages int) {
	c.Send("export", map[string]any{"format": format, "pages": pages})
}

// Flush waits until queued events are sent or ctx is done.
func (c *Client) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close stops the background goroutine. Queued events are discarded.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case ev := <-c.q:
			c.post(c.cfg.EventsURL, "application/json", c.encode(ev))
			c.pending.Done()
		}
	}
}

func (c *Client) encode(ev Event) []byte {
	b, err := json.Marshal(ev)
	if err != nil {
		c.log.Debug("telemetry encode failed", slog.Any("err", err))
	}
	return b
}

func (c *Client) post(url, contentType string, body []byte) bool {
	if body == nil {
		return false
	}
	resp, err := c.cli.Post(url, contentType, bytes.NewReader(body))
	if err != nil {
		c.log.Debug("telemetry send failed", slog.Any("err", err))
		return false
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		c.log.Debug("telemetry endpoint rejected request", slog.Int("status", resp.StatusCode))
		return false
	}
	return true
}

// UploadCrash posts a crash report and waits for the result, since the
// process is about to exit. It reports whether the upload succeeded.
func (c *Client) UploadCrash(report []byte) bool {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" || len(report) == 0 {
		return false
	}
	return c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", report)
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide client, creating it from the environment
// on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault replaces the process-wide client, closing the previous one.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient != nil && defaultClient != c {
		defaultClient.Close()
	}
	defaultClient = c
}
