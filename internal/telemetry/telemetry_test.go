/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type sink struct {
	mu      sync.Mutex
	events  []Event
	crashes []string
}

func (s *sink) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.events = append(s.events, ev)
		s.mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.crashes = append(s.crashes, string(b))
		s.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func flush(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Flush(ctx)
}

func TestReorderAndExportEvents(t *testing.T) {
	var s sink
	srv := s.server(t)
	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", Timeout: time.Second})
	defer c.Close()

	c.Reorder(0, 1, 1, 3)
	c.Export("png", 2)
	flush(t, c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) != 2 {
		t.Fatalf("events = %d, want 2", len(s.events))
	}
	ev := s.events[0]
	if ev.Name != "reorder" || ev.TS == "" || ev.Version == "" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Props["cross_page"] != true || ev.Props["to_index"] != float64(3) {
		t.Fatalf("reorder props = %v", ev.Props)
	}
	if s.events[1].Name != "export" || s.events[1].Props["format"] != "png" {
		t.Fatalf("export event = %+v", s.events[1])
	}
}

func TestUploadCrashIsSynchronous(t *testing.T) {
	var s sink
	srv := s.server(t)
	c := New(Config{OptIn: true, CrashURL: srv.URL + "/crash"})
	defer c.Close()

	if !c.UploadCrash([]byte("STACK")) {
		t.Fatalf("upload failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.crashes) != 1 || s.crashes[0] != "STACK" {
		t.Fatalf("crashes = %v", s.crashes)
	}
}

func TestDisabledClientSendsNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, CrashURL: srv.URL})
	defer c.Close()
	if c.Enabled() {
		t.Fatalf("expected disabled client")
	}
	c.Send("ignored", nil)
	if c.UploadCrash([]byte("x")) {
		t.Fatalf("upload should be refused when not opted in")
	}

	c2 := New(Config{OptIn: true, EventsURL: srv.URL})
	defer c2.Close()
	c2.Send("", nil)
	flush(t, c)
	flush(t, c2)
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}

	var nilClient *Client
	if nilClient.Enabled() || nilClient.UploadCrash([]byte("x")) {
		t.Fatalf("nil client must be inert")
	}
}

func TestUnreachableEndpoint(t *testing.T) {
	c := New(Config{OptIn: true, EventsURL: "http://127.0.0.1:1/events", CrashURL: "http://127.0.0.1:1/crash", Timeout: 50 * time.Millisecond})
	defer c.Close()
	c.Send("started", nil)
	flush(t, c)
	if c.UploadCrash([]byte("x")) {
		t.Fatalf("upload to unreachable endpoint reported success")
	}
}

func TestFromEnvAndDefault(t *testing.T) {
	t.Setenv("PAGEGRID_TELEMETRY_OPT_IN", "yes")
	t.Setenv("PAGEGRID_TELEMETRY_URL", " http://127.0.0.1:0/events ")
	t.Setenv("PAGEGRID_CRASH_UPLOAD_URL", "")
	t.Setenv("PAGEGRID_TELEMETRY_TIMEOUT_MS", "100")

	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "http://127.0.0.1:0/events" || cfg.Timeout != 100*time.Millisecond {
		t.Fatalf("FromEnv = %+v", cfg)
	}

	t.Setenv("PAGEGRID_TELEMETRY_TIMEOUT_MS", "bogus")
	if got := FromEnv().Timeout; got != DefaultTimeout {
		t.Fatalf("timeout fallback = %v", got)
	}

	c := New(cfg)
	SetDefault(c)
	defer SetDefault(nil)
	if Default() != c || !Default().Enabled() {
		t.Fatalf("Default did not return installed client")
	}
}
