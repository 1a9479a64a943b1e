/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package setting provides observable configuration values: each value has a
// getter, a setter that applies an optional coercion before storing, and
// change hooks invoked synchronously with the old and new value.
package setting

// Setting is a single observable value. It is not safe for concurrent use;
// like the panel it configures, it lives on the UI goroutine.
type Setting[T any] struct {
	v      T
	coerce func(T) T
	equal  func(a, b T) bool
	hooks  []func(old, new T)
}

// Option configures a Setting at construction time.
type Option[T any] func(*Setting[T])

// WithCoerce installs a pure validation function applied to every value
// before it is stored (including the default).
func WithCoerce[T any](fn func(T) T) Option[T] {
	return func(s *Setting[T]) { s.coerce = fn }
}

// WithEqual suppresses hooks when the coerced value equals the stored one.
func WithEqual[T any](fn func(a, b T) bool) Option[T] {
	return func(s *Setting[T]) { s.equal = fn }
}

// Comparable is WithEqual using ==.
func Comparable[T comparable]() Option[T] {
	return WithEqual(func(a, b T) bool { return a == b })
}

// New creates a setting holding def.
func New[T any](def T, opts ...Option[T]) *Setting[T] {
	s := &Setting[T]{}
	for _, o := range opts {
		o(s)
	}
	if s.coerce != nil {
		def = s.coerce(def)
	}
	s.v = def
	return s
}

// Get returns the current value.
func (s *Setting[T]) Get() T { return s.v }

// Set coerces v, stores it and runs the change hooks in registration order.
func (s *Setting[T]) Set(v T) {
	if s.coerce != nil {
		v = s.coerce(v)
	}
	old := s.v
	if s.equal != nil && s.equal(old, v) {
		return
	}
	s.v = v
	for _, h := range s.hooks {
		h(old, v)
	}
}

// OnChange registers a hook.
func (s *Setting[T]) OnChange(fn func(old, new T)) {
	if fn != nil {
		s.hooks = append(s.hooks, fn)
	}
}

// Clamp returns a coercion keeping values within [lo, hi].
func Clamp(lo, hi float32) func(float32) float32 {
	return func(v float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
}

// AtLeast returns a coercion raising values below lo to lo.
func AtLeast(lo float32) func(float32) float32 {
	return func(v float32) float32 {
		if v < lo {
			return lo
		}
		return v
	}
}
