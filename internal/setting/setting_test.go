/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package setting

import "testing"

func TestSetRunsCoerceThenHooks(t *testing.T) {
	s := New[float32](0.5, WithCoerce(Clamp(0.1, 1)), Comparable[float32]())
	var calls [][2]float32
	s.OnChange(func(old, new float32) { calls = append(calls, [2]float32{old, new}) })

	s.Set(0)
	if s.Get() != 0.1 {
		t.Fatalf("Get() = %v, want 0.1", s.Get())
	}
	s.Set(2)
	if s.Get() != 1 {
		t.Fatalf("Get() = %v, want 1", s.Get())
	}
	s.Set(1.5) // coerces to the stored value: no hook
	if len(calls) != 2 {
		t.Fatalf("expected 2 hook calls, got %v", calls)
	}
	if calls[0] != [2]float32{0.5, 0.1} || calls[1] != [2]float32{0.1, 1} {
		t.Fatalf("unexpected hook args: %v", calls)
	}
}

func TestDefaultIsCoerced(t *testing.T) {
	s := New[float32](-3, WithCoerce(AtLeast(1)))
	if s.Get() != 1 {
		t.Fatalf("default not coerced: %v", s.Get())
	}
}

func TestWithoutEqualAlwaysNotifies(t *testing.T) {
	s := New("a")
	n := 0
	s.OnChange(func(_, _ string) { n++ })
	s.Set("a")
	s.Set("a")
	if n != 2 {
		t.Fatalf("expected 2 notifications, got %d", n)
	}
}

func TestHooksRunInOrder(t *testing.T) {
	s := New(0, Comparable[int]())
	var order []string
	s.OnChange(func(_, _ int) { order = append(order, "first") })
	s.OnChange(nil)
	s.OnChange(func(_, _ int) { order = append(order, "second") })
	s.Set(1)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected hook order: %v", order)
	}
}
