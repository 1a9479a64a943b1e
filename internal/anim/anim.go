/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package anim holds the easing curves used for layout transitions and the
// interpolation of translate+scale transforms between two placements.
package anim

import (
	"fmt"
	"sort"
	"strings"

	"pagegrid/internal/geom"
)

// Easing maps linear progress t in [0,1] to eased progress. A nil Easing is linear.
type Easing func(t float32) float32

func Linear(t float32) float32 { return t }

func EaseIn(t float32) float32 { return t * t }

func EaseOut(t float32) float32 { return t * (2 - t) }

func EaseInOut(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func SmoothStep(t float32) float32 { return t * t * (3 - 2*t) }

var named = map[string]Easing{
	"linear":      Linear,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
	"smoothstep":  SmoothStep,
}

// ByName resolves a configured easing. The empty string and "none" mean no
// easing and return nil.
func ByName(name string) (Easing, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "none" {
		return nil, nil
	}
	if e, ok := named[n]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown easing %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Names lists the supported easing names in sorted order.
func Names() []string {
	out := make([]string, 0, len(named))
	for k := range named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Apply evaluates e at t, treating nil as linear and clamping t to [0,1].
func (e Easing) Apply(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if e == nil {
		return t
	}
	return e(t)
}

// Lerp interpolates the translation and scale of two translate+scale
// transforms. Progress is taken as-is; pass it through an Easing first.
func Lerp(from, to geom.Affine, t float32) geom.Affine {
	l := func(a, b float32) float32 { return a + (b-a)*t }
	return geom.Affine{
		A: l(from.A, to.A),
		D: l(from.D, to.D),
		E: l(from.E, to.E),
		F: l(from.F, to.F),
	}
}
