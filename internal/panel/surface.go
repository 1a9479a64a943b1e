/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel

import (
	"time"

	"pagegrid/internal/anim"
	"pagegrid/internal/geom"
)

// Element is an item laid out by the panel. The panel compares elements by
// interface identity and never owns their content; ID is used for logs,
// snapshots and history.
type Element interface {
	ID() string
}

// Z-order tiers.
const (
	ZDefault    = 0
	ZTransition = 1          // settling after a drop: above siblings, below a live drag
	ZDrag       = 1<<31 - 1 // the element under the pointer
)

// Transition describes an animated move of an element's render transform
// from its current value to To.
type Transition struct {
	To       geom.Affine
	Duration time.Duration
	Easing   anim.Easing
}

// Surface is the hosting visual tree. The panel positions elements through
// it and never touches the host otherwise. All methods are called on the UI
// goroutine; done callbacks passed to Animate must be invoked there too.
type Surface interface {
	// Attach and Detach add or remove an element from the rendered children.
	Attach(el Element)
	Detach(el Element)
	// Measure asks the element for its desired size within available.
	Measure(el Element, available geom.Size) geom.Size
	// Arrange gives the element its layout slot before the render transform applies.
	Arrange(el Element, r geom.Rect)
	// Transform returns the element's current render transform, including any
	// in-flight animation progress.
	Transform(el Element) geom.Affine
	// SetTransform replaces the render transform immediately and stops any
	// running animation of the element.
	SetTransform(el Element, m geom.Affine)
	SetOpacity(el Element, v float32)
	SetZ(el Element, z int)
	// Capture routes further pointer input to el until Release.
	Capture(el Element)
	Release(el Element)
	// Animate starts t on el, replacing any running animation of el, and
	// calls done once when the transition completes. Replaced animations do
	// not call their done.
	Animate(el Element, t Transition, done func())
	// Invalidate requests a new measure/arrange pass and repaint.
	Invalidate()
}
