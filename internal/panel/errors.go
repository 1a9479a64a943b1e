/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel

import "errors"

var (
	ErrNilPage          = errors.New("page is nil")
	ErrPageOwned        = errors.New("page belongs to another panel")
	ErrPageAdded        = errors.New("page already added")
	ErrUnknownPage      = errors.New("page not found in panel")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNilElement       = errors.New("element is nil")
	ErrDuplicateElement = errors.New("element already placed")
	ErrUnknownElement   = errors.New("element not found in panel")
	ErrDragInProgress   = errors.New("drag in progress")
	ErrNotDragging      = errors.New("no drag in progress")
	ErrStaleSession     = errors.New("drag session is no longer current")
)
