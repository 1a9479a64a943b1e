/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package panel

import (
	"fmt"
	"slices"
)

// Slot is a (page, index) position in a panel.
type Slot struct {
	Page  int
	Index int
}

func (s Slot) String() string { return fmt.Sprintf("%d:%d", s.Page, s.Index) }

// Page is an ordered list of elements. A page can be filled before it is
// added to a panel; once added, inserts and removals attach or detach the
// element on the panel's surface and request an animated layout pass.
type Page struct {
	owner *Panel
	items []Element
}

// NewPage returns a detached page holding items in order.
func NewPage(items ...Element) *Page {
	return &Page{items: slices.Clone(items)}
}

// Len returns the number of elements on the page.
func (pg *Page) Len() int { return len(pg.items) }

// At returns the element at i, or nil when i is out of range.
func (pg *Page) At(i int) Element {
	if i < 0 || i >= len(pg.items) {
		return nil
	}
	return pg.items[i]
}

// Items returns a copy of the page's elements.
func (pg *Page) Items() []Element { return slices.Clone(pg.items) }

// IndexOf returns the position of el or -1.
func (pg *Page) IndexOf(el Element) int {
	for i, it := range pg.items {
		if it == el {
			return i
		}
	}
	return -1
}

// Append inserts el after the last element.
func (pg *Page) Append(el Element) error { return pg.Insert(len(pg.items), el) }

// Insert places el at index, shifting later elements. index may equal Len.
func (pg *Page) Insert(index int, el Element) error {
	if el == nil {
		return ErrNilElement
	}
	if index < 0 || index > len(pg.items) {
		return fmt.Errorf("insert at %d of %d: %w", index, len(pg.items), ErrIndexOutOfRange)
	}
	if pg.owner != nil {
		if s, ok := pg.owner.SlotOf(el); ok {
			return fmt.Errorf("insert %s: at %s: %w", el.ID(), s, ErrDuplicateElement)
		}
	} else if pg.IndexOf(el) >= 0 {
		return fmt.Errorf("insert %s: %w", el.ID(), ErrDuplicateElement)
	}
	pg.items = slices.Insert(pg.items, index, el)
	if pg.owner != nil {
		pg.owner.elementInserted(pg, el)
	}
	return nil
}

// RemoveAt removes and returns the element at index.
func (pg *Page) RemoveAt(index int) (Element, error) {
	if index < 0 || index >= len(pg.items) {
		return nil, fmt.Errorf("remove at %d of %d: %w", index, len(pg.items), ErrIndexOutOfRange)
	}
	el := pg.items[index]
	pg.items = slices.Delete(pg.items, index, index+1)
	if pg.owner != nil {
		pg.owner.elementRemoved(el)
	}
	return el, nil
}

// Remove removes el from the page.
func (pg *Page) Remove(el Element) error {
	i := pg.IndexOf(el)
	if i < 0 {
		return ErrUnknownElement
	}
	_, err := pg.RemoveAt(i)
	return err
}

// take and put mutate the list without notifying the owner; the drag
// controller pairs them so no observer sees the element missing.
func (pg *Page) take(index int) Element {
	el := pg.items[index]
	pg.items = slices.Delete(pg.items, index, index+1)
	return el
}

func (pg *Page) put(index int, el Element) { pg.items = slices.Insert(pg.items, index, el) }
