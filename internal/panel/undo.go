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
	"log/slog"

	"pagegrid/internal/history"
)

// Undo reverts the latest recorded reorder. It reports false when there is
// nothing to undo.
func (p *Panel) Undo() (bool, error) {
	return p.replay(func(h *history.Manager) (history.Move, bool) {
		mv, ok := h.Undo()
		return mv.Inverse(), ok
	})
}

// Redo re-applies the latest undone reorder.
func (p *Panel) Redo() (bool, error) {
	return p.replay((*history.Manager).Redo)
}

func (p *Panel) replay(pop func(*history.Manager) (history.Move, bool)) (bool, error) {
	if p.history == nil {
		return false, nil
	}
	if p.drag.Dragging() {
		return false, ErrDragInProgress
	}
	mv, ok := pop(p.history)
	if !ok {
		return false, nil
	}
	_, src, found := p.Find(mv.Element)
	if !found {
		return false, fmt.Errorf("replay move of %s: %w", mv.Element, ErrUnknownElement)
	}
	if mv.To.Page < 0 || mv.To.Page >= len(p.pages) {
		return false, fmt.Errorf("replay move of %s to page %d: %w", mv.Element, mv.To.Page, ErrIndexOutOfRange)
	}
	dst := p.clampDestination(src, Slot(mv.To))
	if dst != src {
		p.move(src, dst)
		p.relayout()
	}
	p.log.Debug("history replayed", slog.String("el", mv.Element), slog.String("from", src.String()), slog.String("to", dst.String()))
	return true, nil
}
