package terminal

import (
	"slices"

	"github.com/go-drift/tableflow/pkg/table"
)

// Cursor returns the focused row. ok is false when the table has no rows.
func (s *Surface) Cursor() (table.Position, bool) {
	s.ensureLoaded()
	s.clampCursor()
	return s.cursor, s.hasCursor
}

// SetCursor focuses pos and scrolls it into view.
func (s *Surface) SetCursor(pos table.Position) bool {
	s.ensureLoaded()
	if !s.valid(pos) {
		return false
	}
	s.cursor, s.hasCursor = pos, true
	s.scrollTo(pos, table.ScrollNone)
	return true
}

// MoveCursor moves the focus delta rows through the flattened row order,
// stopping at either end.
func (s *Surface) MoveCursor(delta int) {
	s.ensureLoaded()
	s.clampCursor()
	if !s.hasCursor {
		return
	}
	flat := s.flatten()
	i := 0
	for j, p := range flat {
		if p == s.cursor {
			i = j
			break
		}
	}
	i = min(max(i+delta, 0), len(flat)-1)
	s.SetCursor(flat[i])
}

// Scroll moves the viewport by delta lines.
func (s *Surface) Scroll(delta int) {
	s.offset += delta
	s.clampOffset()
}

// Offset returns the first visible line.
func (s *Surface) Offset() int { return s.offset }

// Selected returns the selected row.
func (s *Surface) Selected() (table.Position, bool) { return s.selected, s.hasSelected }

// Tap taps the focused row.
func (s *Surface) Tap() bool {
	pos, ok := s.Cursor()
	if !ok {
		return false
	}
	return s.TapAt(pos)
}

// TapAt runs the selection flow for pos: will-select may redirect or cancel,
// rows that refuse highlighting are not selected, a previously selected row
// is deselected, then the target is selected. It reports whether a row was
// selected.
func (s *Surface) TapAt(pos table.Position) bool {
	if s.source == nil || !s.valid(pos) {
		return false
	}
	target, ok := s.source.WillSelectRow(pos)
	if !ok || !s.valid(target) {
		return false
	}
	if !s.source.ShouldHighlightRow(target) {
		return false
	}
	if s.hasSelected && s.selected != target {
		prev := s.selected
		s.hasSelected = false
		s.source.DidDeselectRow(prev)
	}
	s.selected, s.hasSelected = target, true
	s.source.DidSelectRow(target)
	return true
}

// EditActions returns the edit actions of pos, or nil when it is not
// editable.
func (s *Surface) EditActions(pos table.Position) []table.EditAction {
	if s.source == nil || !s.valid(pos) || !s.source.CanEditRow(pos) {
		return nil
	}
	return s.source.EditActionsForRow(pos)
}

// Delete commits the delete edit for the focused row. The row must offer a
// destructive edit action.
func (s *Surface) Delete() bool {
	pos, ok := s.Cursor()
	if !ok {
		return false
	}
	destructive := func(a table.EditAction) bool { return a.Destructive }
	if !slices.ContainsFunc(s.EditActions(pos), destructive) {
		return false
	}
	s.source.CommitEdit(table.EditingDelete, pos)
	return true
}

func (s *Surface) valid(pos table.Position) bool {
	return pos.Section >= 0 && pos.Section < len(s.counts) &&
		pos.Row >= 0 && pos.Row < s.counts[pos.Section]
}

func (s *Surface) flatten() []table.Position {
	var out []table.Position
	for section, n := range s.counts {
		for row := range n {
			out = append(out, table.Position{Section: section, Row: row})
		}
	}
	return out
}

// clampCursor keeps the focus on an existing row, preferring the nearest
// row before a removed one.
func (s *Surface) clampCursor() {
	if s.hasCursor && s.valid(s.cursor) {
		return
	}
	flat := s.flatten()
	if len(flat) == 0 {
		s.hasCursor = false
		return
	}
	if !s.hasCursor {
		s.cursor, s.hasCursor = flat[0], true
		return
	}
	best := flat[0]
	for _, p := range flat {
		if comparePositions(p, s.cursor) > 0 {
			break
		}
		best = p
	}
	s.cursor = best
}
