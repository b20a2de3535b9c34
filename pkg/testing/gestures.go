package testing

import (
	"fmt"

	"github.com/go-drift/tableflow/pkg/table"
)

// Tap simulates a tap on the first row matched by finder.
func (s *Surface) Tap(finder Finder) error {
	result := s.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Tap: finder matched no rows: %s", finder.Description())
	}
	return s.TapAt(result.First())
}

// TapAt simulates a tap on pos: highlight check, will-select, select. A
// redirected selection lands on the returned position. Selection is single:
// a previously selected row is deselected first.
func (s *Surface) TapAt(pos table.Position) error {
	if s.source == nil {
		return fmt.Errorf("TapAt: no data source attached")
	}
	if !s.source.ShouldHighlightRow(pos) {
		return nil
	}
	target, ok := s.source.WillSelectRow(pos)
	if !ok {
		return nil
	}
	for prev := range s.selected {
		if prev != target {
			delete(s.selected, prev)
			s.source.DidDeselectRow(prev)
		}
	}
	s.selected[target] = true
	s.source.DidSelectRow(target)
	return nil
}

// Selected reports whether pos is selected.
func (s *Surface) Selected(pos table.Position) bool { return s.selected[pos] }

// Swipe returns the edit actions offered for the first row matched by
// finder.
func (s *Surface) Swipe(finder Finder) ([]table.EditAction, error) {
	result := s.Find(finder)
	if !result.Exists() {
		return nil, fmt.Errorf("Swipe: finder matched no rows: %s", finder.Description())
	}
	pos := result.First()
	if !s.source.CanEditRow(pos) {
		return nil, nil
	}
	return s.source.EditActionsForRow(pos), nil
}

// CommitDelete simulates the delete edit on the first row matched by finder.
func (s *Surface) CommitDelete(finder Finder) error {
	result := s.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("CommitDelete: finder matched no rows: %s", finder.Description())
	}
	pos := result.First()
	if !s.source.CanEditRow(pos) {
		return fmt.Errorf("CommitDelete: row is not editable: %s", finder.Description())
	}
	s.source.CommitEdit(table.EditingDelete, pos)
	return nil
}
