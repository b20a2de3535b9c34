package table

import (
	"fmt"
	"slices"
)

// Batch accumulates the changes a surface receives between BeginUpdates and
// EndUpdates. Surfaces use it to check the batch against their count mirror
// and to move displayed views to their new positions.
type Batch struct {
	DeletedSections  []int
	InsertedSections []int
	ReloadedSections []int
	DeletedRows      []Position
	InsertedRows     []Position
	ReloadedRows     []Position
}

// Empty reports whether the batch carries no change.
func (b *Batch) Empty() bool {
	return len(b.DeletedSections) == 0 && len(b.InsertedSections) == 0 &&
		len(b.ReloadedSections) == 0 && len(b.DeletedRows) == 0 &&
		len(b.InsertedRows) == 0 && len(b.ReloadedRows) == 0
}

// Validate checks the batch against the row counts before it (old) and after
// it (current). It fails the way a list surface rejects an inconsistent
// batch: when a count does not add up or an index is out of range.
func (b *Batch) Validate(old, current []int) error {
	deleted := uniqueSorted(b.DeletedSections)
	inserted := uniqueSorted(b.InsertedSections)
	for _, s := range deleted {
		if s < 0 || s >= len(old) {
			return fmt.Errorf("attempt to delete section %d, but there are only %d sections before the update", s, len(old))
		}
	}
	for _, s := range inserted {
		if s < 0 || s >= len(current) {
			return fmt.Errorf("attempt to insert section %d, but there are only %d sections after the update", s, len(current))
		}
	}
	for _, s := range b.ReloadedSections {
		if s < 0 || s >= len(old) {
			return fmt.Errorf("attempt to reload section %d, but there are only %d sections before the update", s, len(old))
		}
		if slices.Contains(deleted, s) {
			return fmt.Errorf("attempt to delete and reload the same section (%d)", s)
		}
	}
	if want := len(old) - len(deleted) + len(inserted); len(current) != want {
		return fmt.Errorf("invalid number of sections. The number of sections contained in the table after the update (%d) must be equal to the number of sections before the update (%d), plus or minus the number of sections inserted or deleted (%d inserted, %d deleted)",
			len(current), len(old), len(inserted), len(deleted))
	}

	for pre := range old {
		if slices.Contains(deleted, pre) || slices.Contains(b.ReloadedSections, pre) {
			continue
		}
		post, _ := b.SectionAfter(pre)
		del := rowsIn(b.DeletedRows, pre)
		ins := rowsIn(b.InsertedRows, post)
		for _, r := range del {
			if r < 0 || r >= old[pre] {
				return fmt.Errorf("attempt to delete row %d from section %d which only contains %d rows before the update", r, pre, old[pre])
			}
		}
		for _, r := range rowsIn(b.ReloadedRows, pre) {
			if r < 0 || r >= old[pre] {
				return fmt.Errorf("attempt to reload row %d from section %d which only contains %d rows before the update", r, pre, old[pre])
			}
			if slices.Contains(del, r) {
				return fmt.Errorf("attempt to delete and reload the same row (%d) in section %d", r, pre)
			}
		}
		for _, r := range ins {
			if r < 0 || r >= current[post] {
				return fmt.Errorf("attempt to insert row %d into section %d, but there are only %d rows in section %d after the update", r, post, current[post], post)
			}
		}
		if want := old[pre] - len(del) + len(ins); current[post] != want {
			return fmt.Errorf("invalid number of rows in section %d. The number of rows contained in an existing section after the update (%d) must be equal to the number of rows contained in that section before the update (%d), plus or minus the number of rows inserted or deleted from that section (%d inserted, %d deleted)",
				post, current[post], old[pre], len(ins), len(del))
		}
	}
	return nil
}

// SectionAfter maps a section index from before the batch to after it.
// ok is false when the section was deleted.
func (b *Batch) SectionAfter(pre int) (int, bool) {
	if slices.Contains(b.DeletedSections, pre) {
		return 0, false
	}
	return shift(pre, uniqueSorted(b.DeletedSections), uniqueSorted(b.InsertedSections)), true
}

// PositionAfter maps a row position from before the batch to after it. ok is
// false when the row or its section was deleted or the section was reloaded.
func (b *Batch) PositionAfter(pos Position) (Position, bool) {
	if slices.Contains(b.ReloadedSections, pos.Section) {
		return Position{}, false
	}
	section, ok := b.SectionAfter(pos.Section)
	if !ok {
		return Position{}, false
	}
	del := rowsIn(b.DeletedRows, pos.Section)
	if slices.Contains(del, pos.Row) {
		return Position{}, false
	}
	return Position{Section: section, Row: shift(pos.Row, del, rowsIn(b.InsertedRows, section))}, true
}

// Reloaded reports whether pos, addressed before the batch, is reloaded by
// it, directly or through its section.
func (b *Batch) Reloaded(pos Position) bool {
	return slices.Contains(b.ReloadedSections, pos.Section) || slices.Contains(b.ReloadedRows, pos)
}

// shift maps index i through deletions in the old space and insertions in
// the new space, both sorted ascending.
func shift(i int, deleted, inserted []int) int {
	n := i
	for _, d := range deleted {
		if d < i {
			n--
		}
	}
	for _, ins := range inserted {
		if ins <= n {
			n++
		}
	}
	return n
}

func rowsIn(positions []Position, section int) []int {
	var rows []int
	for _, p := range positions {
		if p.Section == section {
			rows = append(rows, p.Row)
		}
	}
	return uniqueSorted(rows)
}

func uniqueSorted(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}
