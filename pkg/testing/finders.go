package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/tableflow/pkg/table"
)

// Finder locates rows in a manager.
type Finder interface {
	// Evaluate returns the positions of all matching rows in display order.
	Evaluate(m *table.Manager) []table.Position
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	positions []table.Position
	manager   *table.Manager
	finder    Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() table.Position {
	if len(r.positions) == 0 {
		panic(fmt.Sprintf("Finder found no rows: %s", r.description()))
	}
	return r.positions[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) table.Position {
	if index < 0 || index >= len(r.positions) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.positions), r.description()))
	}
	return r.positions[index]
}

// All returns all matches in display order.
func (r FinderResult) All() []table.Position { return r.positions }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.positions) }

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool { return len(r.positions) > 0 }

// Row returns the row of the first match. Panics if no matches.
func (r FinderResult) Row() *table.Row {
	row, _ := r.manager.Row(r.First())
	return row
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates finder against the attached manager.
func (s *Surface) Find(finder Finder) FinderResult {
	m, _ := s.source.(*table.Manager)
	if m == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{positions: finder.Evaluate(m), manager: m, finder: finder}
}

type predicateFinder struct {
	desc  string
	match func(*table.Row, table.Position) bool
}

func (f predicateFinder) Evaluate(m *table.Manager) []table.Position {
	var out []table.Position
	for si, section := range m.Sections() {
		for ri, row := range section.Rows() {
			pos := table.Position{Section: si, Row: ri}
			if f.match(row, pos) {
				out = append(out, pos)
			}
		}
	}
	return out
}

func (f predicateFinder) Description() string { return f.desc }

// ByID finds rows by identifier.
func ByID(id string) Finder {
	return predicateFinder{
		desc:  fmt.Sprintf("ByID(%q)", id),
		match: func(r *table.Row, _ table.Position) bool { return r.ID == id },
	}
}

// ByReuseKey finds rows whose cell uses reuseKey.
func ByReuseKey(reuseKey string) Finder {
	return predicateFinder{
		desc:  fmt.Sprintf("ByReuseKey(%q)", reuseKey),
		match: func(r *table.Row, _ table.Position) bool { return r.ReuseKey() == reuseKey },
	}
}

// ByModel finds rows whose model of type M satisfies pred.
func ByModel[M any](pred func(M) bool) Finder {
	var zero M
	return predicateFinder{
		desc: fmt.Sprintf("ByModel[%T]", zero),
		match: func(r *table.Row, _ table.Position) bool {
			m, ok := table.Model[M](r)
			return ok && pred(m)
		},
	}
}

// ByText finds rows whose string model contains substr.
func ByText(substr string) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("ByText(%q)", substr),
		match: func(r *table.Row, _ table.Position) bool {
			m, ok := table.Model[string](r)
			return ok && strings.Contains(m, substr)
		},
	}
}

// InSection restricts finder to one section.
func InSection(section int, finder Finder) Finder {
	return sectionFinder{section: section, inner: finder}
}

type sectionFinder struct {
	section int
	inner   Finder
}

func (f sectionFinder) Evaluate(m *table.Manager) []table.Position {
	var out []table.Position
	for _, pos := range f.inner.Evaluate(m) {
		if pos.Section == f.section {
			out = append(out, pos)
		}
	}
	return out
}

func (f sectionFinder) Description() string {
	return fmt.Sprintf("InSection(%d, %s)", f.section, f.inner.Description())
}
