package table

import "github.com/go-drift/tableflow/pkg/observable"

// HeaderFooterEvent is passed to SectionView callbacks.
type HeaderFooterEvent struct {
	View    View
	Kind    SupplementaryKind
	Section int
}

// SectionView describes a custom header or footer view.
type SectionView struct {
	// ReuseKey names the view type on the surface. Required.
	ReuseKey string
	// NewView creates an instance when no template or static binding exists.
	NewView func() View
	// Configure binds the section into view.
	Configure func(view View, kind SupplementaryKind, section int)

	// Height is the static height. Zero means none.
	Height float64
	// EstimatedHeight is the static estimate. Zero means none.
	EstimatedHeight float64
	// HeightFunc overrides Height when it returns true.
	HeightFunc func(kind SupplementaryKind, section int) (float64, bool)
	// EstimatedHeightFunc overrides EstimatedHeight when it returns true.
	EstimatedHeightFunc func(kind SupplementaryKind, section int) (float64, bool)

	OnDequeue       func(HeaderFooterEvent)
	OnWillDisplay   func(HeaderFooterEvent)
	OnDidEndDisplay func(HeaderFooterEvent)

	view ViewID
}

// Section is an ordered, observable list of rows with optional header and
// footer content.
type Section struct {
	ID          string
	HeaderTitle string
	FooterTitle string
	Header      *SectionView
	Footer      *SectionView
	// IndexTitle is shown in the section index. Sections with an empty
	// title are left out of the index.
	IndexTitle string

	rows    *observable.Sequence[*Row]
	manager *Manager
}

// NewSection returns a section holding rows.
func NewSection(id string, rows ...*Row) *Section {
	s := &Section{ID: id, rows: observable.NewSequence[*Row]()}
	s.AddRows(rows...)
	return s
}

// Count returns the number of rows.
func (s *Section) Count() int { return s.rows.Len() }

// IsEmpty reports whether the section has no rows.
func (s *Section) IsEmpty() bool { return s.rows.Len() == 0 }

// Rows returns a copy of the rows.
func (s *Section) Rows() []*Row { return s.rows.Items() }

// Row returns the row at i.
func (s *Section) Row(i int) (*Row, bool) { return s.rows.At(i) }

// RowWithID returns the first row whose ID is id and its index.
func (s *Section) RowWithID(id string) (*Row, int, bool) {
	i := s.rows.FindIndex(func(r *Row) bool { return r.ID == id })
	if i < 0 {
		return nil, -1, false
	}
	r, _ := s.rows.At(i)
	return r, i, true
}

// RowsWithIDs returns the rows whose ID is in ids, in section order.
func (s *Section) RowsWithIDs(ids ...string) []*Row {
	want := idSet(ids)
	return s.rows.Filter(func(r *Row) bool { return want.has(r.ID) })
}

// IndexOfRowWithID returns the index of the first row whose ID is id.
func (s *Section) IndexOfRowWithID(id string) (int, bool) {
	i := s.rows.FindIndex(func(r *Row) bool { return r.ID == id })
	return i, i >= 0
}

// IndexesOfRowsWithIDs returns the indices of the rows whose ID is in ids.
func (s *Section) IndexesOfRowsWithIDs(ids ...string) []int {
	want := idSet(ids)
	var indices []int
	for i, r := range s.rows.All() {
		if want.has(r.ID) {
			indices = append(indices, i)
		}
	}
	return indices
}

// IndexOf returns the index of r, or -1.
func (s *Section) IndexOf(r *Row) int { return s.rows.IndexOf(r) }

// Manager returns the manager displaying the section, if any.
func (s *Section) Manager() *Manager { return s.manager }

// Index returns the section's index in its manager. ok is false when the
// section is detached.
func (s *Section) Index() (int, bool) {
	if s.manager == nil {
		return -1, false
	}
	i := s.manager.sections.IndexOf(s)
	return i, i >= 0
}

// Add appends r. A row that belongs to another section is moved.
func (s *Section) Add(r *Row) {
	if !s.adopt(r) {
		return
	}
	s.rows.Append(r)
}

// AddRows appends rows in order.
func (s *Section) AddRows(rows ...*Row) {
	adopted := make([]*Row, 0, len(rows))
	for _, r := range rows {
		if s.adopt(r) {
			adopted = append(adopted, r)
		}
	}
	s.rows.AppendAll(adopted...)
}

// Insert places r at index at. Out-of-range indices are ignored.
func (s *Section) Insert(at int, r *Row) {
	if at < 0 || at > s.rows.Len() {
		return
	}
	if !s.adopt(r) {
		return
	}
	s.rows.Insert(at, r)
}

// InsertRows places rows starting at index at. Out-of-range indices are
// ignored.
func (s *Section) InsertRows(at int, rows ...*Row) {
	if at < 0 || at > s.rows.Len() {
		return
	}
	adopted := make([]*Row, 0, len(rows))
	for _, r := range rows {
		if s.adopt(r) {
			adopted = append(adopted, r)
		}
	}
	s.rows.InsertAll(at, adopted...)
}

// Replace swaps the row at index at for r and returns the old row.
func (s *Section) Replace(at int, r *Row) (*Row, bool) {
	old, ok := s.rows.At(at)
	if !ok || old == r {
		return old, false
	}
	if !s.adopt(r) {
		return nil, false
	}
	s.release(old)
	s.rows.Replace(at, r)
	return old, true
}

// Remove deletes the row at index at.
func (s *Section) Remove(at int) (*Row, bool) {
	r, ok := s.rows.At(at)
	if !ok {
		return nil, false
	}
	s.release(r)
	s.rows.RemoveAt(at)
	return r, true
}

// RemoveRow deletes r if the section contains it.
func (s *Section) RemoveRow(r *Row) bool {
	i := s.rows.IndexOf(r)
	if i < 0 {
		return false
	}
	_, ok := s.Remove(i)
	return ok
}

// RemoveWithID deletes the first row whose ID is id.
func (s *Section) RemoveWithID(id string) (*Row, bool) {
	i, ok := s.IndexOfRowWithID(id)
	if !ok {
		return nil, false
	}
	return s.Remove(i)
}

// RemoveWithIDs deletes every row whose ID is in ids.
func (s *Section) RemoveWithIDs(ids ...string) []*Row {
	indices := s.IndexesOfRowsWithIDs(ids...)
	if len(indices) == 0 {
		return nil
	}
	for _, i := range indices {
		r, _ := s.rows.At(i)
		s.release(r)
	}
	return s.rows.RemoveIndices(indices...)
}

// Clear deletes every row.
func (s *Section) Clear() []*Row {
	for _, r := range s.rows.All() {
		s.release(r)
	}
	return s.rows.RemoveAll()
}

// Reload redisplays the whole section. Inside an update session the reload
// joins the batch.
func (s *Section) Reload() {
	if idx, ok := s.Index(); ok {
		s.manager.ReloadSections(idx)
	}
}

// ReloadRows redisplays the rows at indices. Inside an update session the
// reload joins the batch.
func (s *Section) ReloadRows(indices ...int) {
	idx, ok := s.Index()
	if !ok || len(indices) == 0 {
		return
	}
	m := s.manager
	if m.inSession {
		s.rows.MarkUpdated(indices...)
		return
	}
	positions := make([]Position, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < s.rows.Len() {
			positions = append(positions, Position{Section: idx, Row: i})
		}
	}
	if len(positions) > 0 {
		m.surface.ReloadRows(positions, m.animation)
	}
}

// ReloadRowWithID redisplays the first row whose ID is id.
func (s *Section) ReloadRowWithID(id string) {
	if i, ok := s.IndexOfRowWithID(id); ok {
		s.ReloadRows(i)
	}
}

// ReloadRowsWithIDs redisplays every row whose ID is in ids.
func (s *Section) ReloadRowsWithIDs(ids ...string) {
	s.ReloadRows(s.IndexesOfRowsWithIDs(ids...)...)
}

// adopt takes ownership of r. It returns false when r is nil or already in s.
func (s *Section) adopt(r *Row) bool {
	if r == nil || r.section == s {
		return false
	}
	if r.section != nil {
		r.section.RemoveRow(r)
	}
	r.section = s
	return true
}

func (s *Section) release(r *Row) {
	if s.manager != nil {
		s.manager.retainRows([]*Row{r})
	}
	r.section = nil
}

// ids is a set of non-empty identifiers.
type ids map[string]struct{}

func idSet(list []string) ids {
	set := make(ids, len(list))
	for _, id := range list {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (set ids) has(id string) bool {
	_, ok := set[id]
	return ok
}
