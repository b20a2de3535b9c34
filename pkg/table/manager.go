package table

import (
	"fmt"

	"github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/observable"
)

// Manager owns the section list of one Surface and answers its queries.
type Manager struct {
	surface         Surface
	sections        *observable.Sequence[*Section]
	animation       Animation
	automaticHeight bool
	templates       TemplateSource

	heightCache     map[uint64]float64
	prototypes      map[string]View
	registeredCells map[string]struct{}
	registeredViews map[string]struct{}

	bindings             map[ViewID]*Row
	headerFooterBindings map[ViewID]*SectionView
	pendingRows          map[ViewID]*Row
	pendingHeaderFooters map[ViewID]*SectionView

	inSession bool
	deferred  []func()
	stats     Stats
}

// Option configures a Manager.
type Option func(*Manager)

// WithAutomaticHeight enables or disables measuring rows that declare no
// height. It is enabled by default.
func WithAutomaticHeight(enabled bool) Option {
	return func(m *Manager) { m.automaticHeight = enabled }
}

// WithAnimation sets the animation used for batch updates and reloads.
func WithAnimation(a Animation) Option {
	return func(m *Manager) { m.animation = a }
}

// WithTemplates installs a source of template-based view bindings.
func WithTemplates(src TemplateSource) Option {
	return func(m *Manager) { m.templates = src }
}

// NewManager binds a new Manager to surface and attaches itself as the
// surface's data source.
func NewManager(surface Surface, opts ...Option) *Manager {
	if surface == nil {
		panic("table: NewManager with nil surface")
	}
	m := &Manager{
		surface:              surface,
		sections:             observable.NewSequence[*Section](),
		automaticHeight:      true,
		heightCache:          make(map[uint64]float64),
		prototypes:           make(map[string]View),
		registeredCells:      make(map[string]struct{}),
		registeredViews:      make(map[string]struct{}),
		bindings:             make(map[ViewID]*Row),
		headerFooterBindings: make(map[ViewID]*SectionView),
		pendingRows:          make(map[ViewID]*Row),
		pendingHeaderFooters: make(map[ViewID]*SectionView),
	}
	for _, opt := range opts {
		opt(m)
	}
	surface.Attach(m)
	return m
}

var _ DataSource = (*Manager)(nil)

// Surface returns the bound surface.
func (m *Manager) Surface() Surface { return m.surface }

// Animation returns the batch animation.
func (m *Manager) Animation() Animation { return m.animation }

// AutomaticHeight reports whether rows without a height are measured.
func (m *Manager) AutomaticHeight() bool { return m.automaticHeight }

// SetAutomaticHeight toggles automatic measurement.
func (m *Manager) SetAutomaticHeight(enabled bool) { m.automaticHeight = enabled }

// Stats returns counters of the work done so far.
func (m *Manager) Stats() Stats {
	s := m.stats
	s.PendingEndDisplay = len(m.pendingRows) + len(m.pendingHeaderFooters)
	return s
}

// Sections returns a copy of the section list.
func (m *Manager) Sections() []*Section { return m.sections.Items() }

// Section returns the section at i.
func (m *Manager) Section(i int) (*Section, bool) { return m.sections.At(i) }

// SectionWithID returns the first section whose ID is id.
func (m *Manager) SectionWithID(id string) (*Section, bool) {
	return m.sections.Find(func(s *Section) bool { return s.ID == id })
}

// SectionsWithIDs returns the sections whose ID is in ids, in order.
func (m *Manager) SectionsWithIDs(ids ...string) []*Section {
	want := idSet(ids)
	return m.sections.Filter(func(s *Section) bool { return want.has(s.ID) })
}

// HasSection reports whether s is displayed by this manager.
func (m *Manager) HasSection(s *Section) bool { return m.sections.Contains(s) }

// IsEmpty reports whether the manager holds no rows at all.
func (m *Manager) IsEmpty() bool {
	for _, s := range m.sections.All() {
		if !s.IsEmpty() {
			return false
		}
	}
	return true
}

// Row returns the row at pos.
func (m *Manager) Row(pos Position) (*Row, bool) {
	s, ok := m.sections.At(pos.Section)
	if !ok {
		return nil, false
	}
	return s.Row(pos.Row)
}

// RowWithID returns the first row whose ID is id and its position.
func (m *Manager) RowWithID(id string) (*Row, Position, bool) {
	for si, s := range m.sections.All() {
		if r, ri, ok := s.RowWithID(id); ok {
			return r, Position{Section: si, Row: ri}, true
		}
	}
	return nil, Position{}, false
}

// RowsWithIDs returns every row whose ID is in ids, in display order.
func (m *Manager) RowsWithIDs(ids ...string) []*Row {
	var out []*Row
	for _, s := range m.sections.All() {
		out = append(out, s.RowsWithIDs(ids...)...)
	}
	return out
}

// Rows returns every row in display order.
func (m *Manager) Rows() []*Row {
	var rows []*Row
	for _, s := range m.sections.All() {
		rows = append(rows, s.Rows()...)
	}
	return rows
}

// PositionOf returns the current position of r.
func (m *Manager) PositionOf(r *Row) (Position, bool) {
	if r == nil || r.section == nil || r.section.manager != m {
		return Position{}, false
	}
	si := m.sections.IndexOf(r.section)
	ri := r.section.IndexOf(r)
	if si < 0 || ri < 0 {
		return Position{}, false
	}
	return Position{Section: si, Row: ri}, true
}

// AddSection appends s. A section owned by another manager is moved.
func (m *Manager) AddSection(s *Section) {
	if !m.adopt(s) {
		return
	}
	m.sections.Append(s)
}

// AddSections appends sections in order.
func (m *Manager) AddSections(sections ...*Section) {
	adopted := make([]*Section, 0, len(sections))
	for _, s := range sections {
		if m.adopt(s) {
			adopted = append(adopted, s)
		}
	}
	m.sections.AppendAll(adopted...)
}

// AddRows appends rows to section, which is added to the manager first if
// needed. A nil section appends a new, empty one.
func (m *Manager) AddRows(section *Section, rows ...*Row) *Section {
	if section == nil {
		section = NewSection("")
	}
	if section.manager != m {
		m.AddSection(section)
	}
	section.AddRows(rows...)
	return section
}

// AddRowsAt appends rows to the section at index. A negative index targets
// the last section, creating one if there is none. Other out-of-range
// indices are ignored.
func (m *Manager) AddRowsAt(index int, rows ...*Row) {
	if index < 0 {
		last, _ := m.sections.At(m.sections.Len() - 1)
		m.AddRows(last, rows...)
		return
	}
	if s, ok := m.sections.At(index); ok {
		s.AddRows(rows...)
	}
}

// InsertSection places s at index at. Out-of-range indices are ignored.
func (m *Manager) InsertSection(at int, s *Section) {
	if at < 0 || at > m.sections.Len() {
		return
	}
	if !m.adopt(s) {
		return
	}
	m.sections.Insert(at, s)
}

// ReplaceSection swaps the section at index at for s.
func (m *Manager) ReplaceSection(at int, s *Section) (*Section, bool) {
	old, ok := m.sections.At(at)
	if !ok || old == s {
		return old, false
	}
	if !m.adopt(s) {
		return nil, false
	}
	m.release(old)
	m.sections.Replace(at, s)
	return old, true
}

// RemoveSection deletes the section at index at.
func (m *Manager) RemoveSection(at int) (*Section, bool) {
	s, ok := m.sections.At(at)
	if !ok {
		return nil, false
	}
	m.release(s)
	m.sections.RemoveAt(at)
	return s, true
}

// RemoveSectionValue deletes s if the manager owns it.
func (m *Manager) RemoveSectionValue(s *Section) bool {
	i := m.sections.IndexOf(s)
	if i < 0 {
		return false
	}
	_, ok := m.RemoveSection(i)
	return ok
}

// RemoveSectionWithID deletes the first section whose ID is id.
func (m *Manager) RemoveSectionWithID(id string) (*Section, bool) {
	i := m.sections.FindIndex(func(s *Section) bool { return s.ID == id })
	if i < 0 {
		return nil, false
	}
	return m.RemoveSection(i)
}

// RemoveSectionsWithIDs deletes every section whose ID is in ids.
func (m *Manager) RemoveSectionsWithIDs(ids ...string) []*Section {
	indices := m.sectionIndexes(ids)
	if len(indices) == 0 {
		return nil
	}
	for _, i := range indices {
		s, _ := m.sections.At(i)
		m.release(s)
	}
	return m.sections.RemoveIndices(indices...)
}

// RemoveAll deletes every section.
func (m *Manager) RemoveAll() []*Section {
	for _, s := range m.sections.All() {
		m.release(s)
	}
	return m.sections.RemoveAll()
}

// RemoveRowsWithIDs deletes every row whose ID is in ids, across sections.
func (m *Manager) RemoveRowsWithIDs(ids ...string) []*Row {
	var removed []*Row
	for _, s := range m.sections.All() {
		removed = append(removed, s.RemoveWithIDs(ids...)...)
	}
	return removed
}

// RemoveRow deletes the row at pos.
func (m *Manager) RemoveRow(pos Position) (*Row, bool) {
	s, ok := m.sections.At(pos.Section)
	if !ok {
		return nil, false
	}
	return s.Remove(pos.Row)
}

// MoveRow moves the row at from so that it ends up at to. The destination
// row index is interpreted after the row has been removed from its source.
func (m *Manager) MoveRow(from, to Position) bool {
	src, ok := m.sections.At(from.Section)
	if !ok {
		return false
	}
	dst, ok := m.sections.At(to.Section)
	if !ok {
		return false
	}
	r, ok := src.Row(from.Row)
	if !ok {
		return false
	}
	limit := dst.Count()
	if src == dst {
		limit--
	}
	if to.Row < 0 || to.Row > limit {
		return false
	}
	src.Remove(from.Row)
	dst.Insert(to.Row, r)
	return true
}

// ReloadSections redisplays the sections at indices. Inside an update
// session the reloads join the batch.
func (m *Manager) ReloadSections(indices ...int) {
	var valid []int
	for _, i := range indices {
		if i >= 0 && i < m.sections.Len() {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return
	}
	if m.inSession {
		m.sections.MarkUpdated(valid...)
		return
	}
	m.surface.ReloadSections(valid, m.animation)
}

// ReloadSectionWithID redisplays the first section whose ID is id.
func (m *Manager) ReloadSectionWithID(id string) {
	if i := m.sections.FindIndex(func(s *Section) bool { return s.ID == id }); i >= 0 {
		m.ReloadSections(i)
	}
}

// ReloadSectionsWithIDs redisplays every section whose ID is in ids.
func (m *Manager) ReloadSectionsWithIDs(ids ...string) {
	m.ReloadSections(m.sectionIndexes(ids)...)
}

// ReloadRowWithID redisplays the first row whose ID is id.
func (m *Manager) ReloadRowWithID(id string) {
	if _, pos, ok := m.RowWithID(id); ok {
		m.ReloadRow(pos)
	}
}

// ReloadRow redisplays the row at pos.
func (m *Manager) ReloadRow(pos Position) {
	if s, ok := m.sections.At(pos.Section); ok {
		s.ReloadRows(pos.Row)
	}
}

// Reload discards the height cache and redisplays the whole
// table. End-of-display callbacks still pending for removed rows are dropped.
func (m *Manager) Reload() {
	clear(m.heightCache)
	m.surface.ReloadData()
	m.evictPending()
}

// ScrollToRow scrolls pos into view.
func (m *Manager) ScrollToRow(pos Position, anchor ScrollPosition, animated bool) {
	if _, ok := m.rowAt("table.Manager.ScrollToRow", pos); !ok {
		return
	}
	m.surface.ScrollToRow(pos, anchor, animated)
}

// ScrollToLastRow scrolls the last row of the last non-empty section into
// view. It does nothing when the table has no rows.
func (m *Manager) ScrollToLastRow(anchor ScrollPosition, animated bool) {
	for si := m.sections.Len() - 1; si >= 0; si-- {
		s, _ := m.sections.At(si)
		if n := s.Count(); n > 0 {
			m.surface.ScrollToRow(Position{Section: si, Row: n - 1}, anchor, animated)
			return
		}
	}
}

// ViewFor returns the view currently displaying r, if any.
func (m *Manager) ViewFor(r *Row) View {
	if r == nil || r.view == 0 {
		return nil
	}
	pos, ok := m.PositionOf(r)
	if !ok {
		return nil
	}
	v := m.surface.ViewAt(pos)
	if v == nil || v.ViewID() != r.view {
		return nil
	}
	return v
}

// adopt takes ownership of s. It returns false when s is nil or already owned.
func (m *Manager) adopt(s *Section) bool {
	if s == nil || s.manager == m {
		return false
	}
	if s.rows == nil {
		panic("table: section was not created with NewSection")
	}
	if s.manager != nil {
		s.manager.RemoveSectionValue(s)
	}
	s.manager = m
	return true
}

func (m *Manager) sectionIndexes(ids []string) []int {
	want := idSet(ids)
	var indices []int
	for i, s := range m.sections.All() {
		if want.has(s.ID) {
			indices = append(indices, i)
		}
	}
	return indices
}

func (m *Manager) release(s *Section) {
	m.retainSection(s)
	s.manager = nil
}

// rowAt resolves pos and reports a KindIndex error when it is out of range.
func (m *Manager) rowAt(op string, pos Position) (*Row, bool) {
	s, ok := m.sections.At(pos.Section)
	if !ok {
		errors.Report(&errors.TableError{
			Op:   op,
			Kind: errors.KindIndex,
			Err:  &errors.IndexError{Section: pos.Section, Row: -1, Count: m.sections.Len()},
		})
		return nil, false
	}
	r, ok := s.Row(pos.Row)
	if !ok {
		errors.Report(&errors.TableError{
			Op:   op,
			Kind: errors.KindIndex,
			Err:  &errors.IndexError{Section: pos.Section, Row: pos.Row, Count: s.Count()},
		})
		return nil, false
	}
	return r, true
}

// sectionAt resolves an index and reports a KindIndex error when it is out
// of range.
func (m *Manager) sectionAt(op string, section int) (*Section, bool) {
	s, ok := m.sections.At(section)
	if !ok {
		errors.Report(&errors.TableError{
			Op:   op,
			Kind: errors.KindIndex,
			Err:  &errors.IndexError{Section: section, Row: -1, Count: m.sections.Len()},
		})
	}
	return s, ok
}

// register makes sure the surface can produce views for the row's reuse key.
func (m *Manager) register(r *Row) bool {
	key := r.bind.reuseKey
	if _, ok := m.registeredCells[key]; ok {
		return true
	}
	factory, ok := m.resolveFactory(key, r.bind.newView)
	if !ok {
		errors.Report(&errors.TableError{
			Op:       "table.Manager.register",
			Kind:     errors.KindRegister,
			ReuseKey: key,
			Err:      fmt.Errorf("no template, static binding or factory for row %q", r.label()),
		})
		return false
	}
	if factory != nil {
		m.surface.RegisterCell(key, factory)
		m.stats.Registrations++
	}
	m.registeredCells[key] = struct{}{}
	return true
}

func (m *Manager) registerHeaderFooter(v *SectionView) bool {
	key := v.ReuseKey
	if _, ok := m.registeredViews[key]; ok {
		return true
	}
	factory, ok := m.resolveFactory(key, v.NewView)
	if !ok {
		errors.Report(&errors.TableError{
			Op:       "table.Manager.registerHeaderFooter",
			Kind:     errors.KindRegister,
			ReuseKey: key,
			Err:      fmt.Errorf("no template, static binding or factory"),
		})
		return false
	}
	if factory != nil {
		m.surface.RegisterHeaderFooter(key, factory)
		m.stats.Registrations++
	}
	m.registeredViews[key] = struct{}{}
	return true
}

// resolveFactory picks the view source for key. A nil factory with ok set
// means the surface already knows the key.
func (m *Manager) resolveFactory(key string, fallback func() View) (func() View, bool) {
	if key == "" {
		return nil, false
	}
	if m.surface.IsRegistered(key) {
		return nil, true
	}
	if m.templates != nil {
		if f, ok := m.templates.Template(key); ok {
			return f, true
		}
	}
	if fallback != nil {
		return fallback, true
	}
	return nil, false
}
