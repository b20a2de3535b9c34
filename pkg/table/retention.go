package table

import stderrors "errors"

var errNoView = stderrors.New("surface returned no view")

// bindRow records that view now displays r at pos.
func (m *Manager) bindRow(r *Row, view View, pos Position) {
	id := view.ViewID()
	if prev, ok := m.bindings[id]; ok && prev != r && prev.view == id {
		prev.view = 0
	}
	if r.view != 0 && r.view != id && m.bindings[r.view] == r {
		delete(m.bindings, r.view)
	}
	m.bindings[id] = r
	r.view = id
	r.pos = pos
	r.placed = true
}

func (m *Manager) bindHeaderFooter(desc *SectionView, view View) {
	id := view.ViewID()
	if prev, ok := m.headerFooterBindings[id]; ok && prev != desc && prev.view == id {
		prev.view = 0
	}
	if desc.view != 0 && desc.view != id && m.headerFooterBindings[desc.view] == desc {
		delete(m.headerFooterBindings, desc.view)
	}
	m.headerFooterBindings[id] = desc
	desc.view = id
}

// retainRows keeps removed rows that are still on screen and want an
// end-of-display callback, keyed by the view displaying them. Rows without
// such a callback are unbound right away.
func (m *Manager) retainRows(rows []*Row) {
	for _, r := range rows {
		if r.view == 0 || m.bindings[r.view] != r {
			continue
		}
		if r.cb.didEndDisplay != nil {
			m.pendingRows[r.view] = r
			continue
		}
		delete(m.bindings, r.view)
	}
}

// retainSection keeps the rows and the custom header and footer of a removed
// section.
func (m *Manager) retainSection(s *Section) {
	m.retainRows(s.Rows())
	for _, desc := range []*SectionView{s.Header, s.Footer} {
		if desc == nil || desc.view == 0 || m.headerFooterBindings[desc.view] != desc {
			continue
		}
		if desc.OnDidEndDisplay != nil {
			m.pendingHeaderFooters[desc.view] = desc
			continue
		}
		delete(m.headerFooterBindings, desc.view)
	}
}

// evictPending drops retained entries after a full reload. Whatever the
// surface did not report while reloading can no longer be reported.
func (m *Manager) evictPending() {
	n := len(m.pendingRows) + len(m.pendingHeaderFooters)
	for id := range m.pendingRows {
		if m.bindings[id] == m.pendingRows[id] {
			delete(m.bindings, id)
		}
	}
	for id := range m.pendingHeaderFooters {
		if m.headerFooterBindings[id] == m.pendingHeaderFooters[id] {
			delete(m.headerFooterBindings, id)
		}
	}
	clear(m.pendingRows)
	clear(m.pendingHeaderFooters)
	m.stats.Evicted += n
}
