package table

import (
	"github.com/go-drift/tableflow/pkg/errors"
)

// safeCall runs a user callback, converting a panic into a reported
// CallbackError. It returns false if fn panicked.
func (m *Manager) safeCall(event, label string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportCallbackError(&errors.CallbackError{
				Event:      event,
				Row:        label,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
			})
			ok = false
		}
	}()
	fn()
	return true
}

// SectionCount implements DataSource.
func (m *Manager) SectionCount() int { return m.sections.Len() }

// RowCount implements DataSource.
func (m *Manager) RowCount(section int) int {
	s, ok := m.sectionAt("table.Manager.RowCount", section)
	if !ok {
		return 0
	}
	return s.Count()
}

// ViewForRow dequeues a view for the row at pos, binds the row into it and
// dispatches OnDequeue.
func (m *Manager) ViewForRow(pos Position) View {
	r, ok := m.rowAt("table.Manager.ViewForRow", pos)
	if !ok {
		return nil
	}
	if !m.register(r) {
		return nil
	}
	view := m.surface.DequeueCell(r.bind.reuseKey, pos)
	if view == nil {
		errors.Report(&errors.TableError{
			Op:       "table.Manager.ViewForRow",
			Kind:     errors.KindRegister,
			ReuseKey: r.bind.reuseKey,
			Err:      errNoView,
		})
		return nil
	}
	m.adjustLayout(view)
	m.safeCall("configure", r.label(), func() { r.bind.configure(view, pos) })
	view.SetAccessory(r.accessory)
	m.bindRow(r, view, pos)
	if r.cb.dequeue != nil {
		m.safeCall(EventDequeue.String(), r.label(), func() { r.cb.dequeue(r) })
	}
	return view
}

// adjustLayout sizes a freshly dequeued view to the content width.
func (m *Manager) adjustLayout(view View) {
	w := m.surface.ContentWidth()
	if size := view.Size(); size.Width != w {
		view.SetSize(Size{Width: w, Height: size.Height})
	}
}

// HeightForRow implements DataSource.
func (m *Manager) HeightForRow(pos Position) float64 {
	r, ok := m.rowAt("table.Manager.HeightForRow", pos)
	if !ok {
		return 0
	}
	return m.rowHeight(r, pos)
}

// EstimatedHeightForRow implements DataSource.
func (m *Manager) EstimatedHeightForRow(pos Position) float64 {
	r, ok := m.rowAt("table.Manager.EstimatedHeightForRow", pos)
	if !ok {
		return 0
	}
	return m.estimatedRowHeight(r)
}

// TitleForHeader implements DataSource.
func (m *Manager) TitleForHeader(section int) string {
	s, ok := m.sectionAt("table.Manager.TitleForHeader", section)
	if !ok {
		return ""
	}
	return s.HeaderTitle
}

// TitleForFooter implements DataSource.
func (m *Manager) TitleForFooter(section int) string {
	s, ok := m.sectionAt("table.Manager.TitleForFooter", section)
	if !ok {
		return ""
	}
	return s.FooterTitle
}

// ViewForHeaderFooter dequeues and configures the custom header or footer
// view of section. It returns nil for title-only sections.
func (m *Manager) ViewForHeaderFooter(kind SupplementaryKind, section int) View {
	s, ok := m.sectionAt("table.Manager.ViewForHeaderFooter", section)
	if !ok {
		return nil
	}
	desc, _ := s.supplementary(kind)
	if desc == nil || !m.registerHeaderFooter(desc) {
		return nil
	}
	view := m.surface.DequeueHeaderFooter(desc.ReuseKey)
	if view == nil {
		errors.Report(&errors.TableError{
			Op:       "table.Manager.ViewForHeaderFooter",
			Kind:     errors.KindRegister,
			ReuseKey: desc.ReuseKey,
			Err:      errNoView,
		})
		return nil
	}
	label := s.ID + "." + kind.String()
	if desc.Configure != nil {
		m.safeCall("configure", label, func() { desc.Configure(view, kind, section) })
	}
	m.bindHeaderFooter(desc, view)
	if desc.OnDequeue != nil {
		evt := HeaderFooterEvent{View: view, Kind: kind, Section: section}
		m.safeCall("onDequeue", label, func() { desc.OnDequeue(evt) })
	}
	return view
}

// HeightForHeaderFooter implements DataSource.
func (m *Manager) HeightForHeaderFooter(kind SupplementaryKind, section int) float64 {
	return m.headerFooterHeight(kind, section, false)
}

// EstimatedHeightForHeaderFooter implements DataSource.
func (m *Manager) EstimatedHeightForHeaderFooter(kind SupplementaryKind, section int) float64 {
	return m.headerFooterHeight(kind, section, true)
}

// WillDisplayHeaderFooter implements DataSource.
func (m *Manager) WillDisplayHeaderFooter(kind SupplementaryKind, view View, section int) {
	s, ok := m.sectionAt("table.Manager.WillDisplayHeaderFooter", section)
	if !ok {
		return
	}
	desc, _ := s.supplementary(kind)
	if desc == nil || desc.OnWillDisplay == nil {
		return
	}
	evt := HeaderFooterEvent{View: view, Kind: kind, Section: section}
	m.safeCall("onWillDisplay", s.ID+"."+kind.String(), func() { desc.OnWillDisplay(evt) })
}

// DidEndDisplayHeaderFooter implements DataSource. Like DidEndDisplay it
// resolves the descriptor through the view binding; views of removed
// sections come from the retention table.
func (m *Manager) DidEndDisplayHeaderFooter(kind SupplementaryKind, view View, section int) {
	if view == nil {
		return
	}
	evt := HeaderFooterEvent{View: view, Kind: kind, Section: section}
	id := view.ViewID()
	if desc, ok := m.pendingHeaderFooters[id]; ok {
		m.safeCall("onDidEndDisplay", kind.String(), func() { desc.OnDidEndDisplay(evt) })
		delete(m.pendingHeaderFooters, id)
		return
	}
	desc, ok := m.headerFooterBindings[id]
	if !ok || desc.view != id || desc.OnDidEndDisplay == nil {
		return
	}
	m.safeCall("onDidEndDisplay", kind.String(), func() { desc.OnDidEndDisplay(evt) })
}

// SectionIndexTitles returns the non-empty index titles in section order.
func (m *Manager) SectionIndexTitles() []string {
	var titles []string
	for _, s := range m.sections.All() {
		if s.IndexTitle != "" {
			titles = append(titles, s.IndexTitle)
		}
	}
	return titles
}

// SectionForIndexTitle maps the index-th entry of SectionIndexTitles back to
// its section. Unknown entries map to section 0.
func (m *Manager) SectionForIndexTitle(title string, index int) int {
	seen := 0
	for i, s := range m.sections.All() {
		if s.IndexTitle == "" {
			continue
		}
		if seen == index {
			return i
		}
		seen++
	}
	return 0
}

// WillSelectRow lets the row redirect or veto a selection.
func (m *Manager) WillSelectRow(pos Position) (Position, bool) {
	r, ok := m.rowAt("table.Manager.WillSelectRow", pos)
	if !ok {
		return pos, false
	}
	if r.cb.willSelect == nil {
		return pos, true
	}
	target, allow := pos, true
	m.safeCall(EventWillSelect.String(), r.label(), func() { target, allow = r.cb.willSelect(r) })
	return target, allow
}

// DidSelectRow dispatches OnTap and applies the returned TapBehavior.
// Without an OnTap callback the selection is cleared with animation.
func (m *Manager) DidSelectRow(pos Position) {
	r, ok := m.rowAt("table.Manager.DidSelectRow", pos)
	if !ok {
		return
	}
	behavior := DeselectAnimated
	if r.cb.tap != nil {
		m.safeCall(EventTap.String(), r.label(), func() { behavior = r.cb.tap(r) })
	}
	switch behavior {
	case KeepSelection:
		if r.cb.sel != nil {
			m.safeCall(EventSelect.String(), r.label(), func() { r.cb.sel(r) })
		}
	case Deselect:
		m.surface.DeselectRow(pos, false)
	default:
		m.surface.DeselectRow(pos, true)
	}
}

// DidDeselectRow implements DataSource.
func (m *Manager) DidDeselectRow(pos Position) {
	r, ok := m.rowAt("table.Manager.DidDeselectRow", pos)
	if !ok || r.cb.deselect == nil {
		return
	}
	m.safeCall(EventDeselect.String(), r.label(), func() { r.cb.deselect(r) })
}

// ShouldHighlightRow consults, in order, the cell's static policy, the row's
// override and its OnShouldHighlight callback. The default is true.
func (m *Manager) ShouldHighlightRow(pos Position) bool {
	r, ok := m.rowAt("table.Manager.ShouldHighlightRow", pos)
	if !ok {
		return false
	}
	switch r.bind.highlight {
	case HighlightAlways:
		return true
	case HighlightNever:
		return false
	}
	if r.highlight != nil {
		return *r.highlight
	}
	if r.cb.shouldHighlight != nil {
		result := true
		m.safeCall(EventShouldHighlight.String(), r.label(), func() { result = r.cb.shouldHighlight(r) })
		return result
	}
	return true
}

// WillDisplay implements DataSource.
func (m *Manager) WillDisplay(view View, pos Position) {
	r, ok := m.rowAt("table.Manager.WillDisplay", pos)
	if !ok || r.cb.willDisplay == nil {
		return
	}
	m.safeCall(EventWillDisplay.String(), r.label(), func() { r.cb.willDisplay(r) })
}

// DidEndDisplay implements DataSource. The row is found through the view it
// is bound to, since surfaces report pos in the index space before their
// last batch. A view that was displaying a removed row is resolved through
// the retention table and its callback runs once.
func (m *Manager) DidEndDisplay(view View, pos Position) {
	if view == nil {
		return
	}
	id := view.ViewID()
	if r, ok := m.pendingRows[id]; ok {
		m.safeCall(EventDidEndDisplay.String(), r.label(), func() { r.cb.didEndDisplay(r) })
		delete(m.pendingRows, id)
		if m.bindings[id] == r {
			delete(m.bindings, id)
		}
		return
	}
	r, ok := m.bindings[id]
	if !ok || r.view != id || r.cb.didEndDisplay == nil {
		return
	}
	m.safeCall(EventDidEndDisplay.String(), r.label(), func() { r.cb.didEndDisplay(r) })
}

// CanEditRow reports whether the row currently offers at least one edit
// action.
func (m *Manager) CanEditRow(pos Position) bool {
	r, ok := m.rowAt("table.Manager.CanEditRow", pos)
	if !ok {
		return false
	}
	return len(m.editActions(r)) > 0
}

// EditActionsForRow implements DataSource.
func (m *Manager) EditActionsForRow(pos Position) []EditAction {
	r, ok := m.rowAt("table.Manager.EditActionsForRow", pos)
	if !ok {
		return nil
	}
	return m.editActions(r)
}

func (m *Manager) editActions(r *Row) []EditAction {
	if r.cb.editActions == nil {
		return nil
	}
	var actions []EditAction
	m.safeCall(EventEditActions.String(), r.label(), func() { actions = r.cb.editActions(r) })
	return actions
}

// CommitEdit dispatches OnDelete for a committed delete edit.
func (m *Manager) CommitEdit(style EditingStyle, pos Position) {
	r, ok := m.rowAt("table.Manager.CommitEdit", pos)
	if !ok || style != EditingDelete || r.cb.delete == nil {
		return
	}
	m.safeCall(EventDelete.String(), r.label(), func() { r.cb.delete(r) })
}

// CanMoveRow implements DataSource. Rows are fixed unless they say otherwise.
func (m *Manager) CanMoveRow(pos Position) bool {
	r, ok := m.rowAt("table.Manager.CanMoveRow", pos)
	if !ok || r.cb.canMove == nil {
		return false
	}
	result := false
	m.safeCall(EventCanMove.String(), r.label(), func() { result = r.cb.canMove(r) })
	return result
}

// ShouldIndentWhileEditing implements DataSource.
func (m *Manager) ShouldIndentWhileEditing(pos Position) bool {
	r, ok := m.rowAt("table.Manager.ShouldIndentWhileEditing", pos)
	if !ok {
		return false
	}
	if r.cb.shouldIndent == nil {
		return true
	}
	result := true
	m.safeCall(EventShouldIndent.String(), r.label(), func() { result = r.cb.shouldIndent(r) })
	return result
}
