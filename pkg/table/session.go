package table

import (
	stderrors "errors"

	"github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/observable"
)

var errNestedUpdate = stderrors.New("update started inside an update block; deferred until the outer session commits")

// Update runs block as one update session. With animated set, every mutation
// made by block is committed to the surface as a single batch; otherwise
// the table is fully reloaded afterwards.
//
// Calling Update from inside block does not nest: the inner block is queued
// and runs as its own session once the outer one has committed.
func (m *Manager) Update(animated bool, block func()) {
	if animated {
		m.UpdateWith(m.animation, block)
		return
	}
	if m.inSession {
		m.deferUpdate(func() { m.Update(false, block) })
		return
	}
	m.inSession = true
	func() {
		defer func() { m.inSession = false }()
		block()
	}()
	m.Reload()
	m.drainDeferred()
}

// UpdateWith is Update with an explicit batch animation.
func (m *Manager) UpdateWith(animation Animation, block func()) {
	if m.inSession {
		m.deferUpdate(func() { m.UpdateWith(animation, block) })
		return
	}

	token := observable.NewToken()
	m.sections.Observe(token)
	observed := m.sections.Items()
	for _, s := range observed {
		s.rows.Observe(token)
	}

	m.inSession = true
	func() {
		defer func() {
			m.inSession = false
			if r := recover(); r != nil {
				m.forget(token, observed)
				panic(r)
			}
		}()
		block()
	}()

	m.commit(token, observed, animation)
	m.forget(token, observed)
	m.drainDeferred()
}

// commit translates the session logs into one surface batch.
func (m *Manager) commit(token observable.Token, observed []*Section, animation Animation) {
	sections := observable.Reconcile(m.sections.Baseline(token), m.sections.Log(token))

	preIndex := make(map[*Section]int, len(observed))
	for i, s := range observed {
		preIndex[s] = i
	}
	inserted := indexSet(sections.Inserted)
	reloaded := indexSet(sections.Updated)

	type rowBatch struct {
		pre, post int
		changes   observable.Changeset
	}
	var rows []rowBatch
	for post, s := range m.sections.All() {
		if _, ok := inserted[post]; ok || !s.rows.Observed(token) {
			continue
		}
		pre, ok := preIndex[s]
		if !ok {
			continue
		}
		if _, ok := reloaded[pre]; ok {
			continue
		}
		cs := observable.Reconcile(s.rows.Baseline(token), s.rows.Log(token))
		if !cs.Empty() {
			rows = append(rows, rowBatch{pre: pre, post: post, changes: cs})
		}
	}

	if sections.Empty() && len(rows) == 0 {
		return
	}

	m.surface.BeginUpdates()
	if len(sections.Deleted) > 0 {
		m.surface.DeleteSections(sections.Deleted, animation)
	}
	if len(sections.Inserted) > 0 {
		m.surface.InsertSections(sections.Inserted, animation)
	}
	if len(sections.Updated) > 0 {
		m.surface.ReloadSections(sections.Updated, animation)
	}
	for _, b := range rows {
		if len(b.changes.Deleted) > 0 {
			m.surface.DeleteRows(positions(b.pre, b.changes.Deleted), animation)
		}
		if len(b.changes.Inserted) > 0 {
			m.surface.InsertRows(positions(b.post, b.changes.Inserted), animation)
		}
		if len(b.changes.Updated) > 0 {
			m.surface.ReloadRows(positions(b.pre, b.changes.Updated), animation)
		}
	}
	if err := m.surface.EndUpdates(); err != nil {
		errors.Reportf("table.Manager.Update", errors.KindBatch, err)
		m.Reload()
	}
}

func (m *Manager) forget(token observable.Token, observed []*Section) {
	m.sections.Forget(token)
	for _, s := range observed {
		s.rows.Forget(token)
	}
}

// deferUpdate queues a session started from inside a running block and
// reports the nesting.
func (m *Manager) deferUpdate(run func()) {
	errors.Reportf("table.Manager.Update", errors.KindSession, errNestedUpdate)
	m.deferred = append(m.deferred, run)
}

func (m *Manager) drainDeferred() {
	for len(m.deferred) > 0 && !m.inSession {
		next := m.deferred[0]
		m.deferred = m.deferred[1:]
		next()
	}
}

// InSession reports whether an update block is currently running.
func (m *Manager) InSession() bool { return m.inSession }

func positions(section int, rows []int) []Position {
	out := make([]Position, len(rows))
	for i, r := range rows {
		out[i] = Position{Section: section, Row: r}
	}
	return out
}

func indexSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}
