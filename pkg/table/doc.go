// Package table reconciles a two-level list model (sections containing rows)
// with a reuse-based rendering surface.
//
// Client code builds Rows and Sections and hands them to a Manager bound to
// one Surface. The Manager answers every query the surface makes (counts,
// views, heights, selection and display events) and turns model mutations
// into batch updates.
//
// # Rows and cells
//
// A Cell describes one kind of view: its reuse key, how to create it, how to
// bind a model into it and its type-level heights. NewRow binds a typed model
// to a Cell; the resulting Row carries that capability set with it, so
// sections can mix rows of different model types:
//
//	var label = table.Cell[string]{
//	    ReuseKey:  "Label",
//	    NewView:   newLabelView,
//	    Configure: func(v table.View, text string, _ table.Position) { v.(*labelView).SetText(text) },
//	}
//
//	row := table.NewRow(label, "Hello", table.WithID("greeting"))
//	row.OnTap(func(r *table.Row) table.TapBehavior { return table.KeepSelection })
//
// # Update sessions
//
// Mutations made inside Update are observed and committed as one animated
// batch. Deletions are addressed against the state before the block ran and
// insertions against the state after it:
//
//	manager.Update(true, func() {
//	    section.Remove(1)
//	    section.Add(table.NewRow(label, "D"))
//	})
//
// Update(false, ...) runs the block and performs a full reload instead, which
// also clears the height cache.
//
// # Threading
//
// A Manager is not safe for concurrent use. All mutations and all surface
// queries must happen on the goroutine that owns the surface.
package table
