// Package cells provides stock rows drawn with terminal views: wrapping
// text, an on/off switch and a selection that opens a Picker.
package cells

import (
	"github.com/go-drift/tableflow/pkg/table"
	"github.com/go-drift/tableflow/pkg/terminal"
)

// Reuse keys of the stock cells.
const (
	TextKey      = "cells.Text"
	SwitchKey    = "cells.Switch"
	SelectionKey = "cells.Selection"
)

func newView() table.View { return terminal.NewView() }

// terminalView returns v as a terminal view, or nil for foreign views so
// stock cells can be bound to other surfaces without failing.
func terminalView(v table.View) *terminal.View {
	tv, _ := v.(*terminal.View)
	return tv
}

// Text is a cell whose title wraps, so its height follows the content.
var Text = table.Cell[string]{
	ReuseKey: TextKey,
	NewView:  newView,
	Configure: func(v table.View, text string, _ table.Position) {
		if tv := terminalView(v); tv != nil {
			tv.Title = text
			tv.Wrap = true
		}
	},
}

// NewText returns a text row.
func NewText(text string, opts ...table.RowOption) *table.Row {
	return table.NewRow(Text, text, opts...)
}

// reload redisplays r in place when it is on screen.
func reload(r *table.Row) {
	s := r.Section()
	if s == nil {
		return
	}
	if m := s.Manager(); m != nil {
		m.InvalidateHeight(r)
	}
	if i := s.IndexOf(r); i >= 0 {
		s.ReloadRows(i)
	}
}
