package table

import "sync/atomic"

// Cell describes a kind of row view bound to models of type M.
type Cell[M any] struct {
	// ReuseKey names the view type on the surface. Required.
	ReuseKey string
	// NewView creates an instance when no template or static binding exists.
	NewView func() View
	// Configure binds model into view for the row at pos.
	Configure func(view View, model M, pos Position)
	// DefaultHeight is the type-level height. Zero means none.
	DefaultHeight float64
	// EstimatedHeight is the type-level estimate. Zero means none.
	EstimatedHeight float64
	// Highlight is the type-level highlight policy.
	Highlight Highlight
}

// binding is the type-erased capability set of a Cell plus its model.
type binding struct {
	reuseKey        string
	newView         func() View
	configure       func(view View, pos Position)
	defaultHeight   float64
	estimatedHeight float64
	highlight       Highlight
}

// RowEvent names a per-row callback slot.
type RowEvent int

const (
	EventDequeue RowEvent = iota
	EventTap
	EventSelect
	EventDeselect
	EventWillSelect
	EventWillDisplay
	EventDidEndDisplay
	EventShouldHighlight
	EventEditActions
	EventDelete
	EventCanMove
	EventShouldIndent
)

var rowEventNames = [...]string{
	"onDequeue", "onTap", "onSelect", "onDeselect", "onWillSelect",
	"onWillDisplay", "onDidEndDisplay", "onShouldHighlight", "onEditActions",
	"onDelete", "canMove", "shouldIndent",
}

func (e RowEvent) String() string {
	if int(e) < len(rowEventNames) {
		return rowEventNames[e]
	}
	return "unknown"
}

type callbacks struct {
	dequeue         func(*Row)
	tap             func(*Row) TapBehavior
	sel             func(*Row)
	deselect        func(*Row)
	willSelect      func(*Row) (Position, bool)
	willDisplay     func(*Row)
	didEndDisplay   func(*Row)
	shouldHighlight func(*Row) bool
	editActions     func(*Row) []EditAction
	delete          func(*Row)
	canMove         func(*Row) bool
	shouldIndent    func(*Row) bool
}

var rowSerial atomic.Uint64

// Row is one entry in a Section: a model bound to a Cell, plus per-instance
// overrides and callbacks.
type Row struct {
	// ID optionally identifies the row for lookups and removal.
	ID string

	serial    uint64
	model     any
	bind      binding
	accessory Accessory

	height    float64
	hasHeight bool
	heightFn  func() (float64, bool)
	estimator func() (float64, bool)
	highlight *bool

	view    ViewID
	pos     Position
	placed  bool
	section *Section

	cb callbacks
}

// RowOption configures a Row at construction.
type RowOption func(*Row)

// WithID sets the row identifier.
func WithID(id string) RowOption {
	return func(r *Row) { r.ID = id }
}

// WithHeight fixes the row height.
func WithHeight(h float64) RowOption {
	return func(r *Row) { r.SetHeight(h) }
}

// WithAccessory sets the trailing accessory.
func WithAccessory(a Accessory) RowOption {
	return func(r *Row) { r.accessory = a }
}

// WithConfigure runs fn on the new row, typically to attach callbacks.
func WithConfigure(fn func(*Row)) RowOption {
	return func(r *Row) {
		if fn != nil {
			fn(r)
		}
	}
}

// NewRow binds model to cell. It panics when the cell has no reuse key or no
// Configure function, since such a row could never be displayed.
func NewRow[M any](cell Cell[M], model M, opts ...RowOption) *Row {
	if cell.ReuseKey == "" {
		panic("table: cell has no reuse key")
	}
	if cell.Configure == nil {
		panic("table: cell " + cell.ReuseKey + " has no Configure function")
	}
	configure := cell.Configure
	r := &Row{
		serial: rowSerial.Add(1),
		model:  model,
		bind: binding{
			reuseKey:        cell.ReuseKey,
			newView:         cell.NewView,
			defaultHeight:   cell.DefaultHeight,
			estimatedHeight: cell.EstimatedHeight,
			highlight:       cell.Highlight,
		},
	}
	r.bind.configure = func(view View, pos Position) {
		configure(view, r.model.(M), pos)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Model returns the row's model as M. ok is false when the row was built for
// a different model type.
func Model[M any](r *Row) (m M, ok bool) {
	if r == nil {
		return m, false
	}
	m, ok = r.model.(M)
	return m, ok
}

// SetModel replaces the row's model. It panics when m is not of the type the
// row was built with. The change is shown on the next reload of the row.
func SetModel[M any](r *Row, m M) {
	if _, ok := r.model.(M); !ok {
		panic("table: SetModel with a different model type")
	}
	r.model = m
}

// ReuseKey returns the reuse key of the row's cell.
func (r *Row) ReuseKey() string { return r.bind.reuseKey }

// Accessory returns the trailing accessory.
func (r *Row) Accessory() Accessory { return r.accessory }

// SetAccessory changes the trailing accessory. It takes effect on the next
// dequeue of the row.
func (r *Row) SetAccessory(a Accessory) { r.accessory = a }

// SetHeight fixes the row height, overriding every other height source.
func (r *Row) SetHeight(h float64) {
	r.height = h
	r.hasHeight = true
}

// ClearHeight removes a fixed height.
func (r *Row) ClearHeight() {
	r.height = 0
	r.hasHeight = false
}

// Height returns the fixed height, if any.
func (r *Row) Height() (float64, bool) { return r.height, r.hasHeight }

// HeightFunc installs a per-instance height evaluator. Returning false
// defers to the next height source.
func (r *Row) HeightFunc(fn func() (float64, bool)) *Row {
	r.heightFn = fn
	return r
}

// EstimatedHeightFunc installs a per-instance estimate evaluator.
func (r *Row) EstimatedHeightFunc(fn func() (float64, bool)) *Row {
	r.estimator = fn
	return r
}

// SetShouldHighlight overrides the highlight decision for this row.
func (r *Row) SetShouldHighlight(v bool) { r.highlight = &v }

// Position returns the position the row was last displayed at.
func (r *Row) Position() (Position, bool) { return r.pos, r.placed }

// Section returns the section that currently contains the row.
func (r *Row) Section() *Section { return r.section }

// BoundView returns the identity of the view the row was last bound to.
func (r *Row) BoundView() ViewID { return r.view }

// OnDequeue is called after the row is bound into a view.
func (r *Row) OnDequeue(fn func(*Row)) *Row { r.cb.dequeue = fn; return r }

// OnTap is called when the row is selected. The returned behavior decides
// whether the selection stays.
func (r *Row) OnTap(fn func(*Row) TapBehavior) *Row { r.cb.tap = fn; return r }

// OnSelect is called when a tap keeps the selection.
func (r *Row) OnSelect(fn func(*Row)) *Row { r.cb.sel = fn; return r }

// OnDeselect is called when the row loses its selection.
func (r *Row) OnDeselect(fn func(*Row)) *Row { r.cb.deselect = fn; return r }

// OnWillSelect may redirect a selection to another position or veto it by
// returning false.
func (r *Row) OnWillSelect(fn func(*Row) (Position, bool)) *Row { r.cb.willSelect = fn; return r }

// OnWillDisplay is called right before the row's view appears.
func (r *Row) OnWillDisplay(fn func(*Row)) *Row { r.cb.willDisplay = fn; return r }

// OnDidEndDisplay is called once the row's view leaves the screen, including
// after the row has been removed from the model.
func (r *Row) OnDidEndDisplay(fn func(*Row)) *Row { r.cb.didEndDisplay = fn; return r }

// OnShouldHighlight decides whether a touch highlights the row.
func (r *Row) OnShouldHighlight(fn func(*Row) bool) *Row { r.cb.shouldHighlight = fn; return r }

// OnEditActions supplies swipe actions. The row is editable while fn
// returns at least one.
func (r *Row) OnEditActions(fn func(*Row) []EditAction) *Row { r.cb.editActions = fn; return r }

// OnDelete handles a committed delete edit. It does not make the row
// editable by itself; offer a DeleteAction through OnEditActions.
func (r *Row) OnDelete(fn func(*Row)) *Row { r.cb.delete = fn; return r }

// CanMove decides whether the row can be reordered.
func (r *Row) CanMove(fn func(*Row) bool) *Row { r.cb.canMove = fn; return r }

// ShouldIndentWhileEditing decides whether the row indents in edit mode.
func (r *Row) ShouldIndentWhileEditing(fn func(*Row) bool) *Row { r.cb.shouldIndent = fn; return r }

// Handles reports whether a callback is installed for e.
func (r *Row) Handles(e RowEvent) bool {
	switch e {
	case EventDequeue:
		return r.cb.dequeue != nil
	case EventTap:
		return r.cb.tap != nil
	case EventSelect:
		return r.cb.sel != nil
	case EventDeselect:
		return r.cb.deselect != nil
	case EventWillSelect:
		return r.cb.willSelect != nil
	case EventWillDisplay:
		return r.cb.willDisplay != nil
	case EventDidEndDisplay:
		return r.cb.didEndDisplay != nil
	case EventShouldHighlight:
		return r.cb.shouldHighlight != nil
	case EventEditActions:
		return r.cb.editActions != nil
	case EventDelete:
		return r.cb.delete != nil
	case EventCanMove:
		return r.cb.canMove != nil
	case EventShouldIndent:
		return r.cb.shouldIndent != nil
	}
	return false
}

// label identifies the row in error reports.
func (r *Row) label() string {
	if r.ID != "" {
		return r.ID
	}
	return r.bind.reuseKey
}
