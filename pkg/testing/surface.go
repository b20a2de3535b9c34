package testing

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	tferrors "github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/table"
)

const (
	// DefaultWidth is the default content width of the test surface.
	DefaultWidth = 320
	// DefaultEstimatedRowHeight is the default surface-wide row estimate.
	DefaultEstimatedRowHeight = 44
)

// ErrNotInBatch is returned by EndUpdates without a matching BeginUpdates.
var ErrNotInBatch = errors.New("EndUpdates called without BeginUpdates")

// Op is one call the surface received, in call order.
type Op struct {
	Kind      string
	Sections  []int
	Positions []table.Position
	Animation table.Animation
}

func (o Op) String() string {
	switch {
	case o.Sections != nil:
		return fmt.Sprintf("%s%v", o.Kind, o.Sections)
	case o.Positions != nil:
		return fmt.Sprintf("%s%v", o.Kind, o.Positions)
	}
	return o.Kind
}

// Deselection records a DeselectRow call.
type Deselection struct {
	Position table.Position
	Animated bool
}

// Surface is a recording table.Surface. It keeps a row-count mirror,
// validates batches against it, pools views per reuse key and tracks which
// views are displayed at which position.
type Surface struct {
	Width              float64
	Estimate           float64
	Separator          float64
	RejectEndUpdates   error
	ReportReloadEnding bool

	source   table.DataSource
	counts   []int
	loaded   bool
	batch    *table.Batch
	ops      []Op
	deselect []Deselection
	scrolled []table.Position

	static    map[string]bool
	cells     map[string]func() table.View
	headers   map[string]func() table.View
	pools     map[string][]table.View
	visible   map[table.Position]table.View
	selected  map[table.Position]bool
	created   int
	lastID    table.ViewID
	errs      []*tferrors.TableError
	callbacks []*tferrors.CallbackError
	prevErr   tferrors.ErrorHandler
}

// NewSurface creates an empty surface. Call Cleanup when done, or use
// NewSurfaceWithT instead.
func NewSurface() *Surface {
	s := &Surface{
		Width:    DefaultWidth,
		Estimate: DefaultEstimatedRowHeight,
		static:   make(map[string]bool),
		cells:    make(map[string]func() table.View),
		headers:  make(map[string]func() table.View),
		pools:    make(map[string][]table.View),
		visible:  make(map[table.Position]table.View),
		selected: make(map[table.Position]bool),
	}
	s.prevErr = tferrors.SetHandler(s)
	return s
}

// NewSurfaceWithT creates a surface that cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewSurfaceWithT(t *testing.T) *Surface {
	s := NewSurface()
	t.Cleanup(s.Cleanup)
	return s
}

// Cleanup restores the global error handler.
func (s *Surface) Cleanup() {
	tferrors.SetHandler(s.prevErr)
}

// HandleError implements errors.ErrorHandler so tests can inspect reports.
func (s *Surface) HandleError(err *tferrors.TableError) { s.errs = append(s.errs, err) }

// HandlePanic implements errors.ErrorHandler.
func (s *Surface) HandlePanic(err *tferrors.PanicError) {
	s.errs = append(s.errs, &tferrors.TableError{Op: err.Op, Kind: tferrors.KindPanic, Err: err})
}

// HandleCallbackError implements errors.ErrorHandler.
func (s *Surface) HandleCallbackError(err *tferrors.CallbackError) {
	s.callbacks = append(s.callbacks, err)
}

// Errors returns the errors reported while the surface was installed.
func (s *Surface) Errors() []*tferrors.TableError { return s.errs }

// CallbackErrors returns the callback failures reported so far.
func (s *Surface) CallbackErrors() []*tferrors.CallbackError { return s.callbacks }

// Declare marks reuseKey as statically bound, the way a view declared in a
// layout file is available without registration.
func (s *Surface) Declare(reuseKey string, factory func() table.View) {
	s.static[reuseKey] = true
	s.cells[reuseKey] = factory
}

// Attach implements table.Surface.
func (s *Surface) Attach(source table.DataSource) { s.source = source }

// Source returns the attached data source.
func (s *Surface) Source() table.DataSource { return s.source }

// ReloadData implements table.Surface. Displayed views are recycled without
// end-of-display reports unless ReportReloadEnding is set.
func (s *Surface) ReloadData() {
	s.record(Op{Kind: "reloadData"})
	for pos, v := range s.visible {
		if s.ReportReloadEnding && s.source != nil {
			s.source.DidEndDisplay(v, pos)
		}
		s.recycle(v)
	}
	clear(s.visible)
	clear(s.selected)
	s.counts = s.readCounts()
	s.loaded = true
}

// BeginUpdates implements table.Surface.
func (s *Surface) BeginUpdates() {
	s.ensureLoaded()
	s.record(Op{Kind: "begin"})
	s.batch = &table.Batch{}
}

// EndUpdates implements table.Surface. It validates the batch against the
// count mirror, then ends display of deleted and reloaded rows and moves
// the remaining views to their new positions.
func (s *Surface) EndUpdates() error {
	if s.batch == nil {
		return ErrNotInBatch
	}
	b := s.batch
	s.batch = nil
	s.record(Op{Kind: "end"})
	if s.RejectEndUpdates != nil {
		return s.RejectEndUpdates
	}
	current := s.readCounts()
	if err := b.Validate(s.counts, current); err != nil {
		return err
	}

	moved := make(map[table.Position]table.View, len(s.visible))
	var reload []table.Position
	for _, pre := range sortedPositions(s.visible) {
		v := s.visible[pre]
		post, ok := b.PositionAfter(pre)
		if !ok || b.Reloaded(pre) {
			s.source.DidEndDisplay(v, pre)
			s.recycle(v)
			if ok {
				reload = append(reload, post)
			}
			continue
		}
		moved[post] = v
	}
	s.visible = moved
	s.counts = current
	for _, pos := range reload {
		s.Display(pos)
	}
	return nil
}

func (s *Surface) InsertSections(indices []int, a table.Animation) {
	s.record(Op{Kind: "insertSections", Sections: slices.Clone(indices), Animation: a})
	s.inBatch(func(b *table.Batch) { b.InsertedSections = append(b.InsertedSections, indices...) })
}

func (s *Surface) DeleteSections(indices []int, a table.Animation) {
	s.record(Op{Kind: "deleteSections", Sections: slices.Clone(indices), Animation: a})
	s.inBatch(func(b *table.Batch) { b.DeletedSections = append(b.DeletedSections, indices...) })
}

func (s *Surface) ReloadSections(indices []int, a table.Animation) {
	s.record(Op{Kind: "reloadSections", Sections: slices.Clone(indices), Animation: a})
	s.inBatch(func(b *table.Batch) { b.ReloadedSections = append(b.ReloadedSections, indices...) })
}

func (s *Surface) InsertRows(positions []table.Position, a table.Animation) {
	s.record(Op{Kind: "insertRows", Positions: slices.Clone(positions), Animation: a})
	s.inBatch(func(b *table.Batch) { b.InsertedRows = append(b.InsertedRows, positions...) })
}

func (s *Surface) DeleteRows(positions []table.Position, a table.Animation) {
	s.record(Op{Kind: "deleteRows", Positions: slices.Clone(positions), Animation: a})
	s.inBatch(func(b *table.Batch) { b.DeletedRows = append(b.DeletedRows, positions...) })
}

func (s *Surface) ReloadRows(positions []table.Position, a table.Animation) {
	s.record(Op{Kind: "reloadRows", Positions: slices.Clone(positions), Animation: a})
	s.inBatch(func(b *table.Batch) { b.ReloadedRows = append(b.ReloadedRows, positions...) })
}

// inBatch applies fn to the open batch, or to a single-change batch that is
// committed immediately.
func (s *Surface) inBatch(fn func(*table.Batch)) {
	if s.batch != nil {
		fn(s.batch)
		return
	}
	s.BeginUpdates()
	fn(s.batch)
	if err := s.EndUpdates(); err != nil {
		tferrors.Reportf("testing.Surface", tferrors.KindBatch, err)
		s.ReloadData()
	}
}

// IsRegistered implements table.Surface.
func (s *Surface) IsRegistered(reuseKey string) bool {
	_, cell := s.cells[reuseKey]
	_, header := s.headers[reuseKey]
	return cell || header
}

// RegisterCell implements table.Surface.
func (s *Surface) RegisterCell(reuseKey string, factory func() table.View) {
	s.record(Op{Kind: "register:" + reuseKey})
	s.cells[reuseKey] = factory
}

// RegisterHeaderFooter implements table.Surface.
func (s *Surface) RegisterHeaderFooter(reuseKey string, factory func() table.View) {
	s.record(Op{Kind: "registerHeaderFooter:" + reuseKey})
	s.headers[reuseKey] = factory
}

// DequeueCell implements table.Surface.
func (s *Surface) DequeueCell(reuseKey string, _ table.Position) table.View {
	return s.dequeue(reuseKey, s.cells)
}

// DequeueHeaderFooter implements table.Surface.
func (s *Surface) DequeueHeaderFooter(reuseKey string) table.View {
	return s.dequeue(reuseKey, s.headers)
}

// Prototype implements table.Surface.
func (s *Surface) Prototype(reuseKey string) table.View {
	factory, ok := s.cells[reuseKey]
	if !ok || factory == nil {
		return nil
	}
	return s.create(reuseKey, factory)
}

func (s *Surface) dequeue(reuseKey string, factories map[string]func() table.View) table.View {
	if pool := s.pools[reuseKey]; len(pool) > 0 {
		v := pool[len(pool)-1]
		s.pools[reuseKey] = pool[:len(pool)-1]
		v.PrepareForReuse()
		return v
	}
	factory, ok := factories[reuseKey]
	if !ok || factory == nil {
		return nil
	}
	return s.create(reuseKey, factory)
}

func (s *Surface) create(reuseKey string, factory func() table.View) table.View {
	v := factory()
	if tv, ok := v.(*View); ok {
		if tv.ID == 0 {
			s.lastID++
			tv.ID = s.lastID
		}
		tv.ReuseKey = reuseKey
	}
	s.created++
	return v
}

func (s *Surface) recycle(v table.View) {
	if tv, ok := v.(*View); ok && tv.ReuseKey != "" {
		s.pools[tv.ReuseKey] = append(s.pools[tv.ReuseKey], v)
	}
}

// ViewAt implements table.Surface.
func (s *Surface) ViewAt(pos table.Position) table.View { return s.visible[pos] }

// DeselectRow implements table.Surface.
func (s *Surface) DeselectRow(pos table.Position, animated bool) {
	s.deselect = append(s.deselect, Deselection{Position: pos, Animated: animated})
	delete(s.selected, pos)
}

// ScrollToRow implements table.Surface.
func (s *Surface) ScrollToRow(pos table.Position, _ table.ScrollPosition, _ bool) {
	s.scrolled = append(s.scrolled, pos)
}

// ContentWidth implements table.Surface.
func (s *Surface) ContentWidth() float64 { return s.Width }

// EstimatedRowHeight implements table.Surface.
func (s *Surface) EstimatedRowHeight() float64 { return s.Estimate }

// SeparatorHeight implements table.Surface.
func (s *Surface) SeparatorHeight() float64 { return s.Separator }

// Display asks the source for the view at pos and marks it displayed.
func (s *Surface) Display(pos table.Position) table.View {
	s.ensureLoaded()
	if old, ok := s.visible[pos]; ok {
		return old
	}
	v := s.source.ViewForRow(pos)
	if v == nil {
		return nil
	}
	s.visible[pos] = v
	s.source.WillDisplay(v, pos)
	return v
}

// DisplayAll displays every row in the count mirror.
func (s *Surface) DisplayAll() {
	s.ensureLoaded()
	for section, n := range s.counts {
		for row := 0; row < n; row++ {
			s.Display(table.Position{Section: section, Row: row})
		}
	}
}

// EndDisplay scrolls pos out of view and recycles its view.
func (s *Surface) EndDisplay(pos table.Position) {
	v, ok := s.visible[pos]
	if !ok {
		return
	}
	delete(s.visible, pos)
	s.source.DidEndDisplay(v, pos)
	s.recycle(v)
}

// Visible returns the displayed positions in order.
func (s *Surface) Visible() []table.Position { return sortedPositions(s.visible) }

// Counts returns the row-count mirror.
func (s *Surface) Counts() []int {
	s.ensureLoaded()
	return slices.Clone(s.counts)
}

// Ops returns every recorded call.
func (s *Surface) Ops() []Op { return slices.Clone(s.ops) }

// BatchOps returns the recorded calls without registrations.
func (s *Surface) BatchOps() []Op {
	var out []Op
	for _, op := range s.ops {
		if op.Kind == "reloadData" || op.Kind == "begin" || op.Kind == "end" ||
			op.Sections != nil || op.Positions != nil {
			out = append(out, op)
		}
	}
	return out
}

// ResetOps clears the recorded calls.
func (s *Surface) ResetOps() { s.ops = nil }

// Deselections returns every DeselectRow call.
func (s *Surface) Deselections() []Deselection { return slices.Clone(s.deselect) }

// Scrolls returns every ScrollToRow target.
func (s *Surface) Scrolls() []table.Position { return slices.Clone(s.scrolled) }

// Created returns how many views the surface has instantiated.
func (s *Surface) Created() int { return s.created }

func (s *Surface) record(op Op) { s.ops = append(s.ops, op) }

func (s *Surface) ensureLoaded() {
	if !s.loaded {
		s.counts = s.readCounts()
		s.loaded = true
	}
}

func (s *Surface) readCounts() []int {
	if s.source == nil {
		return nil
	}
	counts := make([]int, s.source.SectionCount())
	for i := range counts {
		counts[i] = s.source.RowCount(i)
	}
	return counts
}

func sortedPositions(m map[table.Position]table.View) []table.Position {
	out := make([]table.Position, 0, len(m))
	for pos := range m {
		out = append(out, pos)
	}
	slices.SortFunc(out, func(a, b table.Position) int {
		if a.Section != b.Section {
			return a.Section - b.Section
		}
		return a.Row - b.Row
	})
	return out
}
