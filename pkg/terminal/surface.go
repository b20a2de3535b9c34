package terminal

import (
	"errors"
	"slices"

	tferrors "github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/table"
)

// Defaults applied by NewSurface to zero options.
const (
	DefaultWidth              = 40
	DefaultEstimatedRowHeight = 1
)

// ErrNotInBatch is returned by EndUpdates without a matching BeginUpdates.
var ErrNotInBatch = errors.New("terminal: EndUpdates called without BeginUpdates")

// Options configures a Surface.
type Options struct {
	// Width is the content width in columns.
	Width int
	// Height is the viewport height in lines. Zero shows every row.
	Height int
	// EstimatedRowHeight is the surface-wide row estimate in lines.
	EstimatedRowHeight float64
	// Separators draws a rule under every row and counts it in the row's
	// height.
	Separators bool
	// Styles paints the frame. The zero value renders without styling.
	Styles *Styles
}

type slot struct {
	kind    table.SupplementaryKind
	section int
}

// Surface is a table.Surface that lays rows out in lines.
type Surface struct {
	opts   Options
	styles Styles
	source table.DataSource

	counts []int
	loaded bool
	batch  *table.Batch

	static  map[string]bool
	cells   map[string]func() table.View
	headers map[string]func() table.View
	pools   map[string][]table.View
	keys    map[table.ViewID]string
	lastID  table.ViewID

	rows   map[table.Position]table.View
	supps  map[slot]table.View
	offset int
	frame  []item

	cursor      table.Position
	hasCursor   bool
	selected    table.Position
	hasSelected bool
	flashed     []table.Position
}

// NewSurface creates a surface with opts, filling zero fields with defaults.
func NewSurface(opts Options) *Surface {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.EstimatedRowHeight <= 0 {
		opts.EstimatedRowHeight = DefaultEstimatedRowHeight
	}
	styles := PlainStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	return &Surface{
		opts:    opts,
		styles:  styles,
		static:  make(map[string]bool),
		cells:   make(map[string]func() table.View),
		headers: make(map[string]func() table.View),
		pools:   make(map[string][]table.View),
		keys:    make(map[table.ViewID]string),
		rows:    make(map[table.Position]table.View),
		supps:   make(map[slot]table.View),
	}
}

// Options returns the options the surface runs with.
func (s *Surface) Options() Options { return s.opts }

// Declare makes reuseKey available without registration, the way a cell
// declared alongside the list is.
func (s *Surface) Declare(reuseKey string, factory func() table.View) {
	s.static[reuseKey] = true
	s.cells[reuseKey] = factory
}

// Declared reports whether reuseKey was declared rather than registered.
func (s *Surface) Declared(reuseKey string) bool { return s.static[reuseKey] }

// Attach implements table.Surface.
func (s *Surface) Attach(source table.DataSource) { s.source = source }

// ReloadData implements table.Surface. Every displayed view ends display and
// returns to its pool.
func (s *Surface) ReloadData() {
	s.endAll()
	s.counts = s.readCounts()
	s.loaded = true
	s.hasSelected = false
	s.clampCursor()
}

// BeginUpdates implements table.Surface.
func (s *Surface) BeginUpdates() {
	s.ensureLoaded()
	s.batch = &table.Batch{}
}

// EndUpdates implements table.Surface. The batch must account for the
// difference between the mirrored counts and the source's current counts.
// Displayed views of deleted and reloaded rows end display; the rest move to
// their new positions.
func (s *Surface) EndUpdates() error {
	if s.batch == nil {
		return ErrNotInBatch
	}
	b := s.batch
	s.batch = nil
	current := s.readCounts()
	if err := b.Validate(s.counts, current); err != nil {
		return err
	}
	if b.Empty() {
		return nil
	}

	rows := make(map[table.Position]table.View, len(s.rows))
	for _, pre := range sortedPositions(s.rows) {
		v := s.rows[pre]
		post, ok := b.PositionAfter(pre)
		if !ok || b.Reloaded(pre) {
			s.source.DidEndDisplay(v, pre)
			s.recycle(v)
			continue
		}
		rows[post] = v
	}
	s.rows = rows

	supps := make(map[slot]table.View, len(s.supps))
	for _, key := range sortedSlots(s.supps) {
		v := s.supps[key]
		post, ok := b.SectionAfter(key.section)
		if !ok || slices.Contains(b.ReloadedSections, key.section) {
			s.source.DidEndDisplayHeaderFooter(key.kind, v, key.section)
			s.recycle(v)
			continue
		}
		supps[slot{kind: key.kind, section: post}] = v
	}
	s.supps = supps

	if s.hasSelected {
		s.selected, s.hasSelected = b.PositionAfter(s.selected)
	}
	if s.hasCursor {
		if post, ok := b.PositionAfter(s.cursor); ok {
			s.cursor = post
		}
	}
	s.counts = current
	s.clampCursor()
	return nil
}

func (s *Surface) InsertSections(indices []int, _ table.Animation) {
	s.inBatch(func(b *table.Batch) { b.InsertedSections = append(b.InsertedSections, indices...) })
}

func (s *Surface) DeleteSections(indices []int, _ table.Animation) {
	s.inBatch(func(b *table.Batch) { b.DeletedSections = append(b.DeletedSections, indices...) })
}

func (s *Surface) ReloadSections(indices []int, _ table.Animation) {
	s.inBatch(func(b *table.Batch) { b.ReloadedSections = append(b.ReloadedSections, indices...) })
}

func (s *Surface) InsertRows(positions []table.Position, _ table.Animation) {
	s.inBatch(func(b *table.Batch) { b.InsertedRows = append(b.InsertedRows, positions...) })
}

func (s *Surface) DeleteRows(positions []table.Position, _ table.Animation) {
	s.inBatch(func(b *table.Batch) { b.DeletedRows = append(b.DeletedRows, positions...) })
}

func (s *Surface) ReloadRows(positions []table.Position, _ table.Animation) {
	s.inBatch(func(b *table.Batch) { b.ReloadedRows = append(b.ReloadedRows, positions...) })
}

// inBatch applies fn to the open batch, or commits it as a batch of its own.
func (s *Surface) inBatch(fn func(*table.Batch)) {
	if s.batch != nil {
		fn(s.batch)
		return
	}
	s.BeginUpdates()
	fn(s.batch)
	if err := s.EndUpdates(); err != nil {
		tferrors.Reportf("terminal.Surface", tferrors.KindBatch, err)
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
	s.cells[reuseKey] = factory
}

// RegisterHeaderFooter implements table.Surface.
func (s *Surface) RegisterHeaderFooter(reuseKey string, factory func() table.View) {
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
	factory := s.cells[reuseKey]
	if factory == nil {
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
	factory := factories[reuseKey]
	if factory == nil {
		return nil
	}
	return s.create(reuseKey, factory)
}

func (s *Surface) create(reuseKey string, factory func() table.View) table.View {
	v := factory()
	if v == nil {
		return nil
	}
	if tv, ok := v.(*View); ok {
		if tv.id == 0 {
			s.lastID++
			tv.id = s.lastID
		}
		tv.reuseKey = reuseKey
	}
	s.keys[v.ViewID()] = reuseKey
	return v
}

func (s *Surface) recycle(v table.View) {
	if key, ok := s.keys[v.ViewID()]; ok {
		s.pools[key] = append(s.pools[key], v)
	}
}

// ViewAt implements table.Surface.
func (s *Surface) ViewAt(pos table.Position) table.View { return s.rows[pos] }

// DeselectRow implements table.Surface. The row flashes in the next frame
// when animated.
func (s *Surface) DeselectRow(pos table.Position, animated bool) {
	if s.hasSelected && s.selected == pos {
		s.hasSelected = false
	}
	if animated {
		s.flashed = append(s.flashed, pos)
	}
}

// ScrollToRow implements table.Surface.
func (s *Surface) ScrollToRow(pos table.Position, anchor table.ScrollPosition, _ bool) {
	s.scrollTo(pos, anchor)
}

// ContentWidth implements table.Surface.
func (s *Surface) ContentWidth() float64 { return float64(s.opts.Width) }

// EstimatedRowHeight implements table.Surface.
func (s *Surface) EstimatedRowHeight() float64 { return s.opts.EstimatedRowHeight }

// SeparatorHeight implements table.Surface.
func (s *Surface) SeparatorHeight() float64 {
	if s.opts.Separators {
		return 1
	}
	return 0
}

// Counts returns the mirrored row counts.
func (s *Surface) Counts() []int {
	s.ensureLoaded()
	return slices.Clone(s.counts)
}

// Visible returns the positions of the displayed rows in order.
func (s *Surface) Visible() []table.Position { return sortedPositions(s.rows) }

func (s *Surface) endAll() {
	for _, pos := range sortedPositions(s.rows) {
		v := s.rows[pos]
		if s.source != nil {
			s.source.DidEndDisplay(v, pos)
		}
		s.recycle(v)
	}
	clear(s.rows)
	for _, key := range sortedSlots(s.supps) {
		v := s.supps[key]
		if s.source != nil {
			s.source.DidEndDisplayHeaderFooter(key.kind, v, key.section)
		}
		s.recycle(v)
	}
	clear(s.supps)
}

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

func comparePositions(a, b table.Position) int {
	if a.Section != b.Section {
		return a.Section - b.Section
	}
	return a.Row - b.Row
}

func sortedPositions(m map[table.Position]table.View) []table.Position {
	out := make([]table.Position, 0, len(m))
	for pos := range m {
		out = append(out, pos)
	}
	slices.SortFunc(out, comparePositions)
	return out
}

func sortedSlots(m map[slot]table.View) []slot {
	out := make([]slot, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	slices.SortFunc(out, func(a, b slot) int {
		if a.section != b.section {
			return a.section - b.section
		}
		return int(a.kind) - int(b.kind)
	})
	return out
}
