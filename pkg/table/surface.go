package table

// Surface is the reuse-based list renderer a Manager drives. It owns the
// view instances, performs layout and scrolling, and asks its DataSource for
// everything it displays.
//
// Batch calls between BeginUpdates and EndUpdates follow the two-space
// contract: row and section deletions and reloads are addressed against the
// state before the batch, insertions against the state after it.
type Surface interface {
	// Attach installs the data source and delegate the surface queries.
	Attach(source DataSource)

	// ReloadData discards every displayed view and re-queries the source.
	ReloadData()

	BeginUpdates()
	// EndUpdates commits the batch. It fails when the batch does not account
	// for the difference between the old and new counts.
	EndUpdates() error

	InsertSections(indices []int, animation Animation)
	DeleteSections(indices []int, animation Animation)
	ReloadSections(indices []int, animation Animation)
	InsertRows(positions []Position, animation Animation)
	DeleteRows(positions []Position, animation Animation)
	ReloadRows(positions []Position, animation Animation)

	// IsRegistered reports whether a binding for the reuse key is already
	// declared, statically or by an earlier registration.
	IsRegistered(reuseKey string) bool
	RegisterCell(reuseKey string, factory func() View)
	RegisterHeaderFooter(reuseKey string, factory func() View)

	// DequeueCell returns a recycled or new view for the row at pos, or nil
	// when nothing is registered under the key.
	DequeueCell(reuseKey string, pos Position) View
	// DequeueHeaderFooter returns a recycled or new header/footer view.
	DequeueHeaderFooter(reuseKey string) View
	// Prototype returns a fresh off-screen instance used for measurement.
	Prototype(reuseKey string) View

	// ViewAt returns the view currently displaying pos, if any.
	ViewAt(pos Position) View
	DeselectRow(pos Position, animated bool)
	ScrollToRow(pos Position, anchor ScrollPosition, animated bool)

	// ContentWidth is the width rows are laid out at.
	ContentWidth() float64
	// EstimatedRowHeight is the surface-wide fallback estimate.
	EstimatedRowHeight() float64
	// SeparatorHeight is the height added below each row; zero when
	// separators are disabled.
	SeparatorHeight() float64
}

// DataSource is the set of questions a Surface asks while displaying the
// table. Manager implements it.
type DataSource interface {
	SectionCount() int
	RowCount(section int) int
	ViewForRow(pos Position) View

	HeightForRow(pos Position) float64
	EstimatedHeightForRow(pos Position) float64

	TitleForHeader(section int) string
	TitleForFooter(section int) string
	ViewForHeaderFooter(kind SupplementaryKind, section int) View
	HeightForHeaderFooter(kind SupplementaryKind, section int) float64
	EstimatedHeightForHeaderFooter(kind SupplementaryKind, section int) float64
	WillDisplayHeaderFooter(kind SupplementaryKind, view View, section int)
	DidEndDisplayHeaderFooter(kind SupplementaryKind, view View, section int)

	SectionIndexTitles() []string
	SectionForIndexTitle(title string, index int) int

	WillSelectRow(pos Position) (Position, bool)
	DidSelectRow(pos Position)
	DidDeselectRow(pos Position)
	ShouldHighlightRow(pos Position) bool

	WillDisplay(view View, pos Position)
	DidEndDisplay(view View, pos Position)

	CanEditRow(pos Position) bool
	EditActionsForRow(pos Position) []EditAction
	CommitEdit(style EditingStyle, pos Position)
	CanMoveRow(pos Position) bool
	ShouldIndentWhileEditing(pos Position) bool
}

// TemplateSource resolves template-based view bindings. It is consulted
// before a cell's own factory when a reuse key is first registered.
type TemplateSource interface {
	Template(reuseKey string) (func() View, bool)
}

// Templates is a TemplateSource backed by a map.
type Templates map[string]func() View

// Template implements TemplateSource.
func (t Templates) Template(reuseKey string) (func() View, bool) {
	f, ok := t[reuseKey]
	return f, ok && f != nil
}
