package table

import "fmt"

// Automatic is the height sentinel understood by surfaces as "size the row
// from its content".
const Automatic = -1.0

// HeaderFooterHeight is the height of a plain, title-only header or footer.
const HeaderFooterHeight = 44.0

// Position addresses a row inside the table.
type Position struct {
	Section int
	Row     int
}

func (p Position) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Row)
}

// ViewID is the identity of a view instance. Zero means "no view".
type ViewID uint64

// Size is a width/height pair in surface units.
type Size struct {
	Width  float64
	Height float64
}

// View is a reusable view instance owned by the rendering surface.
type View interface {
	// ViewID returns the stable identity of this instance.
	ViewID() ViewID
	// Size returns the current layout bounds.
	Size() Size
	// SetSize changes the layout bounds.
	SetSize(Size)
	// PrepareForReuse resets per-row state before the view is rebound.
	PrepareForReuse()
	// LayoutIfNeeded forces a layout pass.
	LayoutIfNeeded()
	// FittingHeight returns the smallest height that fits the content at the
	// current width, or 0 when the content cannot tell.
	FittingHeight() float64
	// SetAccessory shows a trailing accessory marker.
	SetAccessory(Accessory)
}

// Accessory is a trailing marker a row asks its view to display.
type Accessory int

const (
	AccessoryNone Accessory = iota
	AccessoryDisclosure
	AccessoryCheckmark
	AccessoryDetail
)

func (a Accessory) String() string {
	switch a {
	case AccessoryDisclosure:
		return "disclosure"
	case AccessoryCheckmark:
		return "checkmark"
	case AccessoryDetail:
		return "detail"
	default:
		return "none"
	}
}

// Animation selects how the surface animates a batch.
type Animation int

const (
	AnimationAutomatic Animation = iota
	AnimationFade
	AnimationRight
	AnimationLeft
	AnimationTop
	AnimationBottom
	AnimationMiddle
	// AnimationNone applies the batch without animating it.
	AnimationNone
)

var animationNames = map[Animation]string{
	AnimationAutomatic: "automatic",
	AnimationFade:      "fade",
	AnimationRight:     "right",
	AnimationLeft:      "left",
	AnimationTop:       "top",
	AnimationBottom:    "bottom",
	AnimationMiddle:    "middle",
	AnimationNone:      "none",
}

func (a Animation) String() string {
	if name, ok := animationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Animation(%d)", int(a))
}

// ParseAnimation resolves an animation by name.
func ParseAnimation(name string) (Animation, error) {
	for a, n := range animationNames {
		if n == name {
			return a, nil
		}
	}
	return AnimationAutomatic, fmt.Errorf("unknown animation %q", name)
}

// TapBehavior tells the manager what to do with a selection after a tap.
// The zero value deselects with animation.
type TapBehavior int

const (
	// DeselectAnimated clears the selection with animation.
	DeselectAnimated TapBehavior = iota
	// Deselect clears the selection without animation.
	Deselect
	// KeepSelection leaves the row selected and dispatches OnSelect.
	KeepSelection
)

// ScrollPosition anchors a scrolled-to row inside the viewport.
type ScrollPosition int

const (
	ScrollNone ScrollPosition = iota
	ScrollTop
	ScrollMiddle
	ScrollBottom
)

// EditingStyle is the kind of edit a surface commits for a row.
type EditingStyle int

const (
	EditingNone EditingStyle = iota
	EditingDelete
	EditingInsert
)

// EditAction is one swipe action offered for a row.
type EditAction struct {
	Title       string
	Destructive bool
	Handler     func(r *Row)
}

// DeleteAction is the destructive action a surface commits as
// EditingDelete.
func DeleteAction() EditAction {
	return EditAction{Title: "Delete", Destructive: true}
}

// SupplementaryKind distinguishes a section header from its footer.
type SupplementaryKind int

const (
	Header SupplementaryKind = iota
	Footer
)

func (k SupplementaryKind) String() string {
	if k == Footer {
		return "footer"
	}
	return "header"
}

// Highlight is a static highlight policy declared by a cell type.
type Highlight int

const (
	// HighlightUnset defers to the row and its callbacks.
	HighlightUnset Highlight = iota
	HighlightAlways
	HighlightNever
)

// Stats counts the expensive work a Manager has done.
type Stats struct {
	// Measurements is the number of automatic height measurements.
	Measurements int
	// CacheHits is the number of measured heights served from the cache.
	CacheHits int
	// Registrations is the number of reuse keys registered with the surface.
	Registrations int
	// PendingEndDisplay is the number of views awaiting an end-of-display report.
	PendingEndDisplay int
	// Evicted is the number of pending end-of-display entries dropped on reload.
	Evicted int
}
