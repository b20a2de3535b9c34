package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/go-drift/tableflow/pkg/table"
)

const ellipsis = "…"

// Drawable is implemented by views that paint themselves into lines. Views
// that do not implement it are drawn as blank lines.
type Drawable interface {
	Draw(width int, title lipgloss.Style, st Styles) []string
}

// View is the stock terminal cell and header/footer view: a title, an
// optional right-aligned value, a trailing accessory and an optional detail
// line. With Wrap set the title wraps to the view width, which is what makes
// its fitting height grow.
type View struct {
	Title  string
	Detail string
	Value  string
	Wrap   bool

	id        table.ViewID
	reuseKey  string
	size      table.Size
	accessory table.Accessory
	prepared  int
}

// NewView returns an empty view. The surface assigns its identity when the
// view is created through a registered factory.
func NewView() *View { return &View{} }

// ViewID implements table.View.
func (v *View) ViewID() table.ViewID { return v.id }

// ReuseKey returns the key the view was created under.
func (v *View) ReuseKey() string { return v.reuseKey }

// Size implements table.View.
func (v *View) Size() table.Size { return v.size }

// SetSize implements table.View.
func (v *View) SetSize(s table.Size) { v.size = s }

// PrepareForReuse implements table.View.
func (v *View) PrepareForReuse() {
	v.prepared++
	v.Title, v.Detail, v.Value = "", "", ""
	v.Wrap = false
	v.accessory = table.AccessoryNone
}

// LayoutIfNeeded implements table.View. Lines are computed on demand.
func (v *View) LayoutIfNeeded() {}

// FittingHeight implements table.View. It reports how many lines the content
// takes at the current width, or 0 before the view has a width.
func (v *View) FittingHeight() float64 {
	width := int(v.size.Width)
	if width <= 0 {
		return 0
	}
	plain := PlainStyles()
	return float64(lipgloss.Height(strings.Join(v.Draw(width, plain.Title, plain), "\n")))
}

// SetAccessory implements table.View.
func (v *View) SetAccessory(a table.Accessory) { v.accessory = a }

// Accessory returns the accessory last set by the manager.
func (v *View) Accessory() table.Accessory { return v.accessory }

// PrepareCount returns how often the view was recycled.
func (v *View) PrepareCount() int { return v.prepared }

// Draw implements Drawable. Every returned line is exactly width columns.
func (v *View) Draw(width int, title lipgloss.Style, st Styles) []string {
	if width <= 0 {
		return nil
	}
	glyph := accessoryGlyph(v.accessory)
	trailing := runewidth.StringWidth(v.Value)
	if glyph != "" {
		if trailing > 0 {
			trailing++
		}
		trailing += runewidth.StringWidth(glyph)
	}
	if trailing >= width {
		trailing = 0
	}
	titleWidth := width
	if trailing > 0 {
		titleWidth = width - trailing - 1
	}

	titles := v.titleLines(titleWidth)
	lines := make([]string, 0, len(titles)+1)
	for i, t := range titles {
		line := title.Render(runewidth.FillRight(t, titleWidth))
		if trailing > 0 {
			line += " "
			if i == 0 {
				line += v.trailing(st, trailing)
			} else {
				line += strings.Repeat(" ", trailing)
			}
		}
		lines = append(lines, line)
	}
	if v.Detail != "" {
		detail := runewidth.Truncate(v.Detail, width, ellipsis)
		lines = append(lines, st.Detail.Render(runewidth.FillRight(detail, width)))
	}
	return lines
}

func (v *View) titleLines(width int) []string {
	if !v.Wrap || v.Title == "" {
		return []string{runewidth.Truncate(v.Title, width, ellipsis)}
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(v.Title)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = runewidth.Truncate(strings.TrimRight(l, " "), width, ellipsis)
	}
	return lines
}

func (v *View) trailing(st Styles, width int) string {
	var b strings.Builder
	used := 0
	if v.Value != "" {
		b.WriteString(st.Value.Render(v.Value))
		used += runewidth.StringWidth(v.Value)
	}
	if glyph := accessoryGlyph(v.accessory); glyph != "" {
		if used > 0 {
			b.WriteString(" ")
			used++
		}
		b.WriteString(st.Accessory.Render(glyph))
		used += runewidth.StringWidth(glyph)
	}
	if used < width {
		return strings.Repeat(" ", width-used) + b.String()
	}
	return b.String()
}
