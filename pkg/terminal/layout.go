package terminal

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	tferrors "github.com/go-drift/tableflow/pkg/errors"
	"github.com/go-drift/tableflow/pkg/table"
)

type itemKind int

const (
	itemHeader itemKind = iota
	itemRow
	itemFooter
)

// item is one laid-out header, row or footer. Row is meaningful only for
// rows.
type item struct {
	kind   itemKind
	pos    table.Position
	top    int
	height int
	title  string
}

func (it item) slot() slot {
	if it.kind == itemFooter {
		return slot{kind: table.Footer, section: it.pos.Section}
	}
	return slot{kind: table.Header, section: it.pos.Section}
}

// layout walks every section from the top, resolving heights and displaying
// what intersects the viewport. Views that left the viewport end display.
func (s *Surface) layout() {
	s.ensureLoaded()
	s.frame = s.frame[:0]
	if s.source == nil {
		return
	}
	seenRows := make(map[table.Position]bool)
	seenSupps := make(map[slot]bool)
	y := 0
	for section, n := range s.counts {
		y = s.placeSupplementary(table.Header, section, y, seenSupps)
		for row := range n {
			y = s.placeRow(table.Position{Section: section, Row: row}, y, seenRows)
		}
		y = s.placeSupplementary(table.Footer, section, y, seenSupps)
	}

	for _, pos := range sortedPositions(s.rows) {
		if !seenRows[pos] {
			v := s.rows[pos]
			delete(s.rows, pos)
			s.source.DidEndDisplay(v, pos)
			s.recycle(v)
		}
	}
	for _, key := range sortedSlots(s.supps) {
		if !seenSupps[key] {
			v := s.supps[key]
			delete(s.supps, key)
			s.source.DidEndDisplayHeaderFooter(key.kind, v, key.section)
			s.recycle(v)
		}
	}
}

func (s *Surface) placeRow(pos table.Position, y int, seen map[table.Position]bool) int {
	h := s.source.HeightForRow(pos)
	automatic := h < 0
	var lines int
	switch {
	case !automatic:
		lines = toLines(h)
	case s.rows[pos] != nil:
		lines = s.fitting(s.rows[pos], true)
	default:
		lines = toLines(s.estimate(pos))
	}
	if s.inViewport(y, lines) {
		if v := s.displayRow(pos); v != nil {
			if automatic {
				lines = s.fitting(v, true)
			}
			seen[pos] = s.inViewport(y, lines)
		}
	}
	s.frame = append(s.frame, item{kind: itemRow, pos: pos, top: y, height: lines})
	return y + lines
}

func (s *Surface) placeSupplementary(kind table.SupplementaryKind, section, y int, seen map[slot]bool) int {
	key := slot{kind: kind, section: section}
	title := s.title(kind, section)
	v, shown := s.supps[key]
	var lines int
	switch {
	case shown:
		lines = s.supplementaryLines(kind, section, v)
	case title != "":
		lines = 1
	default:
		lines = toLines(s.source.EstimatedHeightForHeaderFooter(kind, section))
		if lines < 0 {
			lines = 1
		}
	}
	if lines > 0 && s.inViewport(y, lines) {
		if !shown {
			if v = s.source.ViewForHeaderFooter(kind, section); v != nil {
				shown = true
				s.supps[key] = v
				s.source.WillDisplayHeaderFooter(kind, v, section)
			}
		}
		if shown {
			lines = s.supplementaryLines(kind, section, v)
			seen[key] = s.inViewport(y, lines)
		}
	}
	if lines <= 0 {
		return y
	}
	k := itemHeader
	if kind == table.Footer {
		k = itemFooter
	}
	s.frame = append(s.frame, item{kind: k, pos: table.Position{Section: section}, top: y, height: lines, title: title})
	return y + lines
}

func (s *Surface) supplementaryLines(kind table.SupplementaryKind, section int, v table.View) int {
	h := s.source.HeightForHeaderFooter(kind, section)
	if h < 0 {
		return s.fitting(v, false)
	}
	return toLines(h)
}

func (s *Surface) title(kind table.SupplementaryKind, section int) string {
	if kind == table.Footer {
		return s.source.TitleForFooter(section)
	}
	return s.source.TitleForHeader(section)
}

func (s *Surface) displayRow(pos table.Position) table.View {
	if v, ok := s.rows[pos]; ok {
		return v
	}
	v := s.source.ViewForRow(pos)
	if v == nil {
		return nil
	}
	s.rows[pos] = v
	s.source.WillDisplay(v, pos)
	return v
}

// fitting is the line height of v's content, plus the separator for rows.
func (s *Surface) fitting(v table.View, separator bool) int {
	h := v.FittingHeight()
	if h <= 0 {
		h = v.Size().Height
	}
	if h <= 0 {
		h = 1
	}
	if separator {
		h += s.SeparatorHeight()
	}
	return toLines(h)
}

func (s *Surface) estimate(pos table.Position) float64 {
	if h := s.source.EstimatedHeightForRow(pos); h > 0 {
		return h
	}
	return s.opts.EstimatedRowHeight
}

func (s *Surface) inViewport(top, height int) bool {
	if height <= 0 {
		return false
	}
	if s.opts.Height <= 0 {
		return true
	}
	return top < s.offset+s.opts.Height && top+height > s.offset
}

// contentHeight is the total height of the last layout.
func (s *Surface) contentHeight() int {
	if len(s.frame) == 0 {
		return 0
	}
	last := s.frame[len(s.frame)-1]
	return last.top + last.height
}

// clampOffset keeps the viewport inside the content and reports whether it
// moved.
func (s *Surface) clampOffset() bool {
	limit := max(s.contentHeight()-s.opts.Height, 0)
	if s.opts.Height <= 0 {
		limit = 0
	}
	clamped := min(max(s.offset, 0), limit)
	if clamped == s.offset {
		return false
	}
	s.offset = clamped
	return true
}

func (s *Surface) scrollTo(pos table.Position, anchor table.ScrollPosition) {
	if s.opts.Height <= 0 {
		return
	}
	if len(s.frame) == 0 {
		s.layout()
	}
	it, ok := s.rowItem(pos)
	if !ok {
		return
	}
	switch anchor {
	case table.ScrollTop:
		s.offset = it.top
	case table.ScrollMiddle:
		s.offset = it.top - (s.opts.Height-it.height)/2
	case table.ScrollBottom:
		s.offset = it.top + it.height - s.opts.Height
	default:
		if it.top < s.offset {
			s.offset = it.top
		} else if bottom := it.top + it.height; bottom > s.offset+s.opts.Height {
			s.offset = bottom - s.opts.Height
		}
	}
	s.clampOffset()
}

func (s *Surface) rowItem(pos table.Position) (item, bool) {
	for _, it := range s.frame {
		if it.kind == itemRow && it.pos == pos {
			return it, true
		}
	}
	return item{}, false
}

// Render lays out the viewport and paints it. With a viewport height the
// result has exactly that many lines. A view that panics while drawing is
// reported and the frame comes out empty.
func (s *Surface) Render() (frame string) {
	defer tferrors.Recover("terminal.Surface.Render")
	s.layout()
	if s.clampOffset() {
		s.layout()
	}
	width := s.opts.Width
	var out []string
	for _, it := range s.frame {
		if !s.inViewport(it.top, it.height) {
			continue
		}
		for i, line := range s.draw(it, width) {
			y := it.top + i
			if y < s.offset || (s.opts.Height > 0 && y >= s.offset+s.opts.Height) {
				continue
			}
			out = append(out, line)
		}
	}
	for s.opts.Height > 0 && len(out) < s.opts.Height {
		out = append(out, strings.Repeat(" ", width))
	}
	s.flashed = s.flashed[:0]
	return strings.Join(out, "\n")
}

// draw paints it into exactly it.height lines.
func (s *Surface) draw(it item, width int) []string {
	st := s.styles
	switch it.kind {
	case itemRow:
		sep := int(s.SeparatorHeight())
		body := max(it.height-sep, 0)
		var lines []string
		if d, ok := s.rows[it.pos].(Drawable); ok {
			lines = d.Draw(width, st.Title, st)
		}
		lines = fit(lines, body, width)
		if style, ok := s.rowStyle(it.pos); ok {
			for i, l := range lines {
				lines[i] = style.Render(l)
			}
		}
		for range min(sep, it.height) {
			lines = append(lines, st.Separator.Render(strings.Repeat("─", width)))
		}
		return lines
	default:
		style := st.Header
		if it.kind == itemFooter {
			style = st.Footer
		}
		if d, ok := s.supps[it.slot()].(Drawable); ok {
			return fit(d.Draw(width, style, st), it.height, width)
		}
		title := runewidth.FillRight(runewidth.Truncate(it.title, width, ellipsis), width)
		return fit([]string{style.Render(title)}, it.height, width)
	}
}

func (s *Surface) rowStyle(pos table.Position) (lipgloss.Style, bool) {
	switch {
	case s.hasCursor && s.cursor == pos:
		return s.styles.Focused, true
	case s.hasSelected && s.selected == pos:
		return s.styles.Selected, true
	}
	for _, p := range s.flashed {
		if p == pos {
			return s.styles.Selected, true
		}
	}
	return lipgloss.NewStyle(), false
}

// fit clips or pads lines to exactly n lines of width columns.
func fit(lines []string, n, width int) []string {
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return lines
}

func toLines(h float64) int {
	if h <= 0 {
		return int(h)
	}
	return int(math.Ceil(h))
}
