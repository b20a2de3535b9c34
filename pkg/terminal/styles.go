package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/tableflow/pkg/table"
)

// Palette.
var (
	Primary = lipgloss.Color("#7C3AED")
	Accent  = lipgloss.Color("#06B6D4")
	Muted   = lipgloss.Color("#6B7280")
	Dim     = lipgloss.Color("#374151")
)

// Styles controls how the surface paints its lines.
type Styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Detail    lipgloss.Style
	Value     lipgloss.Style
	Accessory lipgloss.Style
	Separator lipgloss.Style
	Focused   lipgloss.Style
	Selected  lipgloss.Style
}

// DefaultStyles returns the colored style set used by the demo.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Footer:    lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Title:     lipgloss.NewStyle(),
		Detail:    lipgloss.NewStyle().Foreground(Muted),
		Value:     lipgloss.NewStyle().Foreground(Accent),
		Accessory: lipgloss.NewStyle().Foreground(Muted),
		Separator: lipgloss.NewStyle().Foreground(Dim),
		Focused:   lipgloss.NewStyle().Reverse(true),
		Selected:  lipgloss.NewStyle().Foreground(Primary),
	}
}

// PlainStyles returns styles that emit no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Footer:    plain,
		Title:     plain,
		Detail:    plain,
		Value:     plain,
		Accessory: plain,
		Separator: plain,
		Focused:   plain,
		Selected:  plain,
	}
}

// accessoryGlyph is the trailing marker drawn for a.
func accessoryGlyph(a table.Accessory) string {
	switch a {
	case table.AccessoryDisclosure:
		return "›"
	case table.AccessoryCheckmark:
		return "✓"
	case table.AccessoryDetail:
		return "ⓘ"
	default:
		return ""
	}
}
