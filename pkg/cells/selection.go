package cells

import (
	"slices"

	"github.com/go-drift/tableflow/pkg/table"
)

// SelectionData is the model of a selection row: a title, the options and
// the current choice.
type SelectionData struct {
	Title    string
	Options  []string
	Selected string
}

// Selection is a cell showing a title and the current choice.
var Selection = table.Cell[SelectionData]{
	ReuseKey:      SelectionKey,
	NewView:       newView,
	DefaultHeight: 1,
	Configure: func(v table.View, d SelectionData, _ table.Position) {
		if tv := terminalView(v); tv != nil {
			tv.Title = d.Title
			tv.Value = d.Selected
		}
	},
}

// NewSelection returns a selection row with a disclosure accessory. Tapping
// it builds a Picker for the options and hands it to present; choosing an
// option updates the row and reports the new data to onChange.
func NewSelection(title, selected string, options []string, present func(*Picker), onChange func(SelectionData), opts ...table.RowOption) *table.Row {
	data := SelectionData{Title: title, Options: slices.Clone(options), Selected: selected}
	opts = append([]table.RowOption{table.WithAccessory(table.AccessoryDisclosure)}, opts...)
	r := table.NewRow(Selection, data, opts...)
	r.OnTap(func(r *table.Row) table.TapBehavior {
		current, _ := table.Model[SelectionData](r)
		picker := NewPicker(current, func(choice string, chosen bool) {
			if !chosen {
				return
			}
			d, _ := table.Model[SelectionData](r)
			d.Selected = choice
			table.SetModel(r, d)
			reload(r)
			if onChange != nil {
				onChange(d)
			}
		})
		if present != nil {
			present(picker)
		}
		return table.DeselectAnimated
	})
	return r
}

// Picker lists the options of a selection with a checkmark on the current
// choice. It must be created with NewPicker and attached to a surface before
// it is shown; using a zero Picker panics.
type Picker struct {
	data    SelectionData
	done    func(choice string, chosen bool)
	manager *table.Manager
	section *table.Section
	closed  bool
	ready   bool
}

// NewPicker returns a picker for data. done runs once, with the chosen
// option or with chosen false when the picker is cancelled.
func NewPicker(data SelectionData, done func(choice string, chosen bool)) *Picker {
	data.Options = slices.Clone(data.Options)
	return &Picker{data: data, done: done, ready: true}
}

func (p *Picker) mustBeReady() {
	if p == nil || !p.ready {
		panic("cells: Picker used without NewPicker")
	}
}

// Title returns the title of the selection.
func (p *Picker) Title() string {
	p.mustBeReady()
	return p.data.Title
}

// Selected returns the current choice.
func (p *Picker) Selected() string {
	p.mustBeReady()
	return p.data.Selected
}

// Closed reports whether an option was chosen or the picker was cancelled.
func (p *Picker) Closed() bool {
	p.mustBeReady()
	return p.closed
}

// Attach builds the option list on surface and loads it.
func (p *Picker) Attach(surface table.Surface, opts ...table.Option) *table.Manager {
	p.mustBeReady()
	p.manager = table.NewManager(surface, opts...)
	p.section = table.NewSection("picker")
	p.section.HeaderTitle = p.data.Title
	for _, option := range p.data.Options {
		r := table.NewRow(Text, option, table.WithID(option))
		if option == p.data.Selected {
			r.SetAccessory(table.AccessoryCheckmark)
		}
		r.OnTap(func(*table.Row) table.TapBehavior {
			p.Choose(option)
			return table.DeselectAnimated
		})
		p.section.Add(r)
	}
	p.manager.AddSection(p.section)
	p.manager.Reload()
	return p.manager
}

// Manager returns the manager built by Attach, or nil before it.
func (p *Picker) Manager() *table.Manager {
	p.mustBeReady()
	return p.manager
}

// Choose selects option, moves the checkmark and closes the picker. Unknown
// options and closed pickers are ignored.
func (p *Picker) Choose(option string) bool {
	p.mustBeReady()
	if p.closed || !slices.Contains(p.data.Options, option) {
		return false
	}
	previous := p.data.Selected
	p.data.Selected = option
	if p.manager != nil && previous != option {
		p.manager.Update(true, func() {
			p.section.ReloadRowsWithIDs(p.mark(previous, table.AccessoryNone), p.mark(option, table.AccessoryCheckmark))
		})
	}
	p.close(option, true)
	return true
}

// Cancel closes the picker without a choice.
func (p *Picker) Cancel() {
	p.mustBeReady()
	if !p.closed {
		p.close("", false)
	}
}

func (p *Picker) mark(id string, a table.Accessory) string {
	if r, _, ok := p.section.RowWithID(id); ok {
		r.SetAccessory(a)
	}
	return id
}

func (p *Picker) close(choice string, chosen bool) {
	p.closed = true
	if p.done != nil {
		p.done(choice, chosen)
	}
}
