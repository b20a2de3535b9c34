package cells

import "github.com/go-drift/tableflow/pkg/table"

// SwitchConfig is the model of a switch row.
type SwitchConfig struct {
	Title string
	On    bool
}

// Switch is a cell showing a title and an on/off value.
var Switch = table.Cell[SwitchConfig]{
	ReuseKey:      SwitchKey,
	NewView:       newView,
	DefaultHeight: 1,
	Configure: func(v table.View, c SwitchConfig, _ table.Position) {
		if tv := terminalView(v); tv != nil {
			tv.Title = c.Title
			tv.Value = switchValue(c.On)
		}
	},
}

func switchValue(on bool) string {
	if on {
		return "[on]"
	}
	return "[off]"
}

// NewSwitch returns a switch row. Tapping it flips the value, redisplays the
// row and reports the new configuration to onChange.
func NewSwitch(title string, on bool, onChange func(SwitchConfig), opts ...table.RowOption) *table.Row {
	r := table.NewRow(Switch, SwitchConfig{Title: title, On: on}, opts...)
	r.OnTap(func(r *table.Row) table.TapBehavior {
		Toggle(r)
		if onChange != nil {
			c, _ := table.Model[SwitchConfig](r)
			onChange(c)
		}
		return table.DeselectAnimated
	})
	return r
}

// Toggle flips the value of a switch row and redisplays it. It reports
// false for rows that are not switches.
func Toggle(r *table.Row) bool {
	c, ok := table.Model[SwitchConfig](r)
	if !ok {
		return false
	}
	c.On = !c.On
	table.SetModel(r, c)
	reload(r)
	return true
}
