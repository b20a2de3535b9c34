package testing

import "github.com/go-drift/tableflow/pkg/table"

// View is an in-memory table.View. Cell configure functions used in tests
// write into Text and Detail; FittingHeight reports Fitting.
type View struct {
	ID        table.ViewID
	ReuseKey  string
	Text      string
	Detail    string
	Fitting   float64
	Accessory table.Accessory

	size     table.Size
	prepared int
	layouts  int
}

// ViewID implements table.View.
func (v *View) ViewID() table.ViewID { return v.ID }

// Size implements table.View.
func (v *View) Size() table.Size { return v.size }

// SetSize implements table.View.
func (v *View) SetSize(s table.Size) { v.size = s }

// PrepareForReuse implements table.View.
func (v *View) PrepareForReuse() {
	v.prepared++
	v.Text = ""
	v.Detail = ""
	v.Accessory = table.AccessoryNone
}

// LayoutIfNeeded implements table.View.
func (v *View) LayoutIfNeeded() { v.layouts++ }

// FittingHeight implements table.View.
func (v *View) FittingHeight() float64 { return v.Fitting }

// SetAccessory implements table.View.
func (v *View) SetAccessory(a table.Accessory) { v.Accessory = a }

// PrepareCount returns how often the view was prepared for reuse.
func (v *View) PrepareCount() int { return v.prepared }

// LayoutCount returns how many layout passes ran.
func (v *View) LayoutCount() int { return v.layouts }

// TextCell returns a cell that writes its string model into View.Text.
func TextCell(reuseKey string) table.Cell[string] {
	return table.Cell[string]{
		ReuseKey: reuseKey,
		NewView:  func() table.View { return &View{} },
		Configure: func(v table.View, text string, _ table.Position) {
			if tv, ok := v.(*View); ok {
				tv.Text = text
			}
		},
	}
}
