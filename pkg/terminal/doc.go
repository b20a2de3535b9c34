// Package terminal provides a table.Surface that lays rows out in text lines
// and renders a viewport of them as a string.
//
// Heights are measured in lines. A row whose height resolves to the
// automatic sentinel takes the fitting height of its bound view; plain
// section titles take one line. The surface keeps its own mirror of the
// section and row counts and rejects batches that do not account for the
// difference, the same way a platform list view does.
//
// A typical frame:
//
//	surface := terminal.NewSurface(terminal.Options{Width: 40, Height: 12})
//	manager := table.NewManager(surface)
//	manager.AddSection(table.NewSection("sites", rows...))
//	surface.ReloadData()
//	fmt.Println(surface.Render())
//
// The surface is not safe for concurrent use; drive it from the goroutine
// that owns the manager.
package terminal
