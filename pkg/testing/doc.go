// Package testing provides an in-memory rendering surface for testing table
// managers without a terminal.
//
// # Quick Start
//
// Create a surface, bind a manager, display rows and make assertions:
//
//	func TestMyTable(t *testing.T) {
//	    surface := tabletest.NewSurfaceWithT(t)
//	    manager := table.NewManager(surface)
//	    manager.AddSection(table.NewSection("main", rows...))
//	    surface.ReloadData()
//
//	    // Display every row, as a tall viewport would
//	    surface.DisplayAll()
//
//	    // Simulate a tap
//	    surface.Tap(tabletest.ByID("submit"))
//
//	    // Assert the batch the manager produced
//	    ops := surface.Ops()
//	}
//
// The surface mirrors row counts the way a real list renderer does and
// rejects batches that do not add up, so a manager that produces an
// inconsistent batch fails here too.
//
// # Snapshot Testing
//
// Capture and compare the displayed table:
//
//	snapshot := surface.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/settings.snapshot.json")
//
// Update snapshots with:
//
//	TABLEFLOW_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import tabletest "github.com/go-drift/tableflow/pkg/testing"
package testing
