package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/tableflow/pkg/table"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the table structure as the surface sees it.
type Snapshot struct {
	Sections []SectionNode `json:"sections"`
}

// SectionNode is one section in a snapshot.
type SectionNode struct {
	Header       string    `json:"header,omitempty"`
	Footer       string    `json:"footer,omitempty"`
	HeaderHeight float64   `json:"headerHeight"`
	FooterHeight float64   `json:"footerHeight"`
	Rows         []RowNode `json:"rows,omitempty"`
}

// RowNode is one row in a snapshot.
type RowNode struct {
	ID        string  `json:"id,omitempty"`
	ReuseKey  string  `json:"reuseKey"`
	Height    float64 `json:"height"`
	Text      string  `json:"text,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	Accessory string  `json:"accessory,omitempty"`
}

// CaptureSnapshot captures every section and row through the data source.
// Text is taken from the displayed view, when there is one.
func (s *Surface) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Sections: []SectionNode{}}
	if s.source == nil {
		return snap
	}
	m, _ := s.source.(*table.Manager)
	for si := 0; si < s.source.SectionCount(); si++ {
		node := SectionNode{
			Header:       s.source.TitleForHeader(si),
			Footer:       s.source.TitleForFooter(si),
			HeaderHeight: round2(s.source.HeightForHeaderFooter(table.Header, si)),
			FooterHeight: round2(s.source.HeightForHeaderFooter(table.Footer, si)),
		}
		for ri := 0; ri < s.source.RowCount(si); ri++ {
			pos := table.Position{Section: si, Row: ri}
			rn := RowNode{Height: round2(s.source.HeightForRow(pos))}
			if m != nil {
				if r, ok := m.Row(pos); ok {
					rn.ID = r.ID
					rn.ReuseKey = r.ReuseKey()
					if a := r.Accessory(); a != table.AccessoryNone {
						rn.Accessory = a.String()
					}
				}
			}
			if v, ok := s.visible[pos].(*View); ok {
				rn.Text = v.Text
				rn.Detail = v.Detail
			}
			node.Rows = append(node.Rows, rn)
		}
		snap.Sections = append(snap.Sections, node)
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// TABLEFLOW_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("TABLEFLOW_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: TABLEFLOW_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: TABLEFLOW_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
