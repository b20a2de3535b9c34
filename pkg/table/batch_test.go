package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_ValidateAcceptsConsistentBatch(t *testing.T) {
	b := &Batch{
		DeletedRows:  []Position{{Section: 0, Row: 1}},
		InsertedRows: []Position{{Section: 0, Row: 2}},
	}
	require.NoError(t, b.Validate([]int{3}, []int{3}))
}

func TestBatch_ValidateRejectsCountMismatch(t *testing.T) {
	b := &Batch{InsertedRows: []Position{{Section: 0, Row: 0}}}
	err := b.Validate([]int{2}, []int{2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number of rows in section 0")
}

func TestBatch_ValidateRejectsSectionMismatch(t *testing.T) {
	b := &Batch{DeletedSections: []int{0}}
	err := b.Validate([]int{1, 1}, []int{1, 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number of sections")
}

func TestBatch_ValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch
	}{
		{"delete section", Batch{DeletedSections: []int{4}}},
		{"insert section", Batch{InsertedSections: []int{4}}},
		{"reload section", Batch{ReloadedSections: []int{4}}},
		{"delete row", Batch{DeletedRows: []Position{{Section: 0, Row: 9}}}},
		{"reload deleted row", Batch{
			DeletedRows:  []Position{{Section: 0, Row: 0}},
			ReloadedRows: []Position{{Section: 0, Row: 0}},
			InsertedRows: []Position{{Section: 0, Row: 0}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.batch.Validate([]int{2}, []int{2}))
		})
	}
}

func TestBatch_ReloadedSectionSkipsRowCheck(t *testing.T) {
	b := &Batch{ReloadedSections: []int{0}}
	assert.NoError(t, b.Validate([]int{2}, []int{5}))
}

func TestBatch_PositionAfter(t *testing.T) {
	b := &Batch{
		DeletedSections:  []int{0},
		InsertedSections: []int{2},
		DeletedRows:      []Position{{Section: 1, Row: 0}},
		InsertedRows:     []Position{{Section: 0, Row: 3}},
	}

	_, ok := b.PositionAfter(Position{Section: 0, Row: 0})
	assert.False(t, ok, "row in deleted section")

	_, ok = b.PositionAfter(Position{Section: 1, Row: 0})
	assert.False(t, ok, "deleted row")

	got, ok := b.PositionAfter(Position{Section: 1, Row: 4})
	require.True(t, ok)
	assert.Equal(t, Position{Section: 0, Row: 4}, got)

	got, ok = b.PositionAfter(Position{Section: 1, Row: 2})
	require.True(t, ok)
	assert.Equal(t, Position{Section: 0, Row: 1}, got)

	got, ok = b.PositionAfter(Position{Section: 2, Row: 0})
	require.True(t, ok)
	assert.Equal(t, Position{Section: 1, Row: 0}, got)
}

func TestBatch_Reloaded(t *testing.T) {
	b := &Batch{ReloadedSections: []int{1}, ReloadedRows: []Position{{Section: 0, Row: 2}}}
	assert.True(t, b.Reloaded(Position{Section: 1, Row: 5}))
	assert.True(t, b.Reloaded(Position{Section: 0, Row: 2}))
	assert.False(t, b.Reloaded(Position{Section: 0, Row: 1}))
	assert.False(t, b.Empty())
	assert.True(t, (&Batch{}).Empty())
}
