package observable

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_MutationsRecordEvents(t *testing.T) {
	seq := NewSequence("a", "b", "c")
	token := NewToken()
	seq.Observe(token)

	seq.Append("d")
	seq.Insert(0, "z")
	seq.RemoveAt(2)
	seq.Replace(1, "A")
	seq.MarkUpdated(0, 0, 99)

	want := []Event{
		{Kind: Inserted, Indices: []int{3}},
		{Kind: Inserted, Indices: []int{0}},
		{Kind: Deleted, Indices: []int{2}},
		{Kind: Updated, Indices: []int{1}},
		{Kind: Updated, Indices: []int{0}},
	}
	assert.Equal(t, want, seq.Log(token))
	assert.Equal(t, []string{"z", "A", "c", "d"}, seq.Items())
	assert.Equal(t, 3, seq.Baseline(token))
}

func TestSequence_QueriesDoNotRecord(t *testing.T) {
	seq := NewSequence(1, 2, 3)
	token := NewToken()
	seq.Observe(token)

	seq.Len()
	seq.At(1)
	seq.IndexOf(2)
	seq.Find(func(v int) bool { return v > 1 })
	seq.Filter(func(v int) bool { return v%2 == 1 })
	for range seq.All() {
	}

	assert.Empty(t, seq.Log(token))
}

func TestSequence_OutOfRangeIsNoOp(t *testing.T) {
	seq := NewSequence("a")
	token := NewToken()
	seq.Observe(token)

	seq.Insert(5, "x")
	seq.Insert(-1, "x")
	_, removed := seq.RemoveAt(3)
	_, replaced := seq.Replace(-2, "x")
	seq.RemoveIndices(7, 8)

	assert.False(t, removed)
	assert.False(t, replaced)
	assert.Equal(t, []string{"a"}, seq.Items())
	assert.Empty(t, seq.Log(token))
}

func TestSequence_RemoveIndices(t *testing.T) {
	seq := NewSequence("a", "b", "c", "d", "e")
	token := NewToken()
	seq.Observe(token)

	removed := seq.RemoveIndices(3, 1, 3)

	assert.Equal(t, []string{"b", "d"}, removed)
	assert.Equal(t, []string{"a", "c", "e"}, seq.Items())
	assert.Equal(t, []Event{{Kind: Deleted, Indices: []int{1, 3}}}, seq.Log(token))
}

func TestSequence_ObserverOnlySeesEventsWhileRegistered(t *testing.T) {
	seq := NewSequence("a")
	seq.Append("before")

	token := NewToken()
	seq.Observe(token)
	seq.Append("during")
	seq.Forget(token)
	seq.Append("after")

	assert.Nil(t, seq.Log(token))
	assert.False(t, seq.Observed(token))
}

func TestSequence_SessionIsolation(t *testing.T) {
	first := NewSequence("a", "b")
	second := NewSequence(1, 2, 3)

	tokenA := NewToken()
	tokenB := NewToken()
	require.NotEqual(t, tokenA, tokenB)

	first.Observe(tokenA)
	first.Append("c")
	second.Observe(tokenB)
	first.RemoveAt(0)
	second.Append(4)
	first.Observe(tokenB)
	first.Append("d")

	assert.Equal(t, []Event{
		{Kind: Inserted, Indices: []int{2}},
		{Kind: Deleted, Indices: []int{0}},
		{Kind: Inserted, Indices: []int{2}},
	}, first.Log(tokenA))
	assert.Equal(t, []Event{{Kind: Inserted, Indices: []int{2}}}, first.Log(tokenB))
	assert.Equal(t, []Event{{Kind: Inserted, Indices: []int{3}}}, second.Log(tokenB))
	assert.Nil(t, second.Log(tokenA))
}

func TestReconcile_RemoveThenAppend(t *testing.T) {
	seq := NewSequence("A", "B", "C")
	token := NewToken()
	seq.Observe(token)

	seq.RemoveAt(1)
	seq.Append("D")

	cs := Reconcile(seq.Baseline(token), seq.Log(token))
	assert.Equal(t, []int{1}, cs.Deleted)
	assert.Equal(t, []int{2}, cs.Inserted)
	assert.Empty(t, cs.Updated)
	assert.Equal(t, []string{"A", "C", "D"}, seq.Items())
}

func TestReconcile_RemoveAllThenAdd(t *testing.T) {
	seq := NewSequence("S1", "S2")
	token := NewToken()
	seq.Observe(token)

	seq.RemoveAll()
	seq.Append("S3")

	cs := Reconcile(seq.Baseline(token), seq.Log(token))
	assert.Equal(t, []int{0, 1}, cs.Deleted)
	assert.Equal(t, []int{0}, cs.Inserted)
	assert.Equal(t, []string{"S3"}, seq.Items())
}

func TestReconcile_TranslatesIntermediateIndices(t *testing.T) {
	seq := NewSequence("A", "B", "C")
	token := NewToken()
	seq.Observe(token)

	// "A" moves to index 1 before being removed; its pre-session index is 0.
	seq.Insert(0, "X")
	seq.RemoveAt(1)
	seq.Replace(1, "B2")

	cs := Reconcile(seq.Baseline(token), seq.Log(token))
	assert.Equal(t, []int{0}, cs.Deleted)
	assert.Equal(t, []int{0}, cs.Inserted)
	assert.Equal(t, []int{1}, cs.Updated)
}

func TestReconcile_InsertedThenRemovedCancels(t *testing.T) {
	seq := NewSequence("A")
	token := NewToken()
	seq.Observe(token)

	seq.Append("tmp")
	seq.MarkUpdated(1)
	seq.RemoveAt(1)

	cs := Reconcile(seq.Baseline(token), seq.Log(token))
	assert.True(t, cs.Empty())
}

// Any interleaving of deletions and insertions, replayed as deletions in the
// pre-session space followed by insertions in the post-session space, must
// reproduce the final contents.
func TestReconcile_MirrorReproducesFinalContents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	next := 0
	fresh := func() int {
		next++
		return next
	}

	for round := 0; round < 500; round++ {
		initial := make([]int, rng.Intn(8))
		for i := range initial {
			initial[i] = fresh()
		}
		seq := NewSequence(initial...)
		token := NewToken()
		seq.Observe(token)

		for op := rng.Intn(12); op > 0; op-- {
			switch rng.Intn(6) {
			case 0, 1:
				seq.Insert(rng.Intn(seq.Len()+1), fresh())
			case 2:
				seq.AppendAll(fresh(), fresh())
			case 3, 4:
				if seq.Len() > 0 {
					seq.RemoveAt(rng.Intn(seq.Len()))
				}
			case 5:
				if seq.Len() > 1 {
					seq.RemoveIndices(0, seq.Len()-1)
				}
			}
		}

		final := seq.Items()
		cs := Reconcile(seq.Baseline(token), seq.Log(token))
		mirror := Apply(initial, cs, func(i int) int { return final[i] })

		require.True(t, slices.Equal(final, mirror), "round %d: log %v: got %v, want %v", round, seq.Log(token), mirror, final)
		require.Equal(t, len(final), cs.Final(len(initial)))
	}
}

func TestApply_EmptiedSequenceMatchesItems(t *testing.T) {
	seq := NewSequence(7)
	token := NewToken()
	seq.Observe(token)
	seq.RemoveAt(0)

	mirror := Apply([]int{7}, Reconcile(seq.Baseline(token), seq.Log(token)), func(int) int { return 0 })

	require.Equal(t, seq.Items(), mirror)
	require.Nil(t, mirror)
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{Inserted, "inserted"},
		{Deleted, "deleted"},
		{Updated, "updated"},
		{EventKind(9), "EventKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
