// Package observable provides an ordered, index-addressable container that
// records every structural mutation into per-observer event logs.
//
// A Sequence notifies zero or more observers of inserts, deletes and updates,
// each tagged with the indices affected. Observers are keyed by a session
// Token: a log only receives events produced while its observer is registered,
// so several independent sessions can watch the same sequence at once.
//
//	seq := observable.NewSequence("a", "b", "c")
//	token := observable.NewToken()
//	seq.Observe(token)
//	seq.RemoveAt(1)
//	seq.Append("d")
//	changes := observable.Reconcile(seq.Baseline(token), seq.Log(token))
//	// changes.Deleted == []int{1}, changes.Inserted == []int{2}
//	seq.Forget(token)
//
// Reconcile folds a log into the net operations a batch-updating surface
// needs: deletions addressed against the state before the session and
// insertions addressed against the state after it.
//
// Sequences are not safe for concurrent use. They are meant to be mutated
// from the goroutine that owns the rendering surface.
package observable
