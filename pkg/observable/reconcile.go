package observable

import "slices"

// Changeset is the net effect of an event log, addressed the way batch
// updating list surfaces expect it.
type Changeset struct {
	// Deleted holds indices in the space before the session, ascending.
	Deleted []int
	// Inserted holds indices in the space after the session, ascending.
	Inserted []int
	// Updated holds indices, in the space before the session, of elements
	// that survived the session and must be redrawn.
	Updated []int
}

// Empty reports whether the changeset carries no operation.
func (c Changeset) Empty() bool {
	return len(c.Deleted) == 0 && len(c.Inserted) == 0 && len(c.Updated) == 0
}

// Final returns the element count after applying c to before elements.
func (c Changeset) Final(before int) int {
	return before - len(c.Deleted) + len(c.Inserted)
}

// slot tracks one position while a log is replayed. origin is the index the
// element had before the session, or -1 for elements inserted during it.
type slot struct {
	origin  int
	updated bool
}

// Reconcile replays events against a sequence that held before elements and
// returns the net deletions, insertions and updates.
//
// Elements inserted and removed within the same log cancel out. An update
// to an element inserted during the session is absorbed by its insertion.
func Reconcile(before int, events []Event) Changeset {
	slots := make([]slot, before)
	for i := range slots {
		slots[i].origin = i
	}

	for _, ev := range events {
		switch ev.Kind {
		case Inserted:
			idx := slices.Clone(ev.Indices)
			slices.Sort(idx)
			for _, i := range idx {
				if i < 0 || i > len(slots) {
					continue
				}
				slots = slices.Insert(slots, i, slot{origin: -1})
			}
		case Deleted:
			idx := normalize(ev.Indices, len(slots))
			for k := len(idx) - 1; k >= 0; k-- {
				slots = slices.Delete(slots, idx[k], idx[k]+1)
			}
		case Updated:
			for _, i := range ev.Indices {
				if i >= 0 && i < len(slots) {
					slots[i].updated = true
				}
			}
		}
	}

	var cs Changeset
	survived := make([]bool, before)
	for pos, s := range slots {
		if s.origin < 0 {
			cs.Inserted = append(cs.Inserted, pos)
			continue
		}
		survived[s.origin] = true
		if s.updated {
			cs.Updated = append(cs.Updated, s.origin)
		}
	}
	for i, ok := range survived {
		if !ok {
			cs.Deleted = append(cs.Deleted, i)
		}
	}
	return cs
}

// Apply replays c against items, deleting in pre-session space and then
// inserting in post-session space. insert supplies the element for each
// post-session index. It is the reference model surfaces mirror. Like
// Sequence.Items, an empty result is nil.
func Apply[T any](items []T, c Changeset, insert func(index int) T) []T {
	out := slices.Clone(items)
	for k := len(c.Deleted) - 1; k >= 0; k-- {
		i := c.Deleted[k]
		if i >= 0 && i < len(out) {
			out = slices.Delete(out, i, i+1)
		}
	}
	for _, i := range c.Inserted {
		if i >= 0 && i <= len(out) {
			out = slices.Insert(out, i, insert(i))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalize sorts indices, drops duplicates and those outside [0, n).
func normalize(indices []int, n int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < n {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
