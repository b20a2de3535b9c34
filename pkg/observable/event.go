package observable

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind identifies the structural mutation an Event records.
type EventKind int

const (
	// Inserted means elements were inserted at Indices (post-mutation space).
	Inserted EventKind = iota
	// Deleted means elements were removed from Indices (pre-mutation space).
	Deleted
	// Updated means elements at Indices were replaced or must be redrawn.
	Updated
)

func (k EventKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Deleted:
		return "deleted"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one structural mutation recorded in an observer's log.
type Event struct {
	Kind    EventKind
	Indices []int
}

func (e Event) String() string {
	return fmt.Sprintf("%s%v", e.Kind, e.Indices)
}

// Token identifies an update session. Observers registered with the same
// token across several sequences belong to the same session.
type Token string

// NewToken returns a fresh, globally unique session token.
func NewToken() Token {
	return Token(uuid.NewString())
}

// observer is the per-session log attached to one sequence.
type observer struct {
	baseline int
	events   []Event
}

func (o *observer) record(kind EventKind, indices []int) {
	o.events = append(o.events, Event{Kind: kind, Indices: append([]int(nil), indices...)})
}
