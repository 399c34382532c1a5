package bst

// Event identifies a structural change announced to an Observer.
type Event string

// Events fired by tree operations. Cut and join bracket the Tango
// restructuring phases so a visualizer can group the rotations in between.
const (
	EventRotate    Event = "rotate"
	EventSplit     Event = "split"
	EventMark      Event = "mark"
	EventCutStart  Event = "cut.start"
	EventCutEnd    Event = "cut.end"
	EventJoinStart Event = "join.start"
	EventJoinEnd   Event = "join.end"
)

// Observer receives structural events from a tree. The focus is the arena
// index of the node the event centers on; highlight optionally carries
// additional node indexes involved in the step.
//
// Observers must not mutate the tree from the callback: events fire while
// internal invariants are suspended.
type Observer interface {
	TreeEvent(event Event, focus uint32, highlight []uint32)
}

type nopObserver struct{}

func (nopObserver) TreeEvent(Event, uint32, []uint32) {}

// Option configures a tree at construction time.
type Option func(*tree)

// WithObserver attaches an observer to the tree. Without it events are
// discarded.
func WithObserver(o Observer) Option {
	return func(t *tree) {
		t.observer = o
	}
}
