package reactions

import (
	"github.com/nasermirzaei89/skintalk/discuss"
)

// Tracker remembers which targets the current session has upvoted. It holds flags only;
// counters live on the board. Flags belong to one board generation and are dropped when
// the board is reloaded. A Tracker is not safe for concurrent use.
type Tracker struct {
	generation uint64
	upvoted    map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{upvoted: make(map[string]struct{})}
}

// Sync moves the tracker to the board generation. Flags recorded against an earlier
// generation are cleared, since the counters they were applied to are gone.
func (tracker *Tracker) Sync(generation uint64) {
	if tracker.generation == generation {
		return
	}

	tracker.generation = generation
	clear(tracker.upvoted)
}

func (tracker *Tracker) Generation() uint64 {
	return tracker.generation
}

func (tracker *Tracker) Upvoted(target Target) bool {
	_, ok := tracker.upvoted[target.key()]

	return ok
}

// Toggle flips the upvoted flag of target and returns the delta to apply to its counter.
func (tracker *Tracker) Toggle(target Target) (int, error) {
	err := target.validate()
	if err != nil {
		return 0, err
	}

	key := target.key()
	_, upvoted := tracker.upvoted[key]
	delta := discuss.ToggleUpvote(upvoted)

	if upvoted {
		delete(tracker.upvoted, key)
	} else {
		tracker.upvoted[key] = struct{}{}
	}

	return delta, nil
}

// Len is the number of targets currently upvoted.
func (tracker *Tracker) Len() int {
	return len(tracker.upvoted)
}
