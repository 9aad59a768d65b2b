package viewstate

import (
	"maps"
	"slices"
)

// Bookmarks is an immutable set of discussion ids. The zero value is empty.
type Bookmarks struct {
	ids map[int]struct{}
}

func NewBookmarks(ids ...int) Bookmarks {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return Bookmarks{ids: set}
}

// Toggle returns a new set with id added when absent and removed when present.
func (b Bookmarks) Toggle(id int) Bookmarks {
	next := make(map[int]struct{}, len(b.ids)+1)
	maps.Copy(next, b.ids)

	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}

	return Bookmarks{ids: next}
}

func (b Bookmarks) Has(id int) bool {
	_, ok := b.ids[id]

	return ok
}

func (b Bookmarks) Len() int {
	return len(b.ids)
}

// IDs returns the bookmarked ids in ascending order.
func (b Bookmarks) IDs() []int {
	return slices.Sorted(maps.Keys(b.ids))
}

func (b Bookmarks) Equal(other Bookmarks) bool {
	return maps.Equal(b.ids, other.ids)
}
