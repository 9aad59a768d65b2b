package viewstate_test

import (
	"testing"

	"github.com/nasermirzaei89/skintalk/viewstate"
	"github.com/stretchr/testify/assert"
)

func TestBookmarks_Toggle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  viewstate.Bookmarks
		id   int
	}{
		{name: "zero value", set: viewstate.Bookmarks{}, id: 1},
		{name: "absent", set: viewstate.NewBookmarks(2, 3), id: 1},
		{name: "present", set: viewstate.NewBookmarks(1, 2), id: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := tt.set.IDs()
			toggled := tt.set.Toggle(tt.id)

			assert.NotEqual(t, tt.set.Has(tt.id), toggled.Has(tt.id))
			assert.Equal(t, before, tt.set.IDs(), "toggle must not modify the receiver")
			assert.True(t, toggled.Toggle(tt.id).Equal(tt.set))
		})
	}
}

func TestBookmarks_IDs(t *testing.T) {
	t.Parallel()

	set := viewstate.NewBookmarks(5, 1, 3)

	assert.Equal(t, []int{1, 3, 5}, set.IDs())
	assert.Equal(t, 3, set.Len())
	assert.Empty(t, viewstate.Bookmarks{}.IDs())
}
