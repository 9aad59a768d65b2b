package discuss_test

import (
	"testing"

	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Load(t *testing.T) {
	t.Parallel()

	snapshot := newSnapshot()
	snapshot.Discussion.Comments = []*discuss.Comment{
		{ID: 5, DiscussionID: 1, Content: "embedded"},
	}
	snapshot.Comments = append(snapshot.Comments,
		&discuss.Comment{ID: 1, DiscussionID: 2, Content: "elsewhere"},
		nil,
	)
	snapshot.Comments[0].Replies[0].DiscussionID = 0

	board := discuss.NewBoard(discuss.PlaceholderUser)

	stats, err := board.Load(snapshot)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Comments)
	assert.Equal(t, 1, stats.Orphaned)
	assert.Equal(t, 1, stats.Relinked)

	discussion, err := board.Discussion(1)
	require.NoError(t, err)

	assert.Equal(t, 3, discussion.CommentCount)
	require.Len(t, discussion.Comments, 3)
	assert.Equal(t, []int{5, 1, 3}, []int{
		discussion.Comments[0].ID,
		discussion.Comments[1].ID,
		discussion.Comments[2].ID,
	})
	assert.Equal(t, 1, discussion.Comments[1].CommentCount)
	assert.Equal(t, 1, discussion.Comments[1].Replies[0].DiscussionID)
	assert.NotNil(t, discussion.Comments[2].Replies)
	assert.NotNil(t, discussion.Comments[2].ImageURLs)

	assert.Equal(t, 0, snapshot.Comments[0].Replies[0].DiscussionID, "snapshot must not be modified")
}

func TestBoard_LoadEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot *discuss.Snapshot
		orphaned int
	}{
		{name: "nil snapshot", snapshot: nil},
		{name: "null discussion", snapshot: &discuss.Snapshot{}},
		{
			name: "null discussion with comments",
			snapshot: &discuss.Snapshot{
				Comments: []*discuss.Comment{{ID: 1, DiscussionID: 1}},
			},
			orphaned: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			board := newLoadedBoard(t)

			stats, err := board.Load(tt.snapshot)
			require.NoError(t, err)
			assert.Equal(t, tt.orphaned, stats.Orphaned)
			assert.Empty(t, board.Discussions())

			_, err = board.Comments(1)

			var notFoundErr discuss.DiscussionNotFoundError
			require.ErrorAs(t, err, &notFoundErr)
		})
	}
}

func TestBoard_LoadRejectsInvalidIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(snapshot *discuss.Snapshot)
		id     int
	}{
		{
			name:   "zero discussion id",
			mutate: func(snapshot *discuss.Snapshot) { snapshot.Discussion.ID = 0 },
			id:     0,
		},
		{
			name:   "negative comment id",
			mutate: func(snapshot *discuss.Snapshot) { snapshot.Comments[1].ID = -3 },
			id:     -3,
		},
		{
			name:   "duplicate direct comment id",
			mutate: func(snapshot *discuss.Snapshot) { snapshot.Comments[1].ID = 1 },
			id:     1,
		},
		{
			name: "duplicate reply id",
			mutate: func(snapshot *discuss.Snapshot) {
				parent := snapshot.Comments[0]
				parent.Replies = append(parent.Replies, &discuss.Comment{ID: 1, DiscussionID: 1})
			},
			id: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			board := newLoadedBoard(t)

			snapshot := newSnapshot()
			tt.mutate(snapshot)

			_, err := board.Load(snapshot)
			require.Error(t, err)

			var invalidIDErr discuss.InvalidIDError
			require.ErrorAs(t, err, &invalidIDErr)
			assert.Equal(t, tt.id, invalidIDErr.ID)

			assert.Len(t, board.Discussions(), 1, "failed load must keep the previous board")
		})
	}
}

func TestBoard_LoadRebuildsIndex(t *testing.T) {
	t.Parallel()

	board := newLoadedBoard(t)

	_, err := board.AddComment(1, discuss.AddCommentRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = board.Load(newSnapshot())
	require.NoError(t, err)

	comments, err := board.Comments(1)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	discussions := []*discuss.Discussion{{ID: 1}, {ID: 2}}
	flat := []*discuss.Comment{
		{ID: 1, DiscussionID: 2},
		{ID: 1, DiscussionID: 1, Replies: []*discuss.Comment{{ID: 1}}},
		{ID: 2, DiscussionID: 2},
		{ID: 1, DiscussionID: 3},
	}

	idx, stats := discuss.BuildIndex(discussions, flat)

	assert.Equal(t, 1, idx.Len(1))
	assert.Equal(t, 2, idx.Len(2))
	assert.Equal(t, 0, idx.Len(3))
	assert.Same(t, flat[0], idx.Comments(2)[0])
	assert.Same(t, flat[2], idx.Comments(2)[1])
	assert.Equal(t, 1, stats.Orphaned)
	assert.Equal(t, 4, stats.Comments)
}
