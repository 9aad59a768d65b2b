package reactions_test

import (
	"testing"

	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/nasermirzaei89/skintalk/reactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Toggle(t *testing.T) {
	t.Parallel()

	tracker := reactions.NewTracker()
	discussion := reactions.TargetOf(discuss.TargetRef{DiscussionID: 1})
	comment := reactions.TargetOf(discuss.TargetRef{DiscussionID: 1, Path: discuss.CommentPath{1, 2}})

	assert.Equal(t, reactions.TargetTypeDiscussion, discussion.Type)
	assert.Equal(t, reactions.TargetTypeComment, comment.Type)

	delta, err := tracker.Toggle(discussion)
	require.NoError(t, err)
	assert.Equal(t, 1, delta)
	assert.True(t, tracker.Upvoted(discussion))
	assert.False(t, tracker.Upvoted(comment))

	delta, err = tracker.Toggle(comment)
	require.NoError(t, err)
	assert.Equal(t, 1, delta)
	assert.Equal(t, 2, tracker.Len())

	delta, err = tracker.Toggle(discussion)
	require.NoError(t, err)
	assert.Equal(t, -1, delta)
	assert.False(t, tracker.Upvoted(discussion))
	assert.Equal(t, 1, tracker.Len())
}

func TestTracker_ToggleInvalidTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target reactions.Target
	}{
		{name: "unknown type", target: reactions.Target{Type: "post", DiscussionID: 1}},
		{name: "comment without path", target: reactions.Target{Type: reactions.TargetTypeComment, DiscussionID: 1}},
		{
			name:   "discussion with path",
			target: reactions.Target{Type: reactions.TargetTypeDiscussion, DiscussionID: 1, Path: discuss.CommentPath{1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracker := reactions.NewTracker()

			_, err := tracker.Toggle(tt.target)
			require.Error(t, err)
			assert.Equal(t, 0, tracker.Len())
		})
	}
}

func TestTarget_Ref(t *testing.T) {
	t.Parallel()

	ref := discuss.TargetRef{DiscussionID: 3, Path: discuss.CommentPath{2}}

	assert.Equal(t, ref, reactions.TargetOf(ref).Ref())
}

func TestTracker_Sync(t *testing.T) {
	t.Parallel()

	tracker := reactions.NewTracker()
	discussion := reactions.TargetOf(discuss.TargetRef{DiscussionID: 2})

	tracker.Sync(0)
	_, err := tracker.Toggle(discussion)
	require.NoError(t, err)

	tracker.Sync(0)
	assert.True(t, tracker.Upvoted(discussion), "same generation keeps flags")

	tracker.Sync(1)
	assert.Equal(t, uint64(1), tracker.Generation())
	assert.False(t, tracker.Upvoted(discussion))
	assert.Equal(t, 0, tracker.Len())

	delta, err := tracker.Toggle(discussion)
	require.NoError(t, err)
	assert.Equal(t, 1, delta, "a reloaded target is upvoted from scratch")
}
