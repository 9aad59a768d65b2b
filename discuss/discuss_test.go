package discuss_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	snapshot *discuss.Snapshot
	err      error
}

func (s *stubSource) Fetch(context.Context) (*discuss.Snapshot, error) {
	return s.snapshot, s.err
}

func TestService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := &stubSource{snapshot: newSnapshot()}
	svc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), source)

	err := svc.Reload(ctx)
	require.NoError(t, err)

	discussions := svc.ListDiscussions(ctx)
	require.Len(t, discussions, 1)

	discussion, err := svc.GetDiscussion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, discussion.CommentCount)

	_, err = svc.CreateComment(ctx, 1, discuss.AddCommentRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.CreateReply(ctx, discuss.CommentRef{DiscussionID: 1, Path: discuss.CommentPath{4}}, discuss.AddReplyRequest{
		Content: "reply",
	})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Len(t, comments[2].Replies, 1)

	created, err := svc.CreateDiscussion(ctx, discuss.AddDiscussionRequest{Title: "t", Content: "c", CategoryID: 4})
	require.NoError(t, err)

	got, err := svc.GetDiscussion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Makeup Help", got.Category.Label)

	upvotes, err := svc.Upvote(ctx, discuss.TargetRef{DiscussionID: created.ID}, 1, svc.Generation())
	require.NoError(t, err)
	assert.Equal(t, 1, upvotes)

	_, err = svc.CreateComment(ctx, 1, discuss.AddCommentRequest{Content: "c"})

	var validationErr discuss.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = svc.Reload(ctx)
	require.NoError(t, err)

	discussion, err = svc.GetDiscussion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, discussion.CommentCount, "reload replaces session changes")
	assert.Len(t, svc.ListDiscussions(ctx), 1)
}

func TestService_ReloadDegradesToEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fetch failure", func(t *testing.T) {
		t.Parallel()

		errUnavailable := errors.New("unavailable")
		source := &stubSource{snapshot: newSnapshot()}
		svc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), source)

		require.NoError(t, svc.Reload(ctx))

		source.err = errUnavailable

		err := svc.Reload(ctx)
		require.ErrorIs(t, err, errUnavailable)
		assert.Empty(t, svc.ListDiscussions(ctx))
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		t.Parallel()

		snapshot := newSnapshot()
		snapshot.Discussion.ID = -1
		svc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), &stubSource{snapshot: snapshot})

		err := svc.Reload(ctx)

		var invalidIDErr discuss.InvalidIDError
		require.ErrorAs(t, err, &invalidIDErr)
		assert.Empty(t, svc.ListDiscussions(ctx))
	})

	t.Run("null discussion", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), &stubSource{snapshot: nil})

		require.NoError(t, svc.Reload(ctx))
		assert.Empty(t, svc.ListDiscussions(ctx))

		_, err := svc.GetDiscussion(ctx, 1)

		var notFoundErr discuss.DiscussionNotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestService_UpvoteAfterReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), &stubSource{snapshot: newSnapshot()})

	require.NoError(t, svc.Reload(ctx))

	stale := svc.Generation()
	target := discuss.TargetRef{DiscussionID: 1}

	before, err := svc.GetDiscussion(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Upvote(ctx, target, 1, stale)
	require.NoError(t, err)

	require.NoError(t, svc.Reload(ctx))
	assert.Equal(t, stale+1, svc.Generation())

	_, err = svc.Upvote(ctx, target, -1, stale)

	var reloadedErr discuss.BoardReloadedError
	require.ErrorAs(t, err, &reloadedErr)
	assert.Equal(t, stale, reloadedErr.Generation)

	after, err := svc.GetDiscussion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before.UpvoteCount, after.UpvoteCount, "a stale delta is not applied")

	t.Run("failed reload also moves on", func(t *testing.T) {
		t.Parallel()

		source := &stubSource{err: errors.New("unavailable")}
		other := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), source)
		generation := other.Generation()

		require.Error(t, other.Reload(ctx))
		assert.Equal(t, generation+1, other.Generation())
	})
}
