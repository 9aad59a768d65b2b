package sqlite3_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/skintalk/db/sqlite3"
	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := sqlite3.NewDB(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	err = sqlite3.MigrateUp(ctx, db)
	require.NoError(t, err)

	return db
}

func author(id int) discuss.User {
	return discuss.User{ID: id, ImageURL: "https://example.com/u.png", NickName: "nick", SkinType: "Dry"}
}

func testSnapshot(createdAt time.Time) *discuss.Snapshot {
	category := discuss.Category{ID: 1, Label: "Skin Concern"}

	return &discuss.Snapshot{
		Discussion: &discuss.Discussion{
			ID:          1,
			Title:       "Title",
			Content:     "Content",
			ImageURLs:   []string{"a.jpg", "b.jpg"},
			ViewCount:   10,
			UpvoteCount: 2,
			Category:    category,
			User:        author(1),
			CreatedAt:   createdAt,
		},
		Comments: []*discuss.Comment{
			{
				ID: 1, DiscussionID: 1, Content: "first", Category: category, User: author(2), CreatedAt: createdAt,
				Replies: []*discuss.Comment{
					{
						ID: 1, DiscussionID: 1, Content: "nested", Category: category, User: author(3), CreatedAt: createdAt,
						Replies: []*discuss.Comment{
							{ID: 1, DiscussionID: 1, Content: "deeper", Category: category, User: author(2), CreatedAt: createdAt},
						},
					},
					{ID: 2, DiscussionID: 1, Content: "second reply", Category: category, User: author(4), CreatedAt: createdAt},
				},
			},
			{ID: 2, DiscussionID: 1, Content: "second", ImageURLs: []string{"c.jpg"}, Category: category, User: author(5), CreatedAt: createdAt},
			{ID: 1, DiscussionID: 9, Content: "orphan", Category: category, User: author(5), CreatedAt: createdAt},
		},
	}
}

func TestSource_ImportFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	src := sqlite3.NewSource(db)
	createdAt := time.Date(2024, 3, 2, 8, 41, 0, 0, time.UTC)

	err := src.Import(ctx, testSnapshot(createdAt))
	require.NoError(t, err)

	snapshot, err := src.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Discussion)

	assert.Equal(t, "Title", snapshot.Discussion.Title)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, snapshot.Discussion.ImageURLs)
	assert.Equal(t, author(1), snapshot.Discussion.User)
	assert.True(t, createdAt.Equal(snapshot.Discussion.CreatedAt))

	require.Len(t, snapshot.Comments, 3)
	assert.Equal(t, "first", snapshot.Comments[0].Content)
	assert.Equal(t, "second", snapshot.Comments[1].Content)
	assert.Equal(t, []string{"c.jpg"}, snapshot.Comments[1].ImageURLs)

	replies := snapshot.Comments[0].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, "nested", replies[0].Content)
	assert.Equal(t, "second reply", replies[1].Content)
	require.Len(t, replies[0].Replies, 1)
	assert.Equal(t, "deeper", replies[0].Replies[0].Content)

	board := discuss.NewBoard(discuss.PlaceholderUser)

	stats, err := board.Load(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orphaned)
	assert.Equal(t, 5, stats.Comments)
}

func TestSource_ImportReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	src := sqlite3.NewSource(db)

	err := src.Import(ctx, testSnapshot(time.Now().UTC()))
	require.NoError(t, err)

	err = src.Import(ctx, &discuss.Snapshot{})
	require.NoError(t, err)

	snapshot, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot.Discussion)
	assert.Empty(t, snapshot.Comments)
}

func TestSource_ImportRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	src := sqlite3.NewSource(db)

	err := src.Import(ctx, testSnapshot(time.Now().UTC()))
	require.NoError(t, err)

	root := &discuss.Comment{ID: 1, DiscussionID: 1}
	node := root

	for range discuss.MaxDepth {
		child := &discuss.Comment{ID: 1, DiscussionID: 1}
		node.Replies = []*discuss.Comment{child}
		node = child
	}

	err = src.Import(ctx, &discuss.Snapshot{
		Discussion: &discuss.Discussion{ID: 2, Title: "other"},
		Comments:   []*discuss.Comment{root},
	})

	var depthErr discuss.DepthLimitError
	require.ErrorAs(t, err, &depthErr)

	snapshot, err := src.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Discussion)
	assert.Equal(t, 1, snapshot.Discussion.ID)
}

func TestMigrateDown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)

	err := sqlite3.MigrateDown(ctx, db)
	require.NoError(t, err)

	_, err = sqlite3.NewSource(db).Fetch(ctx)
	require.Error(t, err)
}
