package sqlite3

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/skintalk/discuss"
)

const tableDiscussions = "discussions"

// DiscussionRepository runs against a *sql.DB or a *sql.Tx.
type DiscussionRepository struct {
	db sq.StdSqlCtx
}

func NewDiscussionRepository(db sq.StdSqlCtx) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

const (
	discussionFieldID            = "id"
	discussionFieldTitle         = "title"
	discussionFieldContent       = "content"
	discussionFieldImageURLs     = "image_urls"
	discussionFieldViewCount     = "view_count"
	discussionFieldUpvoteCount   = "upvote_count"
	discussionFieldCategoryID    = "category_id"
	discussionFieldCategoryLabel = "category_label"
	discussionFieldUserID        = "user_id"
	discussionFieldUserImageURL  = "user_image_url"
	discussionFieldUserNickName  = "user_nick_name"
	discussionFieldUserSkinType  = "user_skin_type"
	discussionFieldCreatedAt     = "created_at"
)

func discussionColumns() []string {
	return []string{
		discussionFieldID,
		discussionFieldTitle,
		discussionFieldContent,
		discussionFieldImageURLs,
		discussionFieldViewCount,
		discussionFieldUpvoteCount,
		discussionFieldCategoryID,
		discussionFieldCategoryLabel,
		discussionFieldUserID,
		discussionFieldUserImageURL,
		discussionFieldUserNickName,
		discussionFieldUserSkinType,
		discussionFieldCreatedAt,
	}
}

func scanDiscussion(row sq.RowScanner) (*discuss.Discussion, error) {
	var (
		discussion discuss.Discussion
		imageURLs  string
	)

	err := row.Scan(
		&discussion.ID,
		&discussion.Title,
		&discussion.Content,
		&imageURLs,
		&discussion.ViewCount,
		&discussion.UpvoteCount,
		&discussion.Category.ID,
		&discussion.Category.Label,
		&discussion.User.ID,
		&discussion.User.ImageURL,
		&discussion.User.NickName,
		&discussion.User.SkinType,
		&discussion.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	discussion.ImageURLs, err = decodeImageURLs(imageURLs)
	if err != nil {
		return nil, err
	}

	discussion.Comments = make([]*discuss.Comment, 0)

	return &discussion, nil
}

func (repo *DiscussionRepository) Insert(ctx context.Context, discussion *discuss.Discussion) error {
	imageURLs, err := encodeImageURLs(discussion.ImageURLs)
	if err != nil {
		return err
	}

	q := sq.Insert(tableDiscussions).
		Columns(discussionColumns()...).
		Values(
			discussion.ID,
			discussion.Title,
			discussion.Content,
			imageURLs,
			discussion.ViewCount,
			discussion.UpvoteCount,
			discussion.Category.ID,
			discussion.Category.Label,
			discussion.User.ID,
			discussion.User.ImageURL,
			discussion.User.NickName,
			discussion.User.SkinType,
			discussion.CreatedAt.UTC(),
		)

	q = q.RunWith(repo.db)

	_, err = q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

// List returns the discussions ordered by id.
func (repo *DiscussionRepository) List(ctx context.Context) ([]*discuss.Discussion, error) {
	q := sq.Select(discussionColumns()...).
		From(tableDiscussions).
		OrderBy(discussionFieldID)

	q = q.RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	discussions := make([]*discuss.Discussion, 0)

	for rows.Next() {
		discussion, err := scanDiscussion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discussion: %w", err)
		}

		discussions = append(discussions, discussion)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return discussions, nil
}

func (repo *DiscussionRepository) DeleteAll(ctx context.Context) error {
	q := sq.Delete(tableDiscussions).RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	return nil
}
