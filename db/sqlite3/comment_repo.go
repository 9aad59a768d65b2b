package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/nasermirzaei89/skintalk/discuss"
)

const tableComments = "comments"

// CommentRow is one node of a stored comment tree. Comment ids repeat across sibling lists,
// so rows are keyed by UID and point at their parent row. Position keeps sibling order.
type CommentRow struct {
	UID       uuid.UUID
	ParentUID uuid.NullUUID
	Position  int
	Comment   *discuss.Comment
}

type CommentRepository struct {
	db sq.StdSqlCtx
}

func NewCommentRepository(db sq.StdSqlCtx) *CommentRepository {
	return &CommentRepository{db: db}
}

const (
	commentFieldUID           = "uid"
	commentFieldParentUID     = "parent_uid"
	commentFieldPosition      = "position"
	commentFieldID            = "id"
	commentFieldDiscussionID  = "discussion_id"
	commentFieldContent       = "content"
	commentFieldImageURLs     = "image_urls"
	commentFieldViewCount     = "view_count"
	commentFieldUpvoteCount   = "upvote_count"
	commentFieldCategoryID    = "category_id"
	commentFieldCategoryLabel = "category_label"
	commentFieldUserID        = "user_id"
	commentFieldUserImageURL  = "user_image_url"
	commentFieldUserNickName  = "user_nick_name"
	commentFieldUserSkinType  = "user_skin_type"
	commentFieldCreatedAt     = "created_at"
)

func commentColumns() []string {
	return []string{
		commentFieldUID,
		commentFieldParentUID,
		commentFieldPosition,
		commentFieldID,
		commentFieldDiscussionID,
		commentFieldContent,
		commentFieldImageURLs,
		commentFieldViewCount,
		commentFieldUpvoteCount,
		commentFieldCategoryID,
		commentFieldCategoryLabel,
		commentFieldUserID,
		commentFieldUserImageURL,
		commentFieldUserNickName,
		commentFieldUserSkinType,
		commentFieldCreatedAt,
	}
}

func scanComment(row sq.RowScanner) (*CommentRow, error) {
	var (
		result    CommentRow
		comment   discuss.Comment
		parentUID sql.NullString
		imageURLs string
	)

	err := row.Scan(
		&result.UID,
		&parentUID,
		&result.Position,
		&comment.ID,
		&comment.DiscussionID,
		&comment.Content,
		&imageURLs,
		&comment.ViewCount,
		&comment.UpvoteCount,
		&comment.Category.ID,
		&comment.Category.Label,
		&comment.User.ID,
		&comment.User.ImageURL,
		&comment.User.NickName,
		&comment.User.SkinType,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	if parentUID.Valid {
		id, err := uuid.Parse(parentUID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parent uid: %w", err)
		}

		result.ParentUID = uuid.NullUUID{UUID: id, Valid: true}
	}

	comment.ImageURLs, err = decodeImageURLs(imageURLs)
	if err != nil {
		return nil, err
	}

	comment.Replies = make([]*discuss.Comment, 0)
	result.Comment = &comment

	return &result, nil
}

func (repo *CommentRepository) Insert(ctx context.Context, row *CommentRow) error {
	comment := row.Comment

	imageURLs, err := encodeImageURLs(comment.ImageURLs)
	if err != nil {
		return err
	}

	var parentUID any
	if row.ParentUID.Valid {
		parentUID = row.ParentUID.UUID.String()
	}

	q := sq.Insert(tableComments).
		Columns(commentColumns()...).
		Values(
			row.UID.String(),
			parentUID,
			row.Position,
			comment.ID,
			comment.DiscussionID,
			comment.Content,
			imageURLs,
			comment.ViewCount,
			comment.UpvoteCount,
			comment.Category.ID,
			comment.Category.Label,
			comment.User.ID,
			comment.User.ImageURL,
			comment.User.NickName,
			comment.User.SkinType,
			comment.CreatedAt.UTC(),
		)

	q = q.RunWith(repo.db)

	_, err = q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

// List returns every stored row: direct comments first grouped by discussion, then replies,
// siblings in position order.
func (repo *CommentRepository) List(ctx context.Context) ([]*CommentRow, error) {
	query := sq.Select(commentColumns()...).
		From(tableComments).
		OrderBy(
			commentFieldParentUID+" IS NOT NULL",
			commentFieldDiscussionID,
			commentFieldParentUID,
			commentFieldPosition,
		)

	query = query.RunWith(repo.db)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	result := make([]*CommentRow, 0)

	for rows.Next() {
		row, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}

		result = append(result, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return result, nil
}

func (repo *CommentRepository) DeleteAll(ctx context.Context) error {
	q := sq.Delete(tableComments).RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	return nil
}
