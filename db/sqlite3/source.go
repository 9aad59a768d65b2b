package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/skintalk/discuss"
)

// Source reads the board snapshot out of the database and writes imported snapshots to it.
// Board mutations are never written back.
type Source struct {
	db          *sql.DB
	discussions *DiscussionRepository
	comments    *CommentRepository
}

var _ discuss.SnapshotSource = (*Source)(nil)

func NewSource(db *sql.DB) *Source {
	return &Source{
		db:          db,
		discussions: NewDiscussionRepository(db),
		comments:    NewCommentRepository(db),
	}
}

// Fetch returns the first discussion by id and every direct comment, replies nested under
// their parents. Comments of other discussions are handed over too, so the board can count
// them as orphans.
func (src *Source) Fetch(ctx context.Context) (*discuss.Snapshot, error) {
	discussions, err := src.discussions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list discussions: %w", err)
	}

	rows, err := src.comments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	snapshot := &discuss.Snapshot{
		Discussion: nil,
		Comments:   buildTrees(ctx, rows),
	}

	if len(discussions) > 0 {
		snapshot.Discussion = discussions[0]
	}

	if len(discussions) > 1 {
		slog.WarnContext(ctx, "only the first discussion is loaded", "stored", len(discussions))
	}

	return snapshot, nil
}

// buildTrees nests rows under their parents and returns the roots. Rows whose parent is
// missing are dropped.
func buildTrees(ctx context.Context, rows []*CommentRow) []*discuss.Comment {
	byUID := make(map[uuid.UUID]*discuss.Comment, len(rows))
	for _, row := range rows {
		byUID[row.UID] = row.Comment
	}

	roots := make([]*discuss.Comment, 0)

	for _, row := range rows {
		if !row.ParentUID.Valid {
			roots = append(roots, row.Comment)

			continue
		}

		parent, ok := byUID[row.ParentUID.UUID]
		if !ok {
			slog.WarnContext(ctx, "dropping comment with missing parent", "uid", row.UID, "parentUid", row.ParentUID.UUID)

			continue
		}

		parent.Replies = append(parent.Replies, row.Comment)
	}

	return roots
}

// Import replaces the stored data with snapshot in a single transaction.
func (src *Source) Import(ctx context.Context, snapshot *discuss.Snapshot) (err error) {
	tx, err := src.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			if rollbackErr != nil {
				slog.ErrorContext(ctx, "failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	discussions := NewDiscussionRepository(tx)
	comments := NewCommentRepository(tx)

	err = comments.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear comments: %w", err)
	}

	err = discussions.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear discussions: %w", err)
	}

	if snapshot != nil {
		err = importSnapshot(ctx, discussions, comments, snapshot)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func importSnapshot(
	ctx context.Context,
	discussions *DiscussionRepository,
	comments *CommentRepository,
	snapshot *discuss.Snapshot,
) error {
	positions := make(map[int]int)
	roots := make([]*discuss.Comment, 0, len(snapshot.Comments))

	if snapshot.Discussion != nil {
		err := discussions.Insert(ctx, snapshot.Discussion)
		if err != nil {
			return fmt.Errorf("failed to insert discussion: %w", err)
		}

		for _, comment := range snapshot.Discussion.Comments {
			if comment == nil {
				continue
			}

			comment = comment.Clone()
			comment.DiscussionID = snapshot.Discussion.ID
			roots = append(roots, comment)
		}
	}

	for _, comment := range snapshot.Comments {
		if comment != nil {
			roots = append(roots, comment)
		}
	}

	for _, comment := range roots {
		position := positions[comment.DiscussionID]
		positions[comment.DiscussionID]++

		err := insertTree(ctx, comments, uuid.NullUUID{}, position, comment, 1)
		if err != nil {
			return err
		}
	}

	return nil
}

func insertTree(
	ctx context.Context,
	comments *CommentRepository,
	parentUID uuid.NullUUID,
	position int,
	comment *discuss.Comment,
	depth int,
) error {
	if depth > discuss.MaxDepth {
		return discuss.DepthLimitError{Depth: depth}
	}

	row := &CommentRow{
		UID:       uuid.New(),
		ParentUID: parentUID,
		Position:  position,
		Comment:   comment,
	}

	err := comments.Insert(ctx, row)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	for i, reply := range comment.Replies {
		if reply == nil {
			continue
		}

		err = insertTree(ctx, comments, uuid.NullUUID{UUID: row.UID, Valid: true}, i, reply, depth+1)
		if err != nil {
			return err
		}
	}

	return nil
}
