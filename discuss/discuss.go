package discuss

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SnapshotSource supplies the discussion and comments a session starts from.
type SnapshotSource interface {
	Fetch(ctx context.Context) (snapshot *Snapshot, err error)
}

// Service is the single writer in front of a Board.
type Service struct {
	mu         sync.RWMutex
	board      *Board
	source     SnapshotSource
	generation uint64
}

func NewService(board *Board, source SnapshotSource) *Service {
	return &Service{
		board:  board,
		source: source,
	}
}

// Reload fetches a fresh snapshot and rebuilds the board from it. When the source fails
// or hands over unusable data the board is left empty and the error is returned. Every
// reload starts a new generation.
func (svc *Service) Reload(ctx context.Context) error {
	snapshot, fetchErr := svc.source.Fetch(ctx)
	if fetchErr != nil {
		snapshot = nil
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.generation++

	stats, err := svc.board.Load(snapshot)
	if err != nil {
		_, _ = svc.board.Load(nil)

		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if fetchErr != nil {
		return fmt.Errorf("failed to fetch snapshot: %w", fetchErr)
	}

	slog.InfoContext(
		ctx,
		"board loaded",
		"discussions", len(svc.board.discussions),
		"comments", stats.Comments,
		"orphaned", stats.Orphaned,
		"relinked", stats.Relinked,
		"generation", svc.generation,
	)

	return nil
}

// Generation identifies the current board load. Per-visitor state derived from the board,
// like upvote flags, is only valid for the generation it was recorded in.
func (svc *Service) Generation() uint64 {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.generation
}

func (svc *Service) ListDiscussions(_ context.Context) []*Discussion {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.board.Discussions()
}

func (svc *Service) GetDiscussion(_ context.Context, id int) (*Discussion, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	discussion, err := svc.board.Discussion(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get discussion: %w", err)
	}

	return discussion, nil
}

func (svc *Service) ListComments(_ context.Context, discussionID int) ([]*Comment, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	comments, err := svc.board.Comments(discussionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (svc *Service) CreateDiscussion(ctx context.Context, req AddDiscussionRequest) (*Discussion, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	discussion, err := svc.board.AddDiscussion(req)
	if err != nil {
		return nil, fmt.Errorf("failed to add discussion: %w", err)
	}

	slog.DebugContext(ctx, "discussion added", "discussionId", discussion.ID, "category", discussion.Category.Label)

	return discussion, nil
}

func (svc *Service) CreateComment(ctx context.Context, discussionID int, req AddCommentRequest) (*Comment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	comment, err := svc.board.AddComment(discussionID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	slog.DebugContext(ctx, "comment added", "discussionId", discussionID, "commentId", comment.ID)

	return comment, nil
}

func (svc *Service) CreateReply(ctx context.Context, ref CommentRef, req AddReplyRequest) (*Comment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	reply, err := svc.board.AddReply(ref, req)
	if err != nil {
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}

	slog.DebugContext(
		ctx,
		"reply added",
		"discussionId", ref.DiscussionID,
		"parent", ref.Path.String(),
		"commentId", reply.ID,
	)

	return reply, nil
}

// Upvote applies an upvote delta computed by ToggleUpvote and returns the new count. The
// delta is rejected with BoardReloadedError when it was computed against another generation.
func (svc *Service) Upvote(_ context.Context, target TargetRef, delta int, generation uint64) (int, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if generation != svc.generation {
		return 0, BoardReloadedError{Generation: generation, Current: svc.generation}
	}

	count, err := svc.board.ApplyUpvote(target, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to apply upvote: %w", err)
	}

	return count, nil
}
