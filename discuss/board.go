package discuss

import (
	"fmt"
	"slices"
	"time"
)

// Board is the in-memory aggregate of discussions and their comment trees. It is the only
// place the entity model is mutated. Every accessor returns copies.
//
// A Board is not safe for concurrent use; Service serialises access to one.
type Board struct {
	author      User
	now         func() time.Time
	discussions []*Discussion
	index       *Index
}

func NewBoard(author User) *Board {
	return &Board{
		author:      author,
		now:         time.Now,
		discussions: make([]*Discussion, 0),
		index:       &Index{byDiscussion: make(map[int][]*Comment)},
	}
}

// Load replaces the board's content with the snapshot and rebuilds the index. A nil
// snapshot or a nil discussion leaves the board empty. On error the board is unchanged.
func (b *Board) Load(snapshot *Snapshot) (LoadStats, error) {
	discussions := make([]*Discussion, 0, 1)

	var flat []*Comment

	if snapshot != nil {
		if snapshot.Discussion != nil {
			discussions = append(discussions, snapshot.Discussion.Clone())
		}

		flat = cloneComments(snapshot.Comments)
	}

	err := checkScopeIDs("discussions", discussionIDs(discussions))
	if err != nil {
		return LoadStats{}, err
	}

	index, stats := BuildIndex(discussions, flat)

	for _, discussion := range discussions {
		comments := index.Comments(discussion.ID)

		relinked, err := linkTree(discussion, comments)
		if err != nil {
			return LoadStats{}, err
		}

		stats.Relinked += relinked

		if discussion.ImageURLs == nil {
			discussion.ImageURLs = make([]string, 0)
		}

		discussion.Comments = comments
		discussion.CommentCount = len(comments)
	}

	b.discussions = discussions
	b.index = index

	return stats, nil
}

// linkTree validates the ids of every scope under a discussion and re-derives the values
// every node inherits from its ancestors. It returns how many nodes pointed at another
// discussion.
func linkTree(discussion *Discussion, comments []*Comment) (int, error) {
	scope := fmt.Sprintf("comments of discussion %d", discussion.ID)

	err := checkScopeIDs(scope, commentIDs(comments))
	if err != nil {
		return 0, err
	}

	relinked := 0

	err = Walk(comments, func(path CommentPath, comment *Comment) error {
		err := checkScopeIDs(repliesScope(discussion.ID, path), commentIDs(comment.Replies))
		if err != nil {
			return err
		}

		if comment.DiscussionID != discussion.ID {
			comment.DiscussionID = discussion.ID
			relinked++
		}

		if comment.ImageURLs == nil {
			comment.ImageURLs = make([]string, 0)
		}

		if comment.Replies == nil {
			comment.Replies = make([]*Comment, 0)
		}

		comment.CommentCount = len(comment.Replies)

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to link comment tree: %w", err)
	}

	return relinked, nil
}

func discussionIDs(discussions []*Discussion) []int {
	ids := make([]int, 0, len(discussions))

	for _, discussion := range discussions {
		ids = append(ids, discussion.ID)
	}

	return ids
}

func (b *Board) findDiscussion(id int) (*Discussion, error) {
	index := slices.IndexFunc(b.discussions, func(d *Discussion) bool { return d.ID == id })
	if index < 0 || !b.index.has(id) {
		return nil, DiscussionNotFoundError{ID: id}
	}

	return b.discussions[index], nil
}

func (b *Board) findComment(ref CommentRef) (*Comment, error) {
	_, err := b.findDiscussion(ref.DiscussionID)
	if err != nil {
		return nil, err
	}

	comment := findComment(b.index.Comments(ref.DiscussionID), ref.Path)
	if comment == nil {
		return nil, CommentNotFoundError{DiscussionID: ref.DiscussionID, Path: slices.Clone(ref.Path)}
	}

	return comment, nil
}

// Discussions returns all discussions in insertion order.
func (b *Board) Discussions() []*Discussion {
	result := make([]*Discussion, 0, len(b.discussions))

	for _, discussion := range b.discussions {
		result = append(result, discussion.Clone())
	}

	return result
}

func (b *Board) Discussion(id int) (*Discussion, error) {
	discussion, err := b.findDiscussion(id)
	if err != nil {
		return nil, err
	}

	return discussion.Clone(), nil
}

// Comments returns the direct comments of a discussion, replies included in each tree.
func (b *Board) Comments(discussionID int) ([]*Comment, error) {
	_, err := b.findDiscussion(discussionID)
	if err != nil {
		return nil, err
	}

	return cloneComments(b.index.Comments(discussionID)), nil
}

func (b *Board) Comment(ref CommentRef) (*Comment, error) {
	comment, err := b.findComment(ref)
	if err != nil {
		return nil, err
	}

	return comment.Clone(), nil
}

func (b *Board) AddDiscussion(req AddDiscussionRequest) (*Discussion, error) {
	category, err := req.validate()
	if err != nil {
		return nil, err
	}

	discussion := &Discussion{
		ID:           NextID(discussionIDs(b.discussions)),
		Title:        req.Title,
		Content:      req.Content,
		ImageURLs:    NormalizeImageURLs(req.ImageURLs),
		ViewCount:    0,
		UpvoteCount:  0,
		CommentCount: 0,
		Category:     category,
		User:         b.author,
		CreatedAt:    b.now().UTC(),
		Comments:     make([]*Comment, 0),
	}

	b.discussions = append(b.discussions, discussion)
	b.index.register(discussion.ID)

	return discussion.Clone(), nil
}

func (b *Board) AddComment(discussionID int, req AddCommentRequest) (*Comment, error) {
	err := req.validate()
	if err != nil {
		return nil, err
	}

	discussion, err := b.findDiscussion(discussionID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:           NextID(commentIDs(b.index.Comments(discussionID))),
		DiscussionID: discussion.ID,
		Content:      req.Content,
		ImageURLs:    NormalizeImageURLs(req.ImageURLs),
		ViewCount:    0,
		UpvoteCount:  0,
		CommentCount: 0,
		Category:     discussion.Category,
		User:         b.author,
		CreatedAt:    b.now().UTC(),
		Replies:      make([]*Comment, 0),
	}

	discussion.Comments = b.index.append(discussionID, comment)
	discussion.CommentCount = len(discussion.Comments)

	return comment.Clone(), nil
}

func (b *Board) AddReply(ref CommentRef, req AddReplyRequest) (*Comment, error) {
	err := req.validate()
	if err != nil {
		return nil, err
	}

	parent, err := b.findComment(ref)
	if err != nil {
		return nil, err
	}

	depth := len(ref.Path) + 1
	if depth > MaxDepth {
		return nil, DepthLimitError{Depth: depth}
	}

	reply := &Comment{
		ID:           NextID(commentIDs(parent.Replies)),
		DiscussionID: parent.DiscussionID,
		Content:      req.Content,
		ImageURLs:    NormalizeImageURLs(req.ImageURLs),
		ViewCount:    0,
		UpvoteCount:  0,
		CommentCount: 0,
		Category:     parent.Category,
		User:         b.author,
		CreatedAt:    b.now().UTC(),
		Replies:      make([]*Comment, 0),
	}

	parent.Replies = append(parent.Replies, reply)
	parent.CommentCount = len(parent.Replies)

	return reply.Clone(), nil
}

// ApplyUpvote adds delta, which must be +1 or -1, to the target's upvote counter and
// returns the new count.
func (b *Board) ApplyUpvote(target TargetRef, delta int) (int, error) {
	if delta != 1 && delta != -1 {
		return 0, ValidationError{Message: msgInvalidUpvoteDelta}
	}

	if target.IsDiscussion() {
		discussion, err := b.findDiscussion(target.DiscussionID)
		if err != nil {
			return 0, err
		}

		discussion.UpvoteCount += delta

		return discussion.UpvoteCount, nil
	}

	comment, err := b.findComment(CommentRef(target))
	if err != nil {
		return 0, err
	}

	comment.UpvoteCount += delta

	return comment.UpvoteCount, nil
}
