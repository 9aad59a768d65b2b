package discuss

import (
	"slices"
	"time"
)

// Comment is a node of a discussion's comment tree. A reply is a Comment whose parent is
// another Comment.
type Comment struct {
	ID           int        `json:"id"`
	DiscussionID int        `json:"discussionId"`
	Content      string     `json:"content"`
	ImageURLs    []string   `json:"image_urls"`
	ViewCount    int        `json:"viewCount"`
	UpvoteCount  int        `json:"upvoteCount"`
	CommentCount int        `json:"commentCount"`
	Category     Category   `json:"category"`
	User         User       `json:"user"`
	CreatedAt    time.Time  `json:"createdAt"`
	Replies      []*Comment `json:"replies"`
}

// Clone returns a deep copy of the comment and all of its replies.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}

	clone := *c
	clone.ImageURLs = slices.Clone(c.ImageURLs)
	clone.Replies = cloneComments(c.Replies)

	return &clone
}

func cloneComments(comments []*Comment) []*Comment {
	result := make([]*Comment, 0, len(comments))

	for _, comment := range comments {
		if comment == nil {
			continue
		}

		result = append(result, comment.Clone())
	}

	return result
}

func commentIDs(comments []*Comment) []int {
	ids := make([]int, 0, len(comments))

	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}

	return ids
}

// CommentPath addresses a nested comment by the ids of the comments leading to it, starting
// with a direct comment of the discussion.
type CommentPath []int

// CommentRef addresses one comment of one discussion.
type CommentRef struct {
	DiscussionID int
	Path         CommentPath
}
