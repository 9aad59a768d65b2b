package discuss

import (
	"slices"
	"time"
)

type Discussion struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	ImageURLs    []string   `json:"image_urls"`
	ViewCount    int        `json:"viewCount"`
	UpvoteCount  int        `json:"upvoteCount"`
	CommentCount int        `json:"commentCount"`
	Category     Category   `json:"category"`
	User         User       `json:"user"`
	CreatedAt    time.Time  `json:"createdAt"`
	Comments     []*Comment `json:"comments"`
}

// Clone returns a deep copy of the discussion including its comment tree.
func (d *Discussion) Clone() *Discussion {
	if d == nil {
		return nil
	}

	clone := *d
	clone.ImageURLs = slices.Clone(d.ImageURLs)
	clone.Comments = cloneComments(d.Comments)

	return &clone
}

// Snapshot is what a data source hands over at session start.
type Snapshot struct {
	Discussion *Discussion `json:"discussion"`
	Comments   []*Comment  `json:"comments"`
}
