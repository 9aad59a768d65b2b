package discuss

// Index maps a discussion id to the ordered sequence of its direct comments. It holds the
// same nodes as the discussions' trees.
type Index struct {
	byDiscussion map[int][]*Comment
}

// LoadStats reports what BuildIndex had to repair in upstream data.
type LoadStats struct {
	Comments int
	Orphaned int
	Relinked int
}

// BuildIndex groups each discussion's embedded comments followed by the flat comments that
// carry its id. Flat comments of unknown discussions are dropped.
func BuildIndex(discussions []*Discussion, flat []*Comment) (*Index, LoadStats) {
	idx := &Index{byDiscussion: make(map[int][]*Comment, len(discussions))}
	stats := LoadStats{}

	for _, discussion := range discussions {
		idx.byDiscussion[discussion.ID] = append(make([]*Comment, 0, len(discussion.Comments)), discussion.Comments...)
	}

	for _, comment := range flat {
		if comment == nil {
			continue
		}

		comments, ok := idx.byDiscussion[comment.DiscussionID]
		if !ok {
			stats.Orphaned++

			continue
		}

		idx.byDiscussion[comment.DiscussionID] = append(comments, comment)
	}

	for _, comments := range idx.byDiscussion {
		stats.Comments += CountTree(comments)
	}

	return idx, stats
}

// Comments returns the direct comments of a discussion as held by the index.
func (idx *Index) Comments(discussionID int) []*Comment {
	return idx.byDiscussion[discussionID]
}

// Len is the direct comment count of a discussion.
func (idx *Index) Len(discussionID int) int {
	return len(idx.byDiscussion[discussionID])
}

func (idx *Index) has(discussionID int) bool {
	_, ok := idx.byDiscussion[discussionID]

	return ok
}

func (idx *Index) register(discussionID int) {
	if _, ok := idx.byDiscussion[discussionID]; !ok {
		idx.byDiscussion[discussionID] = make([]*Comment, 0)
	}
}

func (idx *Index) append(discussionID int, comment *Comment) []*Comment {
	idx.byDiscussion[discussionID] = append(idx.byDiscussion[discussionID], comment)

	return idx.byDiscussion[discussionID]
}
