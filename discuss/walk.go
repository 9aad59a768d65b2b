package discuss

import "slices"

// MaxDepth bounds how deep a comment tree may nest. Direct comments of a discussion are at
// depth 1.
const MaxDepth = 64

// WalkFunc is called for each comment with the path leading to it. The path is only valid
// for the duration of the call.
type WalkFunc func(path CommentPath, comment *Comment) error

// Walk visits the comments depth first, each comment before its replies. It stops at the
// first error returned by fn, and fails with DepthLimitError on trees deeper than MaxDepth.
func Walk(comments []*Comment, fn WalkFunc) error {
	return walk(make(CommentPath, 0, 8), comments, fn)
}

func walk(parent CommentPath, comments []*Comment, fn WalkFunc) error {
	depth := len(parent) + 1
	if depth > MaxDepth && len(comments) > 0 {
		return DepthLimitError{Depth: depth}
	}

	for _, comment := range comments {
		path := append(parent, comment.ID)

		err := fn(path, comment)
		if err != nil {
			return err
		}

		err = walk(path, comment.Replies, fn)
		if err != nil {
			return err
		}
	}

	return nil
}

// CountTree returns the number of comments in the trees, replies included.
func CountTree(comments []*Comment) int {
	count := 0

	_ = Walk(comments, func(CommentPath, *Comment) error {
		count++

		return nil
	})

	return count
}

func findComment(comments []*Comment, path CommentPath) *Comment {
	if len(path) == 0 {
		return nil
	}

	var found *Comment

	for _, id := range path {
		index := slices.IndexFunc(comments, func(c *Comment) bool { return c.ID == id })
		if index < 0 {
			return nil
		}

		found = comments[index]
		comments = found.Replies
	}

	return found
}
