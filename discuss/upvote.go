package discuss

// ToggleUpvote returns the change to apply to an upvote counter when the current session
// flips its upvote: +1 when it was not upvoted yet, -1 when it was.
func ToggleUpvote(currentlyUpvoted bool) int {
	if currentlyUpvoted {
		return -1
	}

	return 1
}

// TargetRef addresses something that can be upvoted: the discussion itself when Path is
// empty, otherwise the comment at Path.
type TargetRef struct {
	DiscussionID int
	Path         CommentPath
}

func (ref TargetRef) IsDiscussion() bool {
	return len(ref.Path) == 0
}
