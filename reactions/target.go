package reactions

import (
	"fmt"

	"github.com/nasermirzaei89/skintalk/discuss"
)

type TargetType string

const (
	TargetTypeDiscussion TargetType = "discussion"
	TargetTypeComment    TargetType = "comment"
)

func (targetType TargetType) IsValid() bool {
	switch targetType {
	case TargetTypeDiscussion, TargetTypeComment:
		return true
	default:
		return false
	}
}

// Target is something a session can upvote. Path is only set for comments.
type Target struct {
	Type         TargetType
	DiscussionID int
	Path         discuss.CommentPath
}

// TargetOf converts a board reference into a reaction target.
func TargetOf(ref discuss.TargetRef) Target {
	if ref.IsDiscussion() {
		return Target{Type: TargetTypeDiscussion, DiscussionID: ref.DiscussionID}
	}

	return Target{Type: TargetTypeComment, DiscussionID: ref.DiscussionID, Path: ref.Path}
}

func (target Target) Ref() discuss.TargetRef {
	return discuss.TargetRef{DiscussionID: target.DiscussionID, Path: target.Path}
}

func (target Target) key() string {
	return fmt.Sprintf("%s:%d:%s", target.Type, target.DiscussionID, target.Path.String())
}

func (target Target) validate() error {
	if !target.Type.IsValid() {
		return InvalidTargetTypeError{TargetType: target.Type}
	}

	if (target.Type == TargetTypeComment) == (len(target.Path) == 0) {
		return InvalidTargetError{Target: target}
	}

	return nil
}

type InvalidTargetTypeError struct {
	TargetType TargetType
}

func (err InvalidTargetTypeError) Error() string {
	return fmt.Sprintf("invalid target type: %q", err.TargetType)
}

// InvalidTargetError is returned when a comment target has no path or a discussion target
// has one.
type InvalidTargetError struct {
	Target Target
}

func (err InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid %s target %q in discussion %d", err.Target.Type, err.Target.Path.String(), err.Target.DiscussionID)
}
