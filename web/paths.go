package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nasermirzaei89/skintalk/discuss"
)

type InvalidPathError struct {
	Value string
}

func (err InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q", err.Value)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, InvalidPathError{Value: raw}
	}

	return id, nil
}

// parseCommentPath reads slash separated comment ids such as "3/1/2". A trailing slash is
// tolerated; empty segments elsewhere are not.
func parseCommentPath(raw string) (discuss.CommentPath, error) {
	trimmed := strings.TrimSuffix(raw, "/")
	if trimmed == "" {
		return nil, InvalidPathError{Value: raw}
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) > discuss.MaxDepth {
		return nil, InvalidPathError{Value: raw}
	}

	path := make(discuss.CommentPath, 0, len(segments))

	for _, segment := range segments {
		id, err := parseID(segment)
		if err != nil {
			return nil, InvalidPathError{Value: raw}
		}

		path = append(path, id)
	}

	return path, nil
}
