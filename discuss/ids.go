package discuss

import (
	"fmt"
	"slices"
)

// NextID returns the id for a new entity in a scope: one more than the largest id already
// in it, or 1 for an empty scope. It is recomputed on every insertion.
func NextID(ids []int) int {
	if len(ids) == 0 {
		return 1
	}

	return slices.Max(ids) + 1
}

func checkScopeIDs(scope string, ids []int) error {
	seen := make(map[int]struct{}, len(ids))

	for _, id := range ids {
		if id <= 0 {
			return InvalidIDError{Scope: scope, ID: id}
		}

		if _, ok := seen[id]; ok {
			return InvalidIDError{Scope: scope, ID: id}
		}

		seen[id] = struct{}{}
	}

	return nil
}

func repliesScope(discussionID int, path CommentPath) string {
	return fmt.Sprintf("replies of comment %q in discussion %d", path.String(), discussionID)
}
