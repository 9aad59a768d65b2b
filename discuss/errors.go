package discuss

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is returned when a submitted form misses a required field or selection.
type ValidationError struct {
	Message string
}

func (err ValidationError) Error() string {
	return err.Message
}

type DiscussionNotFoundError struct {
	ID int
}

func (err DiscussionNotFoundError) Error() string {
	return fmt.Sprintf("discussion with id %d not found", err.ID)
}

type CommentNotFoundError struct {
	DiscussionID int
	Path         CommentPath
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment %q of discussion %d not found", err.Path.String(), err.DiscussionID)
}

// BoardReloadedError is returned when a change was prepared against a board that has since
// been reloaded.
type BoardReloadedError struct {
	Generation uint64
	Current    uint64
}

func (err BoardReloadedError) Error() string {
	return fmt.Sprintf("board was reloaded (generation %d, current %d)", err.Generation, err.Current)
}

type DepthLimitError struct {
	Depth int
}

func (err DepthLimitError) Error() string {
	return fmt.Sprintf("comment depth %d exceeds limit of %d", err.Depth, MaxDepth)
}

// InvalidIDError is returned by Load when a scope carries an unusable or duplicated id.
type InvalidIDError struct {
	Scope string
	ID    int
}

func (err InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %d in %s", err.ID, err.Scope)
}

func (path CommentPath) String() string {
	parts := make([]string, 0, len(path))

	for _, id := range path {
		parts = append(parts, strconv.Itoa(id))
	}

	return strings.Join(parts, "/")
}
