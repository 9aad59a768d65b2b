package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/nasermirzaei89/skintalk/reactions"
	"github.com/nasermirzaei89/skintalk/viewstate"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type DiscussionView struct {
	*discuss.Discussion

	ContentHTML string         `json:"content_html"`
	Bookmarked  bool           `json:"bookmarked"`
	Upvoted     bool           `json:"upvoted"`
	Comments    []*CommentView `json:"comments"`
}

type CommentView struct {
	*discuss.Comment

	Path        string         `json:"path"`
	ContentHTML string         `json:"content_html"`
	Upvoted     bool           `json:"upvoted"`
	Replies     []*CommentView `json:"replies"`
}

// renderContent converts markdown to HTML and strips anything unsafe.
func (h *Handler) renderContent(r *http.Request, content string) string {
	var buf bytes.Buffer

	err := h.markdown.Convert([]byte(content), &buf)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to render markdown", "error", err)

		return h.policy.Sanitize(content)
	}

	return h.policy.Sanitize(buf.String())
}

func (h *Handler) discussionView(
	r *http.Request,
	session *viewstate.Session,
	discussion *discuss.Discussion,
) *DiscussionView {
	target := reactions.TargetOf(discuss.TargetRef{DiscussionID: discussion.ID})

	return &DiscussionView{
		Discussion:  discussion,
		ContentHTML: h.renderContent(r, discussion.Content),
		Bookmarked:  session.Bookmarks.Has(discussion.ID),
		Upvoted:     session.Upvotes.Upvoted(target),
		Comments:    h.commentViews(r, session, discussion.ID, nil, discussion.Comments),
	}
}

func (h *Handler) commentViews(
	r *http.Request,
	session *viewstate.Session,
	discussionID int,
	parent discuss.CommentPath,
	comments []*discuss.Comment,
) []*CommentView {
	views := make([]*CommentView, 0, len(comments))

	for _, comment := range comments {
		path := append(slices.Clone(parent), comment.ID)
		views = append(views, h.commentView(r, session, discussionID, path, comment))
	}

	return views
}

func (h *Handler) commentView(
	r *http.Request,
	session *viewstate.Session,
	discussionID int,
	path discuss.CommentPath,
	comment *discuss.Comment,
) *CommentView {
	target := reactions.TargetOf(discuss.TargetRef{DiscussionID: discussionID, Path: path})

	return &CommentView{
		Comment:     comment,
		Path:        path.String(),
		ContentHTML: h.renderContent(r, comment.Content),
		Upvoted:     session.Upvotes.Upvoted(target),
		Replies:     h.commentViews(r, session, discussionID, path, comment.Replies),
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return MalformedRequestError{Err: err}
	}

	return nil
}

type MalformedRequestError struct {
	Err error
}

func (err MalformedRequestError) Error() string {
	return "malformed request body: " + err.Err.Error()
}

func (err MalformedRequestError) Unwrap() error {
	return err.Err
}

func statusOf(err error) int {
	var (
		validationErr        discuss.ValidationError
		depthErr             discuss.DepthLimitError
		discussionNotFound   discuss.DiscussionNotFoundError
		commentNotFound      discuss.CommentNotFoundError
		invalidPathErr       InvalidPathError
		malformedErr         MalformedRequestError
		invalidTargetErr     reactions.InvalidTargetError
		invalidTargetTypeErr reactions.InvalidTargetTypeError
		reloadedErr          discuss.BoardReloadedError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &depthErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &discussionNotFound), errors.As(err, &commentNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalidPathErr),
		errors.As(err, &malformedErr),
		errors.As(err, &invalidTargetErr),
		errors.As(err, &invalidTargetTypeErr):
		return http.StatusBadRequest
	case errors.As(err, &reloadedErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the message of a user-facing error, or a generic one for
// anything unexpected.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, r, status, errorResponse{Error: "Internal Server Error"})

		return
	}

	message := err.Error()

	var validationErr discuss.ValidationError
	if errors.As(err, &validationErr) {
		message = validationErr.Message
	}

	writeJSON(w, r, status, errorResponse{Error: message})
}
