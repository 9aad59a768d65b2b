package web

import (
	"net/http"

	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/nasermirzaei89/skintalk/reactions"
	"github.com/nasermirzaei89/skintalk/viewstate"
)

type discussionListResponse struct {
	SelectedCategory string            `json:"selected_category"`
	Categories       []string          `json:"categories"`
	Discussions      []*DiscussionView `json:"discussions"`
}

type upvoteResponse struct {
	UpvoteCount int  `json:"upvoteCount"`
	Upvoted     bool `json:"upvoted"`
}

type bookmarksResponse struct {
	Bookmarked *bool `json:"bookmarked,omitempty"`
	Bookmarks  []int `json:"bookmarks"`
}

type addDiscussionViewResponse struct {
	Open bool `json:"open"`
}

// HandleData serves the board the way the upstream data source shapes it: the first
// discussion and its comment trees.
func (h *Handler) HandleData() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := discuss.Snapshot{Discussion: nil, Comments: make([]*discuss.Comment, 0)}

		discussions := h.discussSvc.ListDiscussions(r.Context())
		if len(discussions) > 0 {
			discussion := discussions[0]
			snapshot.Comments = discussion.Comments
			discussion.Comments = make([]*discuss.Comment, 0)
			snapshot.Discussion = discussion
		}

		writeJSON(w, r, http.StatusOK, snapshot)
	})
}

func (h *Handler) HandleListDiscussions() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		discussions := h.discussSvc.ListDiscussions(r.Context())

		var resp discussionListResponse

		err := h.withSession(r, func(session *viewstate.Session) error {
			if r.URL.Query().Has("category") {
				session.SelectCategory(r.URL.Query().Get("category"))
			}

			filtered := viewstate.FilterByCategory(discussions, session.SelectedCategory)

			resp = discussionListResponse{
				SelectedCategory: session.SelectedCategory,
				Categories:       viewstate.UniqueCategoryLabels(discussions),
				Discussions:      make([]*DiscussionView, 0, len(filtered)),
			}

			for _, discussion := range filtered {
				resp.Discussions = append(resp.Discussions, h.discussionView(r, session, discussion))
			}

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		writeJSON(w, r, http.StatusOK, resp)
	})
}

func (h *Handler) HandleGetDiscussion() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		discussionID, err := parseID(r.PathValue("discussionId"))
		if err != nil {
			writeError(w, r, err)

			return
		}

		discussion, err := h.discussSvc.GetDiscussion(r.Context(), discussionID)
		if err != nil {
			writeError(w, r, err)

			return
		}

		var view *DiscussionView

		err = h.withSession(r, func(session *viewstate.Session) error {
			view = h.discussionView(r, session, discussion)

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		writeJSON(w, r, http.StatusOK, view)
	})
}

func (h *Handler) HandleAddDiscussion() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req discuss.AddDiscussionRequest

		err := decodeJSON(w, r, &req)
		if err != nil {
			writeError(w, r, err)

			return
		}

		discussion, err := h.discussSvc.CreateDiscussion(r.Context(), req)
		if err != nil {
			writeError(w, r, err)

			return
		}

		h.metrics.mutated("add_discussion")

		var view *DiscussionView

		err = h.withSession(r, func(session *viewstate.Session) error {
			session.CloseAddDiscussionView()
			view = h.discussionView(r, session, discussion)

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		writeJSON(w, r, http.StatusCreated, view)
	})
}

func (h *Handler) HandleAddComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		discussionID, err := parseID(r.PathValue("discussionId"))
		if err != nil {
			writeError(w, r, err)

			return
		}

		var req discuss.AddCommentRequest

		err = decodeJSON(w, r, &req)
		if err != nil {
			writeError(w, r, err)

			return
		}

		comment, err := h.discussSvc.CreateComment(r.Context(), discussionID, req)
		if err != nil {
			writeError(w, r, err)

			return
		}

		h.metrics.mutated("add_comment")

		h.writeComment(w, r, discussionID, discuss.CommentPath{comment.ID}, comment)
	})
}

func (h *Handler) HandleAddReply() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		discussionID, err := parseID(r.PathValue("discussionId"))
		if err != nil {
			writeError(w, r, err)

			return
		}

		path, err := parseCommentPath(r.PathValue("path"))
		if err != nil {
			writeError(w, r, err)

			return
		}

		var req discuss.AddReplyRequest

		err = decodeJSON(w, r, &req)
		if err != nil {
			writeError(w, r, err)

			return
		}

		ref := discuss.CommentRef{DiscussionID: discussionID, Path: path}

		reply, err := h.discussSvc.CreateReply(r.Context(), ref, req)
		if err != nil {
			writeError(w, r, err)

			return
		}

		h.metrics.mutated("add_reply")

		h.writeComment(w, r, discussionID, append(path, reply.ID), reply)
	})
}

func (h *Handler) writeComment(
	w http.ResponseWriter,
	r *http.Request,
	discussionID int,
	path discuss.CommentPath,
	comment *discuss.Comment,
) {
	var view *CommentView

	err := h.withSession(r, func(session *viewstate.Session) error {
		view = h.commentView(r, session, discussionID, path, comment)

		return nil
	})
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, r, http.StatusCreated, view)
}

// HandleToggleUpvote flips the visitor's upvote on a discussion, or on the comment at the
// optional path, and applies the resulting delta to the board.
func (h *Handler) HandleToggleUpvote() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		discussionID, err := parseID(r.PathValue("discussionId"))
		if err != nil {
			writeError(w, r, err)

			return
		}

		ref := discuss.TargetRef{DiscussionID: discussionID, Path: nil}

		if raw := r.PathValue("path"); raw != "" {
			ref.Path, err = parseCommentPath(raw)
			if err != nil {
				writeError(w, r, err)

				return
			}
		}

		target := reactions.TargetOf(ref)

		var resp upvoteResponse

		err = h.withSession(r, func(session *viewstate.Session) error {
			delta, err := session.Upvotes.Toggle(target)
			if err != nil {
				return err
			}

			count, err := h.discussSvc.Upvote(r.Context(), ref, delta, session.Upvotes.Generation())
			if err != nil {
				_, _ = session.Upvotes.Toggle(target)

				return err
			}

			resp = upvoteResponse{UpvoteCount: count, Upvoted: session.Upvotes.Upvoted(target)}

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		h.metrics.mutated("upvote")

		writeJSON(w, r, http.StatusOK, resp)
	})
}

func (h *Handler) HandleListBookmarks() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp bookmarksResponse

		err := h.withSession(r, func(session *viewstate.Session) error {
			resp.Bookmarks = session.Bookmarks.IDs()

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		writeJSON(w, r, http.StatusOK, resp)
	})
}

// HandleToggleBookmark does not check that the discussion exists: bookmarks belong to the
// visitor and survive board reloads.
func (h *Handler) HandleToggleBookmark() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		discussionID, err := parseID(r.PathValue("discussionId"))
		if err != nil {
			writeError(w, r, err)

			return
		}

		var resp bookmarksResponse

		err = h.withSession(r, func(session *viewstate.Session) error {
			bookmarked := session.ToggleBookmark(discussionID)
			resp = bookmarksResponse{Bookmarked: &bookmarked, Bookmarks: session.Bookmarks.IDs()}

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		writeJSON(w, r, http.StatusOK, resp)
	})
}

func (h *Handler) HandleCategories() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, viewstate.UniqueCategoryLabels(h.discussSvc.ListDiscussions(r.Context())))
	})
}

func (h *Handler) HandleCatalog() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, discuss.Categories())
	})
}

func (h *Handler) HandleToggleAddDiscussionView() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp addDiscussionViewResponse

		err := h.withSession(r, func(session *viewstate.Session) error {
			resp.Open = session.ToggleAddDiscussionView()

			return nil
		})
		if err != nil {
			writeError(w, r, err)

			return
		}

		writeJSON(w, r, http.StatusOK, resp)
	})
}
