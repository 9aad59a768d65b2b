package web

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/nasermirzaei89/skintalk/viewstate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Handler serves the JSON API over a discuss.Service. Per-visitor view state lives in a
// viewstate.Registry keyed by the id stored in the session cookie.
type Handler struct {
	mux         *http.ServeMux
	handler     http.Handler
	discussSvc  *discuss.Service
	sessions    *viewstate.Registry
	cookieStore *sessions.CookieStore
	sessionName string
	markdown    goldmark.Markdown
	policy      *bluemonday.Policy
	metrics     *metrics
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(
	discussSvc *discuss.Service,
	registry *viewstate.Registry,
	cookieStore *sessions.CookieStore,
	sessionName string,
) *Handler {
	h := &Handler{
		mux:         nil,
		handler:     nil,
		discussSvc:  discussSvc,
		sessions:    registry,
		cookieStore: cookieStore,
		sessionName: sessionName,
		markdown:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:      bluemonday.UGCPolicy(),
		metrics:     newMetrics(registry),
	}

	{
		h.mux = &http.ServeMux{}
		h.handler = h.mux

		h.registerRoutes()
	}

	{
		h.handler = h.metrics.middleware(h.handler)
		h.handler = recoverMiddleware(h.handler)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("GET /api/data", h.HandleData())
	h.mux.Handle("GET /api/categories", h.HandleCategories())
	h.mux.Handle("GET /api/catalog", h.HandleCatalog())
	h.mux.Handle("GET /metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))

	h.mux.Handle("GET /api/discussions", h.sessionMiddleware(h.HandleListDiscussions()))
	h.mux.Handle("POST /api/discussions", h.sessionMiddleware(h.HandleAddDiscussion()))
	h.mux.Handle("GET /api/discussions/{discussionId}", h.sessionMiddleware(h.HandleGetDiscussion()))
	h.mux.Handle("POST /api/discussions/{discussionId}/comments", h.sessionMiddleware(h.HandleAddComment()))
	h.mux.Handle("POST /api/discussions/{discussionId}/replies/{path...}", h.sessionMiddleware(h.HandleAddReply()))
	h.mux.Handle("POST /api/upvote/{discussionId}", h.sessionMiddleware(h.HandleToggleUpvote()))
	h.mux.Handle("POST /api/upvote/{discussionId}/{path...}", h.sessionMiddleware(h.HandleToggleUpvote()))
	h.mux.Handle("GET /api/bookmarks", h.sessionMiddleware(h.HandleListBookmarks()))
	h.mux.Handle("POST /api/bookmarks/{discussionId}", h.sessionMiddleware(h.HandleToggleBookmark()))
	h.mux.Handle("POST /api/add-discussion-view/toggle", h.sessionMiddleware(h.HandleToggleAddDiscussionView()))
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			if err := recover(); err != nil {
				slog.ErrorContext(
					ctx,
					"recovered from panic",
					"error",
					err,
					"stack",
					string(debug.Stack()),
				)

				writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error occurred"})
			}
		}(r.Context())

		next.ServeHTTP(w, r)
	})
}
