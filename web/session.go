package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/nasermirzaei89/skintalk/viewstate"
)

const (
	sessionIDKey  = "sessionId"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// NewCookieStore returns the store for the visitor cookie. Set secure only when clients
// reach the server over TLS: a Secure cookie is never sent back over plain HTTP.
func NewCookieStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(sessionMaxAge)

	return store
}

type SessionValueNotFoundError struct {
	Key string
}

func (err SessionValueNotFoundError) Error() string {
	return fmt.Sprintf("session value for key '%s' not found", err.Key)
}

type sessionIDContextKey struct{}

func withSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDContextKey{}, id)
}

func sessionIDFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(sessionIDContextKey{}).(uuid.UUID)

	return id
}

func (h *Handler) getSessionValue(r *http.Request, key string) (any, error) {
	session, err := h.cookieStore.Get(r, h.sessionName)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}

	value, ok := session.Values[key]
	if !ok {
		return nil, &SessionValueNotFoundError{Key: key}
	}

	return value, nil
}

// setSessionValue stores value in the session cookie. A cookie that failed to decode is
// replaced by a fresh one.
func (h *Handler) setSessionValue(w http.ResponseWriter, r *http.Request, key string, value any) error {
	session, err := h.cookieStore.Get(r, h.sessionName)
	if session == nil {
		return fmt.Errorf("error getting session: %w", err)
	}

	session.Values[key] = value

	err = session.Save(r, w)
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	return nil
}

// currentSessionID reads the visitor id from the cookie. It reports false when the cookie is
// missing, was signed with another key, or holds something that is not a uuid.
func (h *Handler) currentSessionID(r *http.Request) (uuid.UUID, bool) {
	var sessionValueNotFoundError *SessionValueNotFoundError

	value, err := h.getSessionValue(r, sessionIDKey)
	if err != nil {
		if !errors.As(err, &sessionValueNotFoundError) {
			slog.WarnContext(r.Context(), "discarding unreadable session cookie", "error", err)
		}

		return uuid.Nil, false
	}

	raw, ok := value.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// sessionMiddleware makes sure the request belongs to a registered visitor session. It only
// wraps routes that read or change view state. Sessions are held in memory, so a known
// cookie is re-registered after a restart or an idle eviction.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.currentSessionID(r)
		if ok {
			h.sessions.Ensure(id)
		} else {
			id = h.sessions.Open()

			err := h.setSessionValue(w, r, sessionIDKey, id.String())
			if err != nil {
				slog.ErrorContext(r.Context(), "error on setting session value", "key", sessionIDKey, "error", err)
				writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "error on setting session value"})

				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
	})
}

// withSession runs fn with the visitor's view state, its upvote flags synced to the
// current board generation.
func (h *Handler) withSession(r *http.Request, fn func(session *viewstate.Session) error) error {
	generation := h.discussSvc.Generation()

	return h.sessions.With(sessionIDFrom(r.Context()), func(session *viewstate.Session) error {
		session.Upvotes.Sync(generation)

		return fn(session)
	})
}
