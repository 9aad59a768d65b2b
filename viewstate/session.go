package viewstate

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/nasermirzaei89/skintalk/reactions"
)

// Session is the view state of one visitor. It outlives board reloads; its upvote flags
// do not (see reactions.Tracker.Sync).
type Session struct {
	ID                uuid.UUID
	Bookmarks         Bookmarks
	AddDiscussionOpen bool
	SelectedCategory  string
	Upvotes           *reactions.Tracker
}

func NewSession(id uuid.UUID) *Session {
	return &Session{
		ID:                id,
		Bookmarks:         NewBookmarks(),
		AddDiscussionOpen: false,
		SelectedCategory:  AllCategories,
		Upvotes:           reactions.NewTracker(),
	}
}

func (s *Session) ToggleBookmark(discussionID int) bool {
	s.Bookmarks = s.Bookmarks.Toggle(discussionID)

	return s.Bookmarks.Has(discussionID)
}

func (s *Session) ToggleAddDiscussionView() bool {
	s.AddDiscussionOpen = !s.AddDiscussionOpen

	return s.AddDiscussionOpen
}

// CloseAddDiscussionView is called after a discussion was submitted successfully.
func (s *Session) CloseAddDiscussionView() {
	s.AddDiscussionOpen = false
}

func (s *Session) SelectCategory(label string) {
	if label == "" {
		label = AllCategories
	}

	s.SelectedCategory = label
}

type SessionNotFoundError struct {
	ID uuid.UUID
}

func (err SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", err.ID)
}

const (
	// DefaultIdleTTL is how long a session is kept after its last request.
	DefaultIdleTTL = 24 * time.Hour
	// DefaultMaxSessions bounds the registry. The least recently used session is evicted
	// first.
	DefaultMaxSessions = 100_000
)

// Registry holds the sessions of all visitors. Sessions are only touched inside With, so
// one session is never updated by two requests at once. A session unused for the idle TTL
// expires, and every use restarts its TTL.
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[uuid.UUID, *Session]
}

// NewRegistry returns an empty registry. Non-positive arguments fall back to
// DefaultMaxSessions and DefaultIdleTTL.
func NewRegistry(maxSessions int, idleTTL time.Duration) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	return &Registry{
		sessions: expirable.NewLRU[uuid.UUID, *Session](maxSessions, nil, idleTTL),
	}
}

// Open returns the id of a new session.
func (reg *Registry) Open() uuid.UUID {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := uuid.New()
	reg.sessions.Add(id, NewSession(id))

	return id
}

// Ensure creates the session for id if it does not exist yet and reports whether it did.
// Either way the session counts as used.
func (reg *Registry) Ensure(id uuid.UUID) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	session, ok := reg.sessions.Get(id)
	if !ok {
		session = NewSession(id)
	}

	reg.sessions.Add(id, session)

	return !ok
}

// With runs fn with the session under the registry lock.
func (reg *Registry) With(id uuid.UUID, fn func(session *Session) error) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	session, ok := reg.sessions.Get(id)
	if !ok {
		return SessionNotFoundError{ID: id}
	}

	reg.sessions.Add(id, session)

	return fn(session)
}

// Len counts the sessions held, including expired ones not yet purged.
func (reg *Registry) Len() int {
	return reg.sessions.Len()
}
