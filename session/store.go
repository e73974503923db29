// Package session keeps per-user conversation state for the lifetime of the
// process. Sessions are created lazily, never expire, and are guarded by a
// per-user lock so concurrent updates for different users never serialize
// against each other.
package session

import (
	"log/slog"
	"sync"

	"dokonbot/core/logger"
)

// Conversation states. Stored as plain strings so routing middleware can
// gate endpoints on them without importing the state machine.
const (
	StateUnidentified     = "unidentified"
	StateBrowsing         = "browsing"
	StateViewingProduct   = "viewing_product"
	StateAwaitingLocation = "awaiting_location"
)

// PendingOrder is an order that has been initiated but not yet completed
// with a location.
type PendingOrder struct {
	ProductName string
	AdminDraft  string
}

// Session is the per-user conversation record.
type Session struct {
	UserID   int64
	Phone    string
	Username string
	State    string
	Page     int
	Pending  *PendingOrder
}

// Identified reports whether the user has shared contact details.
func (s *Session) Identified() bool {
	return s.Phone != ""
}

type entry struct {
	mu sync.Mutex
	s  Session
}

// Store owns all sessions, keyed by user ID.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*entry
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

func (st *Store) getOrCreate(userID int64) *entry {
	st.mu.RLock()
	e, ok := st.entries[userID]
	st.mu.RUnlock()
	if ok {
		return e
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok = st.entries[userID]; ok {
		return e
	}
	e = &entry{s: Session{UserID: userID, State: StateUnidentified}}
	st.entries[userID] = e
	logger.SVCSessions.LogAttrs(logger.Background(), slog.LevelDebug, "session.created",
		slog.Int64("user_id", userID),
	)
	return e
}

// Do runs fn with exclusive access to the user's session. Events for the
// same user are serialized here, which is what keeps a location update from
// racing ahead of the order that set its pending entry.
func (st *Store) Do(userID int64, fn func(s *Session) error) error {
	e := st.getOrCreate(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.s)
}

// Get returns a copy of the user's session, if one exists.
func (st *Store) Get(userID int64) (Session, bool) {
	st.mu.RLock()
	e, ok := st.entries[userID]
	st.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s, true
}

// GetState returns the user's current conversation state, or
// StateUnidentified when no session exists yet.
func (st *Store) GetState(userID int64) string {
	s, ok := st.Get(userID)
	if !ok {
		return StateUnidentified
	}
	return s.State
}

// SetContact records the user's phone and username and moves the session
// into the browsing state.
func (st *Store) SetContact(userID int64, phone, username string) {
	_ = st.Do(userID, func(s *Session) error {
		s.Phone = phone
		s.Username = username
		s.State = StateBrowsing
		s.Page = 0
		return nil
	})
}

// SetPending stores an initiated order awaiting a location.
func (st *Store) SetPending(userID int64, p PendingOrder) {
	_ = st.Do(userID, func(s *Session) error {
		s.Pending = &p
		s.State = StateAwaitingLocation
		return nil
	})
}

// TakePending removes and returns the pending order, if any. Pop semantics:
// two concurrent location events can not both claim the same order.
func (st *Store) TakePending(userID int64) (PendingOrder, bool) {
	var (
		p  PendingOrder
		ok bool
	)
	_ = st.Do(userID, func(s *Session) error {
		if s.Pending != nil {
			p = *s.Pending
			s.Pending = nil
			ok = true
		}
		return nil
	})
	return p, ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}
