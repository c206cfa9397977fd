// Package memoryx holds per-session conversation history in memory.
// Sessions live for the process lifetime unless explicitly cleared; there
// is no expiration and no persistence.
package memoryx

import (
	"sync"

	"github.com/companion-labs/companion/pkg/logx"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultMaxTurns is the sliding-window size of a session's history.
const DefaultMaxTurns = 8

// Turn is one immutable role-tagged message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// session owns one conversation's history. Its mutex serializes
// read-modify-write on the turn slice so concurrent completions for the
// same key never interleave.
type session struct {
	mu    sync.Mutex
	turns []Turn
}

// Store maps session ids to bounded conversation histories. Turns are
// appended only in user/assistant pairs, so a history never holds a
// dangling user turn.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	maxTurns int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxTurns overrides the sliding-window size.
func WithMaxTurns(max int) StoreOption {
	return func(s *Store) {
		s.maxTurns = max
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...StoreOption) *Store {
	store := &Store{
		sessions: make(map[string]*session),
		maxTurns: DefaultMaxTurns,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// getOrCreate returns the session for id, creating it atomically so two
// concurrent first-requests share one entry.
func (s *Store) getOrCreate(id string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = &session{}
	s.sessions[id] = sess

	logx.WithField("session_id", id).Debug("Session created")
	return sess
}

// Get returns a copy of the session's history, oldest first. Unseen ids
// read back as an empty history; Get never fails.
func (s *Store) Get(id string) []Turn {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return []Turn{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	turns := make([]Turn, len(sess.turns))
	copy(turns, sess.turns)
	return turns
}

// Append commits a completed user/assistant exchange as one atomic pair,
// then trims the history to the most recent maxTurns by dropping from the
// front.
func (s *Store) Append(id, userText, assistantText string) {
	sess := s.getOrCreate(id)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.turns = append(sess.turns,
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: assistantText},
	)

	if s.maxTurns > 0 && len(sess.turns) > s.maxTurns {
		trimmed := make([]Turn, s.maxTurns)
		copy(trimmed, sess.turns[len(sess.turns)-s.maxTurns:])
		sess.turns = trimmed
	}

	logx.WithFields(logx.Fields{
		"session_id": id,
		"turn_count": len(sess.turns),
	}).Debug("Turn pair appended")
}

// Clear removes all history for the id. Clearing an unseen id is a no-op.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	logx.WithField("session_id", id).Debug("Session cleared")
}

// Len returns the number of turns currently stored for the id.
func (s *Store) Len(id string) int {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.turns)
}

// Sessions returns the number of live sessions.
func (s *Store) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
