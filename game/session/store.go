package session

import (
	"crypto/rand"
	"errors"
	"regexp"
	"sync"
	"time"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrInvalidRoomCode   = errors.New("invalid room code")
)

// Room codes are short human-shareable identifiers.
const (
	codeLength  = 6
	codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// ValidCode reports whether code is a well-formed room code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// NewCode generates a random room code using cryptographic randomness.
// The charset omits 0/O and 1/I to keep codes unambiguous when shared aloud.
func NewCode() string {
	buf := make([]byte, codeLength)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}

// Store is the session registry: a keyed map from room code to Session.
// Its lock guards only the map itself; per-room mutual exclusion is the
// Session's own mutex.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{rooms: make(map[string]*Session)}
}

// Create registers a new session under roomID. An empty roomID gets a
// generated code. The initial position must be supplied by the caller (the
// coordinator asks the rules engine).
func (st *Store) Create(roomID, game, position string) (*Session, error) {
	if roomID == "" {
		roomID = NewCode()
	}
	if !ValidCode(roomID) {
		return nil, ErrInvalidRoomCode
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.rooms[roomID]; exists {
		return nil, ErrRoomAlreadyExists
	}

	now := time.Now()
	sess := &Session{
		RoomID:       roomID,
		Game:         game,
		Position:     position,
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	st.rooms[roomID] = sess
	return sess, nil
}

// Get retrieves a session by room code.
func (st *Store) Get(roomID string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, exists := st.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return sess, nil
}

// GetOrCreate gets an existing session or registers a new one. The second
// return value reports whether the session was created by this call; exactly
// one concurrent caller for a given code observes true.
func (st *Store) GetOrCreate(roomID, game, position string) (*Session, bool, error) {
	if roomID == "" {
		sess, err := st.Create("", game, position)
		return sess, err == nil, err
	}
	if !ValidCode(roomID) {
		return nil, false, ErrInvalidRoomCode
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if sess, exists := st.rooms[roomID]; exists {
		return sess, false, nil
	}

	now := time.Now()
	sess := &Session{
		RoomID:       roomID,
		Game:         game,
		Position:     position,
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	st.rooms[roomID] = sess
	return sess, true, nil
}

// Remove evicts a session from the registry.
func (st *Store) Remove(roomID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.rooms[roomID]; !exists {
		return ErrRoomNotFound
	}
	delete(st.rooms, roomID)
	return nil
}

// List returns all registered sessions.
func (st *Store) List() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make([]*Session, 0, len(st.rooms))
	for _, sess := range st.rooms {
		result = append(result, sess)
	}
	return result
}

// Count returns the number of registered sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.rooms)
}

// CleanupExpired evicts terminal sessions whose last activity is older than
// ttl, and returns how many were removed. Waiting and active rooms are never
// touched here; those are evicted through the coordinator's disconnect and
// leave paths.
func (st *Store) CleanupExpired(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	removed := 0

	st.mu.Lock()
	candidates := make([]*Session, 0)
	for _, sess := range st.rooms {
		candidates = append(candidates, sess)
	}
	st.mu.Unlock()

	for _, sess := range candidates {
		sess.Lock()
		expired := sess.Status.Terminal() && sess.LastActiveAt.Before(cutoff)
		sess.Unlock()
		if expired {
			st.mu.Lock()
			delete(st.rooms, sess.RoomID)
			st.mu.Unlock()
			removed++
		}
	}
	return removed
}
