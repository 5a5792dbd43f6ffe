// Package store holds the process-wide mapping from game identifier to
// in-memory Game aggregate, protected by a per-entry mutex so that
// unrelated games never contend with one another.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/marianogappa/tichu-server/internal/tichu"
)

// Entry pairs a Game with the mutex that must be held for every read or
// write of it, per the coarse-mutex-per-aggregate concurrency model.
type Entry struct {
	mu   sync.Mutex
	Game *tichu.Game
}

// Lock acquires the entry's mutex. Callers must Unlock when done.
func (e *Entry) Lock() { e.mu.Lock() }

// Unlock releases the entry's mutex.
func (e *Entry) Unlock() { e.mu.Unlock() }

// Store is a concurrency-safe map of game id to Entry. The top-level map is
// guarded by its own RWMutex; looking a game up never blocks on another
// game's gameplay mutex.
type Store struct {
	mu    sync.RWMutex
	games map[string]*Entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{games: map[string]*Entry{}}
}

// Create mints a fresh game id and registers a new lobby under it.
func (s *Store) Create(opts ...tichu.GameOption) (string, *Entry) {
	id := uuid.NewString()
	entry := &Entry{Game: tichu.NewGame(id, opts...)}
	s.mu.Lock()
	s.games[id] = entry
	s.mu.Unlock()
	return id, entry
}

// Get looks up a game by id. ok is false if no such game exists (the
// dispatcher should respond with a NotFound-style rejection, e.g.
// lobby-not-found).
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.games[id]
	return e, ok
}

// Delete removes a game from the store. The transport layer never calls
// it, so ended games stay in the store for the life of the process.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}
