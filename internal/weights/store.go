package weights

import (
	"log/slog"
	"sync"
)

// Persister is the external persistence collaborator. Load returns nil with
// no error when nothing has been persisted yet.
type Persister interface {
	LoadWeights() (Profile, error)
	SaveWeights(Profile) error
	ClearWeights() error
}

// Store holds the process-wide weight profile. Reads get an isolated
// snapshot; mutations go through Update, which serializes the whole
// read-adjust-renormalize-persist sequence.
type Store struct {
	mu        sync.RWMutex
	profile   Profile
	persister Persister
	logger    *slog.Logger
}

// NewStore initializes the store from a previously persisted profile when one
// exists and is sane, falling back to the built-in defaults otherwise.
// persister may be nil (in-memory only).
func NewStore(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		profile:   Defaults(),
		persister: persister,
		logger:    logger,
	}
	if persister == nil {
		return s
	}
	loaded, err := persister.LoadWeights()
	switch {
	case err != nil:
		logger.Warn("failed to load persisted weights, using defaults", "error", err)
	case loaded == nil:
		// First run, nothing persisted yet.
	case !loaded.valid():
		logger.Warn("persisted weight profile is incomplete or corrupt, using defaults")
	default:
		s.profile = loaded
	}
	return s
}

// Snapshot returns a read-only copy of the current profile.
func (s *Store) Snapshot() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

// Update applies fn to a copy of the current profile and commits the result,
// holding the write lock across the whole sequence so concurrent feedback
// events cannot interleave their read and write.
func (s *Store) Update(fn func(Profile) Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.profile.Clone())
	if next == nil {
		return
	}
	s.profile = next
	s.persist(next)
}

// Reset restores the built-in defaults and clears any persisted override.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = Defaults()
	if s.persister != nil {
		if err := s.persister.ClearWeights(); err != nil {
			s.logger.Warn("failed to clear persisted weights", "error", err)
		}
	}
}

// persist is called with the write lock held. Persistence failure is a
// warning, never fatal: scoring continues on in-memory state.
func (s *Store) persist(p Profile) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveWeights(p.Clone()); err != nil {
		s.logger.Warn("failed to persist weight profile", "error", err)
	}
}
