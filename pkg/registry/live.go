package registry

import (
	"sync"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

// LiveSet is the in-memory cleaned record set the analysis engine reads.
// It is seeded from the repository at startup and appended to as cleaned
// isolate events arrive. Snapshot returns a copy, so analyses never
// observe a mid-append slice and never mutate shared state.
type LiveSet struct {
	mu       sync.RWMutex
	isolates []models.Isolate
	seen     map[string]struct{}
}

func NewLiveSet(seed []models.Isolate) *LiveSet {
	set := &LiveSet{
		isolates: make([]models.Isolate, len(seed)),
		seen:     make(map[string]struct{}, len(seed)),
	}
	copy(set.isolates, seed)
	for _, iso := range seed {
		set.seen[iso.ID] = struct{}{}
	}
	return set
}

// Append adds an isolate unless its ID was already loaded; replayed
// events are dropped.
func (s *LiveSet) Append(iso models.Isolate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[iso.ID]; dup {
		return
	}
	s.seen[iso.ID] = struct{}{}
	s.isolates = append(s.isolates, iso)
}

func (s *LiveSet) Snapshot() []models.Isolate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Isolate, len(s.isolates))
	copy(out, s.isolates)
	return out
}

func (s *LiveSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.isolates)
}
