package rate

import (
	"sync"

	"ratesync/internal/domain"
)

// StatusStore keeps the report of the most recent run.
type StatusStore struct {
	mu   sync.RWMutex
	last *domain.Report
}

func (s *StatusStore) Set(r domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &r
}

// Last returns false until the first run has finished.
func (s *StatusStore) Last() (domain.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.Report{}, false
	}
	return *s.last, true
}

func NewStatusStore() *StatusStore {
	return &StatusStore{}
}
