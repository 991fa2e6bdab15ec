package dex

import "sync"

// Lookup is the read side of the detail cache used by filtering and row
// building.
type Lookup interface {
	Detail(name string) (DetailRecord, bool)
	Generation(name string) (string, bool)
}

// Store is the session cache of fetched details and generation tags. Keys are
// entry names. Entries are only ever added: a key once present keeps its first
// value for the life of the Store.
type Store struct {
	mu          sync.RWMutex
	details     map[string]DetailRecord
	generations map[string]string
}

var _ Lookup = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		details:     map[string]DetailRecord{},
		generations: map[string]string{},
	}
}

func (s *Store) Detail(name string) (DetailRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[name]
	return d, ok
}

func (s *Store) Generation(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.generations[name]
	return g, ok
}

// PutDetail inserts rec unless name is already cached. It reports whether the
// record was stored.
func (s *Store) PutDetail(name string, rec DetailRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.details[name]; ok {
		return false
	}
	rec.Types = append([]string(nil), rec.Types...)
	s.details[name] = rec
	return true
}

// PutGeneration inserts gen unless name is already cached.
func (s *Store) PutGeneration(name, gen string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.generations[name]; ok {
		return false
	}
	s.generations[name] = gen
	return true
}

// Len returns the number of cached details and generation tags.
func (s *Store) Len() (details, generations int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.details), len(s.generations)
}
