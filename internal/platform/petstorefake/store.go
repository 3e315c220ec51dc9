package petstorefake

import (
	"sort"
	"sync"
	"time"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
)

// Store is the in-memory pet catalog behind the fake server.
type Store struct {
	mu   sync.RWMutex
	pets map[int64]*storedPet
	now  func() time.Time
}

type storedPet struct {
	pet       petstore.Pet
	createdAt time.Time
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		pets: map[int64]*storedPet{},
		now:  time.Now,
	}
}

// WithClock overrides the time source; useful for tests.
func (s *Store) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Save inserts or replaces a pet. Replacing keeps the original creation time.
func (s *Store) Save(pet petstore.Pet) petstore.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := &storedPet{pet: clonePet(pet), createdAt: s.now()}
	if existing, ok := s.pets[pet.ID]; ok {
		stored.createdAt = existing.createdAt
	}
	s.pets[pet.ID] = stored
	return clonePet(stored.pet)
}

// Get returns a copy of the pet with the given id.
func (s *Store) Get(id int64) (petstore.Pet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.pets[id]
	if !ok {
		return petstore.Pet{}, false
	}
	return clonePet(stored.pet), true
}

// DeleteIfOlder removes the pet when it was created at least minAge ago.
// It reports whether the pet existed and whether it was removed.
func (s *Store) DeleteIfOlder(id int64, minAge time.Duration) (found, deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.pets[id]
	if !ok {
		return false, false
	}
	if s.now().Sub(stored.createdAt) < minAge {
		return true, false
	}
	delete(s.pets, id)
	return true, true
}

// List returns every pet ordered by id.
func (s *Store) List() []petstore.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]petstore.Pet, 0, len(s.pets))
	for _, stored := range s.pets {
		out = append(out, clonePet(stored.pet))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reset drops every pet.
func (s *Store) Reset() {
	s.mu.Lock()
	s.pets = map[int64]*storedPet{}
	s.mu.Unlock()
}

// Len returns the number of stored pets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pets)
}

func clonePet(p petstore.Pet) petstore.Pet {
	out := p
	if p.Category != nil {
		category := *p.Category
		out.Category = &category
	}
	out.PhotoURLs = append([]string{}, p.PhotoURLs...)
	out.Tags = append([]petstore.Tag{}, p.Tags...)
	return out
}
