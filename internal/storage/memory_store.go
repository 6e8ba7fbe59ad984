package storage

import (
	"context"
	"sync"

	"PROFILES_BACK-END/internal/models"
)

// MemoryStore is an in-process Store used by tests and local runs without
// a data file. Load and Save hand out copies, so callers never share state
// with the store the way they would not share it with a file.
type MemoryStore struct {
	mu       sync.Mutex
	profiles []models.Profile
	loadErr  error
	saveErr  error
	saves    int
}

// NewMemoryStore returns a store seeded with profiles.
func NewMemoryStore(profiles ...models.Profile) *MemoryStore {
	return &MemoryStore{profiles: cloneAll(profiles)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return cloneAll(s.profiles), nil
}

func (s *MemoryStore) Save(ctx context.Context, profiles []models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.profiles = cloneAll(profiles)
	s.saves++
	return nil
}

func (s *MemoryStore) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// FailLoad makes every subsequent Load and Check return err. nil clears it.
func (s *MemoryStore) FailLoad(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// FailSave makes every subsequent Save return err. nil clears it.
func (s *MemoryStore) FailSave(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

// Snapshot returns a copy of the stored collection.
func (s *MemoryStore) Snapshot() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.profiles)
}

// Saves reports how many Save calls succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func cloneAll(profiles []models.Profile) []models.Profile {
	out := make([]models.Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.Clone()
	}
	return out
}
