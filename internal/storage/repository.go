package storage

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"PROFILES_BACK-END/internal/models"
)

// MutateFunc receives the freshly loaded collection and returns the
// collection to persist. Returning an error skips the save.
type MutateFunc func(profiles []models.Profile) ([]models.Profile, error)

// Repository runs profile operations on top of a Store. Every operation
// loads the whole collection; mutations save it back in full.
type Repository struct {
	store Store
	now   func() time.Time

	// mu serialises load-mutate-save inside this process. Writers in other
	// processes sharing the same file can still overwrite each other.
	mu sync.Mutex
}

// NewRepository wraps store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store, now: time.Now}
}

// Mutate is the load-mutate-save sequence shared by every write. A store
// that cannot be read fails the mutation instead of being overwritten.
func (r *Repository) Mutate(ctx context.Context, fn MutateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles, err := r.loadForWrite(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(profiles)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, updated)
}

func (r *Repository) loadForWrite(ctx context.Context) ([]models.Profile, error) {
	if sl, ok := r.store.(StrictLoader); ok {
		return sl.LoadStrict(ctx)
	}
	return r.store.Load(ctx)
}

// List returns the whole collection.
func (r *Repository) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, nil
}

// Get returns the profile with the given id.
func (r *Repository) Get(ctx context.Context, id int64) (models.Profile, error) {
	profiles, err := r.store.Load(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	i := indexOf(profiles, id)
	if i < 0 {
		return models.Profile{}, models.ErrNotFound
	}
	return profiles[i], nil
}

// Create builds a profile from the request fields, checks the required
// fields and email uniqueness, assigns an id and appends it.
func (r *Repository) Create(ctx context.Context, fields map[string]json.RawMessage) (models.Profile, error) {
	var created models.Profile
	err := r.Mutate(ctx, func(profiles []models.Profile) ([]models.Profile, error) {
		var p models.Profile
		if err := p.Merge(fields); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if slices.ContainsFunc(profiles, func(o models.Profile) bool { return o.Email == p.Email }) {
			return nil, models.ErrDuplicateEmail
		}
		p.ID = NextID(profiles, r.now())
		created = p
		return append(profiles, p), nil
	})
	if err != nil {
		return models.Profile{}, err
	}
	return created, nil
}

// Update shallow-merges patch over the profile with the given id. Email
// uniqueness is only enforced on create.
func (r *Repository) Update(ctx context.Context, id int64, patch map[string]json.RawMessage) (models.Profile, error) {
	var updated models.Profile
	err := r.Mutate(ctx, func(profiles []models.Profile) ([]models.Profile, error) {
		i := indexOf(profiles, id)
		if i < 0 {
			return nil, models.ErrNotFound
		}
		p := profiles[i].Clone()
		if err := p.Merge(patch); err != nil {
			return nil, err
		}
		profiles[i] = p
		updated = p
		return profiles, nil
	})
	if err != nil {
		return models.Profile{}, err
	}
	return updated, nil
}

// Delete removes the profile with the given id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.Mutate(ctx, func(profiles []models.Profile) ([]models.Profile, error) {
		i := indexOf(profiles, id)
		if i < 0 {
			return nil, models.ErrNotFound
		}
		return slices.Delete(profiles, i, i+1), nil
	})
}

// NextID returns now in Unix milliseconds, moved past the largest existing
// id when two creates land in the same millisecond.
func NextID(profiles []models.Profile, now time.Time) int64 {
	id := now.UnixMilli()
	for _, p := range profiles {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	return id
}

func indexOf(profiles []models.Profile, id int64) int {
	return slices.IndexFunc(profiles, func(p models.Profile) bool { return p.Addressable() && p.ID == id })
}
