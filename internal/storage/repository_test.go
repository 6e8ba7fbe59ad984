package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PROFILES_BACK-END/internal/models"
)

func fields(t *testing.T, kv map[string]any) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(kv))
	for k, v := range kv {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		out[k] = b
	}
	return out
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestRepositoryCreate(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store)
	repo.now = fixedClock(1_700_000_000_000)

	p, err := repo.Create(context.Background(), fields(t, map[string]any{
		"firstname": "Ada",
		"lastname":  "Lovelace",
		"email":     "ada@example.com",
		"city":      "London",
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), p.ID)
	assert.JSONEq(t, `"London"`, string(p.Extra["city"]))
	require.Len(t, store.Snapshot(), 1)
	assert.Equal(t, p.ID, store.Snapshot()[0].ID)
}

func TestRepositoryCreateIgnoresCallerID(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	repo.now = fixedClock(5000)

	p, err := repo.Create(context.Background(), fields(t, map[string]any{
		"id": 1, "firstname": "A", "lastname": "B", "email": "c",
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), p.ID)
}

func TestRepositoryCreateValidation(t *testing.T) {
	existing := models.Profile{ID: 1, FirstName: "A", LastName: "B", Email: "taken@x"}

	tests := []struct {
		name   string
		body   map[string]any
		target error
	}{
		{"missing firstname", map[string]any{"lastname": "B", "email": "e@x"}, models.ErrMissingFields},
		{"missing lastname", map[string]any{"firstname": "A", "email": "e@x"}, models.ErrMissingFields},
		{"missing email", map[string]any{"firstname": "A", "lastname": "B"}, models.ErrMissingFields},
		{"empty firstname", map[string]any{"firstname": "", "lastname": "B", "email": "e@x"}, models.ErrMissingFields},
		{"duplicate email", map[string]any{"firstname": "A", "lastname": "B", "email": "taken@x"}, models.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(existing)
			repo := NewRepository(store)

			_, err := repo.Create(context.Background(), fields(t, tt.body))
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Equal(t, 0, store.Saves(), "nothing is written on validation failure")
			assert.Len(t, store.Snapshot(), 1)
		})
	}
}

func TestRepositoryGet(t *testing.T) {
	repo := NewRepository(NewMemoryStore(
		models.Profile{ID: 1, Email: "a"},
		models.Profile{ID: 2, Email: "b"},
	))

	p, err := repo.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b", p.Email)

	_, err = repo.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepositoryUpdate(t *testing.T) {
	store := NewMemoryStore(models.Profile{ID: 1, FirstName: "A", LastName: "B", Email: "a@x"})
	repo := NewRepository(store)

	p, err := repo.Update(context.Background(), 1, fields(t, map[string]any{"lastname": "Updated", "id": 77}))
	require.NoError(t, err)
	assert.Equal(t, models.Profile{ID: 1, FirstName: "A", LastName: "Updated", Email: "a@x"}, p)
	assert.Equal(t, []models.Profile{p}, store.Snapshot())

	_, err = repo.Update(context.Background(), 2, fields(t, map[string]any{"lastname": "X"}))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepositoryUpdateDoesNotRecheckEmail(t *testing.T) {
	store := NewMemoryStore(
		models.Profile{ID: 1, FirstName: "A", LastName: "B", Email: "a@x"},
		models.Profile{ID: 2, FirstName: "C", LastName: "D", Email: "c@x"},
	)
	repo := NewRepository(store)

	p, err := repo.Update(context.Background(), 2, fields(t, map[string]any{"email": "a@x"}))
	require.NoError(t, err)
	assert.Equal(t, "a@x", p.Email)
}

func TestRepositoryDelete(t *testing.T) {
	store := NewMemoryStore(
		models.Profile{ID: 1, Email: "a"},
		models.Profile{ID: 2, Email: "b"},
		models.Profile{ID: 3, Email: "c"},
	)
	repo := NewRepository(store)

	require.NoError(t, repo.Delete(context.Background(), 2))
	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, int64(1), snap[0].ID)
	assert.Equal(t, int64(3), snap[1].ID)

	assert.ErrorIs(t, repo.Delete(context.Background(), 2), models.ErrNotFound)
}

func TestRepositoryStorageFailures(t *testing.T) {
	boom := fmt.Errorf("%w: disk full", models.ErrStorage)

	t.Run("save failure leaves the store untouched", func(t *testing.T) {
		store := NewMemoryStore()
		store.FailSave(boom)
		repo := NewRepository(store)

		_, err := repo.Create(context.Background(), fields(t, map[string]any{"firstname": "A", "lastname": "B", "email": "c"}))
		assert.ErrorIs(t, err, models.ErrStorage)
		assert.Empty(t, store.Snapshot())
	})

	t.Run("load failure surfaces on every operation", func(t *testing.T) {
		store := NewMemoryStore(models.Profile{ID: 1})
		store.FailLoad(boom)
		repo := NewRepository(store)
		ctx := context.Background()

		_, err := repo.List(ctx)
		assert.ErrorIs(t, err, models.ErrStorage)
		_, err = repo.Get(ctx, 1)
		assert.ErrorIs(t, err, models.ErrStorage)
		_, err = repo.Update(ctx, 1, nil)
		assert.ErrorIs(t, err, models.ErrStorage)
		assert.ErrorIs(t, repo.Delete(ctx, 1), models.ErrStorage)
	})
}

func TestRepositoryMutateSkipsSaveOnError(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store)
	sentinel := errors.New("stop")

	err := repo.Mutate(context.Background(), func(p []models.Profile) ([]models.Profile, error) {
		return append(p, models.Profile{ID: 1}), sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, store.Saves())
}

func TestNextID(t *testing.T) {
	now := time.UnixMilli(1000)

	assert.Equal(t, int64(1000), NextID(nil, now))
	assert.Equal(t, int64(1000), NextID([]models.Profile{{ID: 999}}, now))
	assert.Equal(t, int64(1001), NextID([]models.Profile{{ID: 1000}}, now))
	assert.Equal(t, int64(5001), NextID([]models.Profile{{ID: 5000}, {ID: 3}}, now))
}

// Concurrent creates through one Repository must all survive even though
// every create rewrites the whole document.
func TestRepositoryConcurrentCreatesKeepEveryWrite(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "database.json"), nil)
	require.NoError(t, store.Init())
	repo := NewRepository(store)
	repo.now = fixedClock(1_700_000_000_000)

	const n = 25
	bodies := make([]map[string]json.RawMessage, n)
	for i := range bodies {
		bodies[i] = fields(t, map[string]any{
			"firstname": "User",
			"lastname":  fmt.Sprint(i),
			"email":     fmt.Sprintf("user%d@example.com", i),
		})
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, body := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), body)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	profiles, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, n)

	seen := make(map[int64]bool, n)
	for _, p := range profiles {
		assert.False(t, seen[p.ID], "id %d assigned twice", p.ID)
		seen[p.ID] = true
	}
}

func TestRepositoryWritesRefuseUnreadableDocument(t *testing.T) {
	const corrupt = `[{"id":1,"firstname":"A","lastname":"B","email":"a@x"},`
	ctx := context.Background()

	for name, write := range map[string]func(*Repository) error{
		"create": func(r *Repository) error {
			_, err := r.Create(ctx, fields(t, map[string]any{"firstname": "C", "lastname": "D", "email": "c@x"}))
			return err
		},
		"update": func(r *Repository) error {
			_, err := r.Update(ctx, 1, fields(t, map[string]any{"lastname": "Z"}))
			return err
		},
		"delete": func(r *Repository) error {
			return r.Delete(ctx, 1)
		},
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "database.json")
			require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o644))
			repo := NewRepository(NewFileStore(path, nil))

			err := write(repo)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrStorage)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, corrupt, string(data), "document left as found")
		})
	}
}

func TestRepositoryIgnoresRecordsWithoutIntegerID(t *testing.T) {
	var legacy []models.Profile
	require.NoError(t, json.Unmarshal([]byte(
		`[{"firstname":"No","lastname":"Id","email":"n@x"},{"id":"0","firstname":"S","lastname":"Id","email":"s@x"}]`,
	), &legacy))
	store := NewMemoryStore(legacy...)
	repo := NewRepository(store)
	ctx := context.Background()

	_, err := repo.Get(ctx, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.Update(ctx, 0, fields(t, map[string]any{"lastname": "Z"}))
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 0), models.ErrNotFound)

	repo.now = fixedClock(10)
	p, err := repo.Create(ctx, fields(t, map[string]any{"firstname": "A", "lastname": "B", "email": "a@x"}))
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.ID)
	require.Len(t, store.Snapshot(), 3, "legacy records survive the rewrite")
}
