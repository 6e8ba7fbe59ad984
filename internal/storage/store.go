package storage

import (
	"context"

	"PROFILES_BACK-END/internal/models"
)

// Store persists the whole profile collection as one unit.
//
// Load returns the full sequence and Save replaces it. Neither call is
// guarded against a concurrent writer; Repository serialises the
// load-mutate-save sequence for callers inside one process.
type Store interface {
	Load(ctx context.Context) ([]models.Profile, error)
	Save(ctx context.Context, profiles []models.Profile) error
}

// Checker is implemented by stores that can report their health without
// masking failures the way Load does.
type Checker interface {
	Check(ctx context.Context) error
}

// StrictLoader is implemented by stores whose Load hides read failures.
// LoadStrict returns them instead, so a write never starts from a
// collection that only looks empty.
type StrictLoader interface {
	LoadStrict(ctx context.Context) ([]models.Profile, error)
}
