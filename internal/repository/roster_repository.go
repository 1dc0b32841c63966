package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/student-roster/internal/model"
)

// RosterRepository stores the whole roster as one encoded value under a
// fixed key of a BlobStore.
type RosterRepository struct {
	store BlobStore
	key   string
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(store BlobStore, key string) *RosterRepository {
	return &RosterRepository{store: store, key: key}
}

// Key returns the storage key the roster lives under.
func (r *RosterRepository) Key() string {
	return r.key
}

// Load reads the roster. A key that was never written is an empty roster.
func (r *RosterRepository) Load(ctx context.Context) ([]model.Student, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrKeyNotFound) {
		return []model.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", r.key, err)
	}
	return DecodeRoster(data)
}

// Save overwrites the stored roster with students.
func (r *RosterRepository) Save(ctx context.Context, students []model.Student) error {
	data, err := EncodeRoster(students)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("write %q: %w", r.key, err)
	}
	return nil
}
