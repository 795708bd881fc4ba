// Package service contains application services for authentication and
// entity CRUD.
package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/blogd/internal/repository"
)

// Base provides the CRUD operations shared by every entity service. Entity
// specific services embed it and override what differs (password hashing,
// cache invalidation, ownership stamping).
type Base[T any] struct {
	repo repository.Repository[T]
}

// NewBase constructs a service over the given repository.
func NewBase[T any](repo repository.Repository[T]) *Base[T] {
	return &Base[T]{repo: repo}
}

// Create stores one record and returns the stored row.
func (s *Base[T]) Create(ctx context.Context, rec *T) (*T, error) {
	return s.repo.Create(ctx, rec)
}

// CreateBatch stores all records atomically.
func (s *Base[T]) CreateBatch(ctx context.Context, recs []*T) ([]*T, error) {
	return s.repo.CreateBatch(ctx, recs)
}

// GetByID loads one record.
func (s *Base[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByIDs returns the records whose ids exist; missing ids are omitted.
func (s *Base[T]) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// List returns a filtered, ordered, optionally paginated page.
func (s *Base[T]) List(ctx context.Context, q repository.ListQuery) (*repository.Page[T], error) {
	return s.repo.List(ctx, q)
}

// UpdateByID applies a partial update and returns the refreshed row.
func (s *Base[T]) UpdateByID(ctx context.Context, id uuid.UUID, changes map[string]any) (*T, error) {
	return s.repo.UpdateByID(ctx, id, changes)
}

// UpdateBatch applies patches atomically; patches whose id does not exist
// are dropped from the result.
func (s *Base[T]) UpdateBatch(ctx context.Context, patches []repository.Patch) ([]*T, error) {
	return s.repo.UpdateBatch(ctx, patches)
}

// DeleteByID removes one record.
func (s *Base[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteByID(ctx, id)
}

// DeleteBatch removes the existing subset of ids and reports the count.
func (s *Base[T]) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.repo.DeleteBatch(ctx, ids)
}
