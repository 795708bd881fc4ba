// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/blogd/internal/model"
)

// Patch is a partial update targeting one record in a bulk operation.
// Only the columns present in Changes are applied.
type Patch struct {
	ID      uuid.UUID
	Changes map[string]any
}

// Repository provides uniform CRUD, bulk and paginated-search access for one
// entity type.
type Repository[T any] interface {
	// Create persists a new record and returns the stored row, including the
	// generated id and creation timestamp.
	Create(ctx context.Context, rec *T) (*T, error)
	// CreateBatch persists all records in one transaction; on any failure
	// nothing is persisted.
	CreateBatch(ctx context.Context, recs []*T) ([]*T, error)
	// GetByID loads a record by primary key; absence yields errs.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetByIDs returns the subset of ids that exist; missing ids are omitted.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error)
	// List returns a filtered, ordered, optionally paginated page of records.
	List(ctx context.Context, q ListQuery) (*Page[T], error)
	// UpdateByID applies only the columns present in changes and returns the
	// refreshed row; absence yields errs.ErrNotFound.
	UpdateByID(ctx context.Context, id uuid.UUID, changes map[string]any) (*T, error)
	// UpdateBatch applies patches in one transaction. Patches whose id does
	// not resolve to an existing row are dropped from the result, mirroring
	// GetByIDs semantics.
	UpdateBatch(ctx context.Context, patches []Patch) ([]*T, error)
	// DeleteByID removes a record; absence yields errs.ErrNotFound.
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// DeleteBatch removes whatever subset of ids resolves and reports the
	// number of rows removed; missing ids are not an error.
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// UserFinder resolves login identifiers for authentication. The lookup
// matches username or email, either of which identifies exactly one account.
type UserFinder interface {
	FindByLogin(ctx context.Context, identifier string) (*model.User, error)
}
