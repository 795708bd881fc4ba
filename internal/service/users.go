package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/blogd/internal/cache"
	"github.com/and161185/blogd/internal/crypto"
	"github.com/and161185/blogd/internal/model"
	"github.com/and161185/blogd/internal/repository"
)

// Users manages user accounts. Plaintext passwords never reach the
// repository: they are replaced with an argon2id hash on every write path.
type Users struct {
	*Base[model.User]
	cache *cache.Users
}

// NewUsers constructs the user service. cache may be nil (disabled).
func NewUsers(repo repository.Repository[model.User], c *cache.Users) *Users {
	return &Users{Base: NewBase(repo), cache: c}
}

// Create hashes the password and stores the user.
func (s *Users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if u.Password == "" {
		return nil, errors.New("validation: empty password")
	}
	hash, err := crypto.HashPassword(u.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	return s.Base.Create(ctx, u)
}

// CreateBatch hashes every password and stores the users atomically.
func (s *Users) CreateBatch(ctx context.Context, users []*model.User) ([]*model.User, error) {
	for _, u := range users {
		if u.Password == "" {
			return nil, errors.New("validation: empty password")
		}
		hash, err := crypto.HashPassword(u.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	return s.Base.CreateBatch(ctx, users)
}

// UpdateByID applies the patch and drops the cached entry.
func (s *Users) UpdateByID(ctx context.Context, id uuid.UUID, changes map[string]any) (*model.User, error) {
	u, err := s.Base.UpdateByID(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, id)
	return u, nil
}

// UpdateBatch applies the patches and drops every targeted cache entry,
// including ids that were filtered out of the result.
func (s *Users) UpdateBatch(ctx context.Context, patches []repository.Patch) ([]*model.User, error) {
	out, err := s.Base.UpdateBatch(ctx, patches)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(patches))
	for i, p := range patches {
		ids[i] = p.ID
	}
	_ = s.cache.Invalidate(ctx, ids...)
	return out, nil
}

// DeleteByID removes the user and its cached entry.
func (s *Users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.Base.DeleteByID(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, id)
	return nil
}

// DeleteBatch removes users and their cached entries.
func (s *Users) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	n, err := s.Base.DeleteBatch(ctx, ids)
	if err != nil {
		return 0, err
	}
	_ = s.cache.Invalidate(ctx, ids...)
	return n, nil
}
