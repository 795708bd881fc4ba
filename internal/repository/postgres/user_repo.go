package postgres

import (
	"context"
	"fmt"

	"github.com/and161185/blogd/internal/model"
)

// UserRepo adds authentication lookups on top of the generic user repository.
type UserRepo struct {
	*BaseRepo[model.User]
}

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{BaseRepo: NewBaseRepo(db, Users())}
}

// FindByLogin selects the user whose username or email equals identifier.
// Both columns are unique, so at most one row matches.
func (r *UserRepo) FindByLogin(ctx context.Context, identifier string) (*model.User, error) {
	m := Users()
	q := fmt.Sprintf("SELECT %s FROM %s WHERE username = $1 OR email = $1", m.selectList(), m.Table)
	rows, err := r.db.Pool.Query(ctx, q, identifier)
	return collectOne[model.User](rows, err)
}

// NewBlogRepo constructs a blog repository.
func NewBlogRepo(db *DB) *BaseRepo[model.Blog] { return NewBaseRepo(db, Blogs()) }

// NewPostRepo constructs a post repository.
func NewPostRepo(db *DB) *BaseRepo[model.Post] { return NewBaseRepo(db, Posts()) }

// NewRoleRepo constructs a role repository.
func NewRoleRepo(db *DB) *BaseRepo[model.Role] { return NewBaseRepo(db, Roles()) }
