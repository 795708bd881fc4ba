package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/blogd/internal/model"
	"github.com/and161185/blogd/internal/repository"
)

// Blogs manages blog articles. Ownership always comes from the authenticated
// caller; a client-supplied author id is never trusted.
type Blogs struct {
	*Base[model.Blog]
}

// NewBlogs constructs the blog service.
func NewBlogs(repo repository.Repository[model.Blog]) *Blogs {
	return &Blogs{Base: NewBase(repo)}
}

// Create stores a blog owned by authorID.
func (s *Blogs) Create(ctx context.Context, authorID uuid.UUID, in model.BlogCreate) (*model.Blog, error) {
	return s.Base.Create(ctx, in.Blog(authorID))
}

// CreateBatch stores blogs, all owned by authorID, atomically.
func (s *Blogs) CreateBatch(ctx context.Context, authorID uuid.UUID, ins []model.BlogCreate) ([]*model.Blog, error) {
	recs := make([]*model.Blog, len(ins))
	for i, in := range ins {
		recs[i] = in.Blog(authorID)
	}
	return s.Base.CreateBatch(ctx, recs)
}

// Posts manages short text entries, owned the same way blogs are.
type Posts struct {
	*Base[model.Post]
}

// NewPosts constructs the post service.
func NewPosts(repo repository.Repository[model.Post]) *Posts {
	return &Posts{Base: NewBase(repo)}
}

// Create stores a post owned by userID.
func (s *Posts) Create(ctx context.Context, userID uuid.UUID, in model.PostCreate) (*model.Post, error) {
	return s.Base.Create(ctx, in.Post(userID))
}

// CreateBatch stores posts, all owned by userID, atomically.
func (s *Posts) CreateBatch(ctx context.Context, userID uuid.UUID, ins []model.PostCreate) ([]*model.Post, error) {
	recs := make([]*model.Post, len(ins))
	for i, in := range ins {
		recs[i] = in.Post(userID)
	}
	return s.Base.CreateBatch(ctx, recs)
}

// Roles manages named permission groups. Plain CRUD, nothing entity specific.
type Roles struct {
	*Base[model.Role]
}

// NewRoles constructs the role service.
func NewRoles(repo repository.Repository[model.Role]) *Roles {
	return &Roles{Base: NewBase(repo)}
}
