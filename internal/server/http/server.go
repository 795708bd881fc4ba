// Package httpserver exposes the JSON API: auth endpoints plus uniform CRUD
// routes for every entity type.
package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/blogd/internal/model"
	"github.com/and161185/blogd/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	log   *zap.Logger
	auth  *service.Auth
	users *service.Users
	blogs *service.Blogs
	posts *service.Posts
	roles *service.Roles
}

// New constructs the server with injected services.
func New(log *zap.Logger, auth *service.Auth, users *service.Users, blogs *service.Blogs, posts *service.Posts, roles *service.Roles) *Server {
	return &Server{log: log, auth: auth, users: users, blogs: blogs, posts: posts, roles: roles}
}

// Routes builds the router with all middleware and endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log), Logging(s.log), LimitBody)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/refresh", s.refresh)
			r.Group(func(g chi.Router) {
				g.Use(s.RequireAuth)
				g.Get("/me", s.me)
			})
		})

		users := &resource[model.User, model.UserCreate, model.UserPatch]{
			log: s.log,
			svc: s.users,
			create: func(ctx context.Context, _ uuid.UUID, in model.UserCreate) (*model.User, error) {
				return s.users.Create(ctx, in.User())
			},
			createBatch: func(ctx context.Context, _ uuid.UUID, ins []model.UserCreate) ([]*model.User, error) {
				recs := make([]*model.User, len(ins))
				for i, in := range ins {
					recs[i] = in.User()
				}
				return s.users.CreateBatch(ctx, recs)
			},
			changes: model.UserPatch.Changes,
		}
		r.Route("/users", users.mount)

		blogs := &resource[model.Blog, model.BlogCreate, model.BlogPatch]{
			log: s.log,
			svc: s.blogs,
			create: func(ctx context.Context, caller uuid.UUID, in model.BlogCreate) (*model.Blog, error) {
				return s.blogs.Create(ctx, caller, in)
			},
			createBatch: func(ctx context.Context, caller uuid.UUID, ins []model.BlogCreate) ([]*model.Blog, error) {
				return s.blogs.CreateBatch(ctx, caller, ins)
			},
			changes: model.BlogPatch.Changes,
			guard:   s.RequireAuth,
		}
		r.Route("/blogs", blogs.mount)

		posts := &resource[model.Post, model.PostCreate, model.PostPatch]{
			log: s.log,
			svc: s.posts,
			create: func(ctx context.Context, caller uuid.UUID, in model.PostCreate) (*model.Post, error) {
				return s.posts.Create(ctx, caller, in)
			},
			createBatch: func(ctx context.Context, caller uuid.UUID, ins []model.PostCreate) ([]*model.Post, error) {
				return s.posts.CreateBatch(ctx, caller, ins)
			},
			changes: model.PostPatch.Changes,
			guard:   s.RequireAuth,
		}
		r.Route("/posts", posts.mount)

		roles := &resource[model.Role, model.RoleCreate, model.RolePatch]{
			log: s.log,
			svc: s.roles,
			create: func(ctx context.Context, _ uuid.UUID, in model.RoleCreate) (*model.Role, error) {
				return s.roles.Create(ctx, in.Role())
			},
			createBatch: func(ctx context.Context, _ uuid.UUID, ins []model.RoleCreate) ([]*model.Role, error) {
				recs := make([]*model.Role, len(ins))
				for i, in := range ins {
					recs[i] = in.Role()
				}
				return s.roles.CreateBatch(ctx, recs)
			},
			changes: model.RolePatch.Changes,
		}
		r.Route("/roles", roles.mount)
	})
	return r
}
