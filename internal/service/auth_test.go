package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/blogd/internal/crypto"
	"github.com/and161185/blogd/internal/errs"
	"github.com/and161185/blogd/internal/limiter"
	"github.com/and161185/blogd/internal/model"
	"github.com/and161185/blogd/internal/repository"
	"github.com/and161185/blogd/internal/token"
)

type fakeUserRepo struct {
	byID map[uuid.UUID]*model.User

	createErr error
	findErr   error

	findCalls int
}

var (
	_ repository.Repository[model.User] = (*fakeUserRepo)(nil)
	_ repository.UserFinder             = (*fakeUserRepo)(nil)
)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) add(u *model.User) *model.User {
	cpy := *u
	if cpy.ID == uuid.Nil {
		cpy.ID = uuid.Must(uuid.NewV4())
	}
	cpy.CreatedAt = time.Now()
	f.byID[cpy.ID] = &cpy
	out := cpy
	return &out
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, have := range f.byID {
		if have.Username == u.Username || have.Email == u.Email {
			return nil, errs.ErrAlreadyExists
		}
	}
	return f.add(u), nil
}

func (f *fakeUserRepo) CreateBatch(ctx context.Context, users []*model.User) ([]*model.User, error) {
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		stored, err := f.Create(ctx, u)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*model.User, error) {
	out := []*model.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(_ context.Context, _ repository.ListQuery) (*repository.Page[model.User], error) {
	recs := []*model.User{}
	for _, u := range f.byID {
		c := *u
		recs = append(recs, &c)
	}
	return &repository.Page[model.User]{
		Page: 1, Limit: len(recs), TotalPages: 1,
		TotalRecords: int64(len(recs)), Records: recs,
	}, nil
}

func (f *fakeUserRepo) UpdateByID(_ context.Context, id uuid.UUID, changes map[string]any) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if v, ok := changes["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	if v, ok := changes["username"]; ok {
		u.Username = v.(string)
	}
	now := time.Now()
	u.UpdatedAt = &now
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) UpdateBatch(ctx context.Context, patches []repository.Patch) ([]*model.User, error) {
	out := []*model.User{}
	for _, p := range patches {
		u, err := f.UpdateByID(ctx, p.ID, p.Changes)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) DeleteBatch(_ context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) FindByLogin(_ context.Context, identifier string) (*model.User, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Username == identifier || u.Email == identifier {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}

func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}

func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, nil
}

func newIssuer() *token.Issuer {
	return token.NewIssuer([]byte("access-key"), []byte("refresh-key"), time.Minute, time.Hour)
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return repo.add(&model.User{Username: username, Email: email, Password: hash, IsActive: active})
}

func TestAuth_Login_ByUsernameAndEmail(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	lim := &fakeLimiter{allowOK: true}
	s := NewAuth(repo, repo, newIssuer(), lim, nil)
	seedUser(t, repo, "alice", "alice@x.io", "pwd", true)

	for _, identifier := range []string{"alice", "alice@x.io"} {
		toks, err := s.Login(context.Background(), identifier, "pwd", "1.2.3.4")
		if err != nil {
			t.Fatalf("Login(%s): %v", identifier, err)
		}
		if toks.TokenType != "bearer" || toks.AccessToken == "" || toks.RefreshToken == "" {
			t.Fatalf("incomplete token pair: %+v", toks)
		}
	}
	if lim.successCalls != 2 || lim.failureCalls != 0 {
		t.Fatalf("limiter calls: success=%d failure=%d", lim.successCalls, lim.failureCalls)
	}
}

func TestAuth_Login_FailuresAreOpaque(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	lim := &fakeLimiter{allowOK: true}
	s := NewAuth(repo, repo, newIssuer(), lim, nil)
	seedUser(t, repo, "alice", "alice@x.io", "pwd", true)
	seedUser(t, repo, "inactive", "off@x.io", "pwd", false)

	cases := []struct{ identifier, password string }{
		{"ghost", "pwd"},      // unknown identifier
		{"alice", "wrong"},    // wrong password
		{"inactive", "pwd"},   // deactivated account
		{"alice@x.io", "bad"}, // wrong password via email
	}
	for _, c := range cases {
		_, err := s.Login(context.Background(), c.identifier, c.password, "1.2.3.4")
		if !errors.Is(err, errs.ErrUnauthorized) {
			t.Fatalf("Login(%s): want ErrUnauthorized, got %v", c.identifier, err)
		}
	}
	if lim.failureCalls != len(cases) {
		t.Fatalf("failure calls: %d", lim.failureCalls)
	}
}

func TestAuth_Login_RateLimited(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "alice@x.io", "pwd", true)

	// Already blocked: the store is never consulted.
	lim := &fakeLimiter{allowOK: false}
	s := NewAuth(repo, repo, newIssuer(), lim, nil)
	_, err := s.Login(context.Background(), "alice", "pwd", "1.2.3.4")
	if !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	if repo.findCalls != 0 {
		t.Fatalf("store consulted while blocked")
	}

	// This failure crosses the threshold.
	lim = &fakeLimiter{allowOK: true, failBlocked: true}
	s = NewAuth(repo, repo, newIssuer(), lim, nil)
	_, err = s.Login(context.Background(), "alice", "wrong", "1.2.3.4")
	if !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited at threshold, got %v", err)
	}
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	s := NewAuth(repo, repo, newIssuer(), limiter.Noop{}, nil)
	u := seedUser(t, repo, "alice", "alice@x.io", "pwd", true)

	toks, err := s.Login(context.Background(), "alice", "pwd", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	out, err := s.Refresh(context.Background(), toks.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken != "" {
		t.Fatalf("refresh must issue access only: %+v", out)
	}

	// An access token is not accepted as a refresh token.
	if _, err := s.Refresh(context.Background(), toks.AccessToken); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("access token accepted for refresh: %v", err)
	}

	// Deactivation kills outstanding refresh tokens.
	if _, err := repo.UpdateByID(context.Background(), u.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.Refresh(context.Background(), toks.RefreshToken); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("refresh for deactivated user: %v", err)
	}

	if _, err := s.Refresh(context.Background(), "not-a-token"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("garbage refresh token: %v", err)
	}
}

func TestAuth_AuthenticateAndCurrentUser(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	s := NewAuth(repo, repo, newIssuer(), limiter.Noop{}, nil)
	u := seedUser(t, repo, "alice", "alice@x.io", "pwd", true)

	toks, err := s.Login(context.Background(), "alice", "pwd", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	caller, err := s.Authenticate(context.Background(), toks.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if caller.ID != u.ID {
		t.Fatalf("authenticate id mismatch: %s != %s", caller.ID, u.ID)
	}
	if _, err := s.Authenticate(context.Background(), "junk"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("junk access token: %v", err)
	}

	me, err := s.CurrentUser(context.Background(), caller.ID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if me.Username != "alice" {
		t.Fatalf("wrong profile: %+v", me)
	}
}

func TestAuth_Authenticate_StaleTokenLosesAccess(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	s := NewAuth(repo, repo, newIssuer(), limiter.Noop{}, nil)
	u := seedUser(t, repo, "alice", "alice@x.io", "pwd", true)

	toks, err := s.Login(context.Background(), "alice", "pwd", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Deactivation invalidates outstanding access tokens.
	if _, err := repo.UpdateByID(context.Background(), u.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.Authenticate(context.Background(), toks.AccessToken); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("deactivated account authenticated: %v", err)
	}

	// So does deletion.
	if _, err := repo.UpdateByID(context.Background(), u.ID, map[string]any{"is_active": true}); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if err := repo.DeleteByID(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Authenticate(context.Background(), toks.AccessToken); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("deleted account authenticated: %v", err)
	}
}
