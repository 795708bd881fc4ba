package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/blogd/internal/cache"
	"github.com/and161185/blogd/internal/crypto"
	"github.com/and161185/blogd/internal/errs"
	"github.com/and161185/blogd/internal/limiter"
	"github.com/and161185/blogd/internal/model"
	"github.com/and161185/blogd/internal/repository"
	"github.com/and161185/blogd/internal/token"
)

// Auth authenticates users and issues bearer tokens. Every failure mode
// (unknown identifier, wrong password, deactivated account, malformed token)
// collapses into errs.ErrUnauthorized so responses never leak which part of
// the credentials was wrong.
type Auth struct {
	finder repository.UserFinder
	users  repository.Repository[model.User]
	issuer *token.Issuer
	lim    limiter.Limiter
	cache  *cache.Users
}

// NewAuth constructs the auth service. cache may be nil (disabled).
func NewAuth(finder repository.UserFinder, users repository.Repository[model.User], issuer *token.Issuer, lim limiter.Limiter, c *cache.Users) *Auth {
	return &Auth{finder: finder, users: users, issuer: issuer, lim: lim, cache: c}
}

// Login authenticates by username or email with rate limiting keyed by
// (identifier, ip) and returns a fresh access/refresh pair.
func (s *Auth) Login(ctx context.Context, identifier, password, ip string) (model.Tokens, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, identifier, ipHash)
	if err != nil {
		return model.Tokens{}, err
	}
	if !allowed {
		return model.Tokens{}, errs.ErrRateLimited
	}

	u, err := s.finder.FindByLogin(ctx, identifier)
	if err != nil || !crypto.VerifyPassword(password, u.Password) || !u.IsActive {
		if blocked, _, ferr := s.lim.Failure(ctx, identifier, ipHash); ferr == nil && blocked {
			return model.Tokens{}, errs.ErrRateLimited
		}
		return model.Tokens{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, identifier, ipHash)

	access, err := s.issuer.Access(u)
	if err != nil {
		return model.Tokens{}, err
	}
	refresh, err := s.issuer.Refresh(u)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{TokenType: token.TokenType, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh validates a refresh token, re-checks that the account still exists
// and is active, and issues a new access token. No new refresh token is
// issued; clients log in again when theirs expires.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (model.Tokens, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return model.Tokens{}, errs.ErrUnauthorized
	}
	id, err := uuid.FromString(claims.UserID)
	if err != nil {
		return model.Tokens{}, errs.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil || !u.IsActive {
		return model.Tokens{}, errs.ErrUnauthorized
	}
	access, err := s.issuer.Access(u)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{TokenType: token.TokenType, AccessToken: access}, nil
}

// Authenticate validates an access token and resolves the caller's account
// from the store. A signature-valid token for a deleted or deactivated
// account is rejected the same way as a malformed one, so write access ends
// the moment the account does, not when the token expires.
func (s *Auth) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.issuer.VerifyAccess(raw)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	id, err := uuid.FromString(claims.UserID)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	u, err := s.CurrentUser(ctx, id)
	if err != nil || u == nil || !u.IsActive {
		return nil, errs.ErrUnauthorized
	}
	return u, nil
}

// CurrentUser returns the caller's profile, served from cache when possible.
func (s *Auth) CurrentUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, err := s.cache.Get(ctx, id); err == nil && u != nil {
		return u, nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, u)
	return u, nil
}
