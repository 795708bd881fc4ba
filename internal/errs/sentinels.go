// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrForeignKey indicates a foreign key violation (referenced row missing).
	ErrForeignKey = errors.New("referenced record does not exist")

	// ErrInvalidColumn indicates an order/search/patch column name outside the
	// entity's field set.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrInvalidPage indicates a page number below 1 combined with a positive limit.
	ErrInvalidPage = errors.New("invalid page")

	// ErrUnauthorized indicates failed authentication. Unknown identifier, wrong
	// password, inactive account and bad tokens all map here so callers cannot
	// enumerate accounts.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
