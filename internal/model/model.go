// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Base holds the fields shared by every stored entity. IDs and creation
// timestamps are generated by the database; UpdatedAt stays nil until the
// first successful mutation.
type Base struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID returns the primary key.
func (b *Base) EntityID() uuid.UUID { return b.ID }

// User represents an account. Password holds the argon2id PHC string and is
// never serialized.
type User struct {
	Base
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	Password  string `db:"password" json:"-"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}

// Blog is an article owned by a user. AuthorID is always server-derived from
// the authenticated caller, never taken from the request body.
type Blog struct {
	Base
	Title    string    `db:"title" json:"title"`
	Content  string    `db:"content" json:"content"`
	AuthorID uuid.UUID `db:"author_id" json:"author_id"`
}

// Post is a short user-owned text entry.
type Post struct {
	Base
	Text   string    `db:"text" json:"text"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`
}

// Role is a named permission group.
type Role struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Tokens collects an issued access/refresh token pair.
type Tokens struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UserCreate carries caller-supplied fields for a new user, including the
// plaintext password before hashing.
type UserCreate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// User converts the input into a storable entity. IsActive defaults to true.
func (c UserCreate) User() *User {
	return &User{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Username:  c.Username,
		Email:     c.Email,
		Password:  c.Password,
		IsActive:  true,
	}
}

// BlogCreate carries caller-supplied fields for a new blog. The author is
// filled in by the service from the authenticated caller.
type BlogCreate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Blog converts the input into a storable entity owned by authorID.
func (c BlogCreate) Blog(authorID uuid.UUID) *Blog {
	return &Blog{Title: c.Title, Content: c.Content, AuthorID: authorID}
}

// PostCreate carries caller-supplied fields for a new post.
type PostCreate struct {
	Text string `json:"text"`
}

// Post converts the input into a storable entity owned by userID.
func (c PostCreate) Post(userID uuid.UUID) *Post {
	return &Post{Text: c.Text, UserID: userID}
}

// RoleCreate carries caller-supplied fields for a new role.
type RoleCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Role converts the input into a storable entity.
func (c RoleCreate) Role() *Role {
	return &Role{Name: c.Name, Description: c.Description}
}

// Patch types use pointer fields so that only fields present in the incoming
// payload are applied; nil means "omitted, leave untouched". Changes returns
// the column/value pairs to apply.

// UserPatch is a partial update for a user.
type UserPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	IsActive  *bool   `json:"is_active"`
}

// Changes returns the set fields keyed by column name.
func (p UserPatch) Changes() map[string]any {
	m := map[string]any{}
	if p.FirstName != nil {
		m["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		m["last_name"] = *p.LastName
	}
	if p.Username != nil {
		m["username"] = *p.Username
	}
	if p.Email != nil {
		m["email"] = *p.Email
	}
	if p.IsActive != nil {
		m["is_active"] = *p.IsActive
	}
	return m
}

// BlogPatch is a partial update for a blog.
type BlogPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Changes returns the set fields keyed by column name.
func (p BlogPatch) Changes() map[string]any {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Content != nil {
		m["content"] = *p.Content
	}
	return m
}

// PostPatch is a partial update for a post.
type PostPatch struct {
	Text *string `json:"text"`
}

// Changes returns the set fields keyed by column name.
func (p PostPatch) Changes() map[string]any {
	m := map[string]any{}
	if p.Text != nil {
		m["text"] = *p.Text
	}
	return m
}

// RolePatch is a partial update for a role.
type RolePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Changes returns the set fields keyed by column name.
func (p RolePatch) Changes() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	return m
}
