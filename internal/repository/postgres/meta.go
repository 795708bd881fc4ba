package postgres

import (
	"strings"

	"github.com/and161185/blogd/internal/model"
)

// Meta describes how one entity type maps onto its table. It is the single
// allow-list consulted for dynamic column names (ordering, search, patches).
type Meta[T any] struct {
	// Table is the table name.
	Table string
	// Columns are all selectable columns, in SELECT order. Includes id,
	// created_at and updated_at.
	Columns []string
	// Insert are the caller-owned columns written on create. Patches may only
	// touch these; id and timestamps stay repository-managed.
	Insert []string
	// Values extracts the Insert column values from a record.
	Values func(*T) []any
}

func (m Meta[T]) hasColumn(name string) bool {
	for _, c := range m.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (m Meta[T]) patchable(name string) bool {
	for _, c := range m.Insert {
		if c == name {
			return true
		}
	}
	return false
}

func (m Meta[T]) selectList() string { return strings.Join(m.Columns, ", ") }

func withBase(cols ...string) []string {
	out := []string{"id"}
	out = append(out, cols...)
	return append(out, "created_at", "updated_at")
}

// Users maps model.User onto the users table.
func Users() Meta[model.User] {
	return Meta[model.User]{
		Table:   "users",
		Columns: withBase("first_name", "last_name", "username", "email", "password", "is_active"),
		Insert:  []string{"first_name", "last_name", "username", "email", "password", "is_active"},
		Values: func(u *model.User) []any {
			return []any{u.FirstName, u.LastName, u.Username, u.Email, u.Password, u.IsActive}
		},
	}
}

// Blogs maps model.Blog onto the blogs table.
func Blogs() Meta[model.Blog] {
	return Meta[model.Blog]{
		Table:   "blogs",
		Columns: withBase("title", "content", "author_id"),
		Insert:  []string{"title", "content", "author_id"},
		Values: func(b *model.Blog) []any {
			return []any{b.Title, b.Content, b.AuthorID}
		},
	}
}

// Posts maps model.Post onto the posts table.
func Posts() Meta[model.Post] {
	return Meta[model.Post]{
		Table:   "posts",
		Columns: withBase("text", "user_id"),
		Insert:  []string{"text", "user_id"},
		Values: func(p *model.Post) []any {
			return []any{p.Text, p.UserID}
		},
	}
}

// Roles maps model.Role onto the roles table.
func Roles() Meta[model.Role] {
	return Meta[model.Role]{
		Table:   "roles",
		Columns: withBase("name", "description"),
		Insert:  []string{"name", "description"},
		Values: func(r *model.Role) []any {
			return []any{r.Name, r.Description}
		},
	}
}
