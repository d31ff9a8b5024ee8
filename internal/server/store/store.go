package store

import (
	"context"
	"errors"

	"github.com/inkwellhq/inkwell/internal/server/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is the store's unique-index rejection. It is the
	// authoritative conflict signal: concurrent requests may both pass a
	// "not found" pre-check, and only the losing write sees this error.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement it and expose sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Blogs() Blogs

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the store's repositories.
type Tx interface {
	Users() Users
	Blogs() Blogs
}

type Users interface {
	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail is the signup/signin lookup.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByUsername backs the public profile endpoint.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameExists is the allocator's collision probe.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// Create inserts a new user (id provided by the app via ULID).
	// Duplicate email or username surfaces as ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) error

	// Search matches usernames by substring, newest accounts first.
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)

	// IncrementTotalPosts atomically adjusts the authored-post counter.
	IncrementTotalPosts(ctx context.Context, userID string, delta int64) error

	// IncrementTotalReads atomically adjusts the received-reads counter.
	IncrementTotalReads(ctx context.Context, userID string, delta int64) error
}

// BlogSearch describes a discovery query over published blogs. Zero fields
// are ignored; Tag and Query are mutually exclusive in practice but the
// store treats them as independent filters.
type BlogSearch struct {
	Tag         string // exact tag match
	Query       string // substring match on title or description
	AuthorID    string // restrict to one author
	ExcludeSlug string // drop one blog (the "similar blogs" case)
	Drafts      bool   // include drafts instead of published posts
	Page        int    // 1-based
	Limit       int
}

type Blogs interface {
	// Create inserts a new blog. Duplicate slug surfaces as ErrAlreadyExists.
	Create(ctx context.Context, b domain.Blog) error

	// Update replaces the editable fields of the blog with b.Slug,
	// preserving id, author, activity, and created_at.
	Update(ctx context.Context, b domain.Blog) error

	// GetBySlug returns a blog with its author fields populated.
	GetBySlug(ctx context.Context, slug string) (domain.Blog, error)

	// Latest returns published blogs, newest first.
	Latest(ctx context.Context, page, limit int) ([]domain.Blog, error)

	// Trending returns published blogs by reads, then likes, then recency.
	Trending(ctx context.Context, limit int) ([]domain.Blog, error)

	// Search applies q over blogs, newest first.
	Search(ctx context.Context, q BlogSearch) ([]domain.Blog, error)

	// CountPublished is the total for the latest-feed pager.
	CountPublished(ctx context.Context) (int64, error)

	// CountSearch is the total for a search pager.
	CountSearch(ctx context.Context, q BlogSearch) (int64, error)

	// IncrementReads atomically bumps the blog's read counter.
	IncrementReads(ctx context.Context, slug string, delta int64) error
}
