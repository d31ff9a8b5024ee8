package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/inkwellhq/inkwell/internal/server/domain"
	"github.com/inkwellhq/inkwell/internal/server/store"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

var (
	ErrTitleRequired       = errors.New("you must provide a title")
	ErrDescriptionInvalid  = errors.New("you must provide a description under 200 characters")
	ErrBannerRequired      = errors.New("you must provide a blog banner to publish it")
	ErrContentRequired     = errors.New("there must be some blog content to publish it")
	ErrTagsInvalid         = errors.New("provide 1 to 10 tags to publish the blog")
	ErrBlogNotFound        = errors.New("blog not found")
	ErrNotBlogAuthor       = errors.New("you are not the author of this blog")
	ErrUserNotFound        = errors.New("user not found")
	ErrSearchQueryRequired = errors.New("you must provide a search tag or query")
)

const (
	maxDescriptionLen = 200
	maxTags           = 10

	latestPageSize   = 5
	trendingLimit    = 5
	searchPageSize   = 5
	userSearchLimit  = 50
	slugSuffixLength = 10
)

// BlogInput carries the editable fields of a post. A non-empty Slug targets
// an existing blog; an empty one creates a new blog.
type BlogInput struct {
	Slug        string
	Title       string
	Banner      string
	Description string
	Content     string
	Tags        []string
	Draft       bool
}

type BlogService struct {
	Store store.Store
}

// Publish creates or updates a blog for authorID. Publishing a new post (or
// a draft for the first time) increments the author's total_posts counter in
// the same transaction as the write.
func (s *BlogService) Publish(ctx context.Context, authorID string, in BlogInput) (domain.Blog, error) {
	log := slogx.FromContext(ctx)

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Blog{}, ErrTitleRequired
	}

	in.Tags = normalizeTags(in.Tags)

	if !in.Draft {
		if d := strings.TrimSpace(in.Description); d == "" || len([]rune(d)) > maxDescriptionLen {
			return domain.Blog{}, ErrDescriptionInvalid
		}
		if strings.TrimSpace(in.Banner) == "" {
			return domain.Blog{}, ErrBannerRequired
		}
		if strings.TrimSpace(in.Content) == "" {
			return domain.Blog{}, ErrContentRequired
		}
		if len(in.Tags) == 0 || len(in.Tags) > maxTags {
			return domain.Blog{}, ErrTagsInvalid
		}
	}

	if in.Slug != "" {
		return s.update(ctx, authorID, in)
	}

	suffix, err := randomSuffix(slugSuffixLength)
	if err != nil {
		return domain.Blog{}, err
	}

	base := slugify(in.Title)
	if base == "" {
		// Titles with no ASCII letters or digits still need a slug.
		base = "blog"
	}

	blog := domain.Blog{
		ID:          idx.New().String(),
		Slug:        base + "-" + suffix,
		Title:       in.Title,
		Banner:      in.Banner,
		Description: in.Description,
		Content:     in.Content,
		Tags:        in.Tags,
		Draft:       in.Draft,
		AuthorID:    authorID,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Blogs().Create(ctx, blog); err != nil {
			return err
		}
		if !blog.Draft {
			return tx.Users().IncrementTotalPosts(ctx, authorID, 1)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create blog", slog.Any("error", err))
		return domain.Blog{}, err
	}

	log.Info("blog created",
		slog.String("blog_id", blog.ID),
		slog.String("slug", blog.Slug),
		slog.Bool("draft", blog.Draft),
	)

	return blog, nil
}

func (s *BlogService) update(ctx context.Context, authorID string, in BlogInput) (domain.Blog, error) {
	log := slogx.FromContext(ctx)

	existing, err := s.Store.Blogs().GetBySlug(ctx, in.Slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Blog{}, ErrBlogNotFound
		}
		return domain.Blog{}, err
	}
	if existing.AuthorID != authorID {
		return domain.Blog{}, ErrNotBlogAuthor
	}

	updated := existing
	updated.Title = in.Title
	updated.Banner = in.Banner
	updated.Description = in.Description
	updated.Content = in.Content
	updated.Tags = in.Tags
	updated.Draft = in.Draft

	firstPublish := existing.Draft && !in.Draft

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Blogs().Update(ctx, updated); err != nil {
			return err
		}
		if firstPublish {
			return tx.Users().IncrementTotalPosts(ctx, authorID, 1)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to update blog", slog.Any("error", err))
		return domain.Blog{}, err
	}

	log.Info("blog updated", slog.String("slug", updated.Slug), slog.Bool("draft", updated.Draft))

	return updated, nil
}

// Get fetches a blog by slug. Drafts are visible only to their author.
// A plain read (not forEdit) of a published blog bumps the blog's read
// counter and the author's aggregate read counter atomically.
func (s *BlogService) Get(ctx context.Context, slug, requesterID string, forEdit bool) (domain.Blog, error) {
	log := slogx.FromContext(ctx)

	blog, err := s.Store.Blogs().GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Blog{}, ErrBlogNotFound
		}
		return domain.Blog{}, err
	}

	if blog.Draft && blog.AuthorID != requesterID {
		// Do not reveal that the draft exists.
		return domain.Blog{}, ErrBlogNotFound
	}

	if forEdit || blog.Draft {
		return blog, nil
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Blogs().IncrementReads(ctx, slug, 1); err != nil {
			return err
		}
		return tx.Users().IncrementTotalReads(ctx, blog.AuthorID, 1)
	})
	if err != nil {
		log.Error("failed to increment read counters", slog.Any("error", err))
		return domain.Blog{}, err
	}
	blog.Activity.TotalReads++

	return blog, nil
}

// Latest returns one page of the newest published blogs.
func (s *BlogService) Latest(ctx context.Context, page int) ([]domain.Blog, error) {
	return s.Store.Blogs().Latest(ctx, page, latestPageSize)
}

// CountLatest is the total for the latest-feed pager.
func (s *BlogService) CountLatest(ctx context.Context) (int64, error) {
	return s.Store.Blogs().CountPublished(ctx)
}

// Trending returns the most-read published blogs.
func (s *BlogService) Trending(ctx context.Context) ([]domain.Blog, error) {
	return s.Store.Blogs().Trending(ctx, trendingLimit)
}

// SearchRequest narrows the published set by tag, free-text query, or
// author username, optionally excluding one slug.
type SearchRequest struct {
	Tag         string
	Query       string
	Author      string // username, resolved to an ID before the store call
	ExcludeSlug string
	Drafts      bool   // author's own drafts; requires Author
	RequesterID string // authenticated user, for the drafts guard
	Page        int
	Limit       int
}

func (s *BlogService) toStoreSearch(ctx context.Context, req SearchRequest) (store.BlogSearch, error) {
	q := store.BlogSearch{
		Tag:         strings.ToLower(strings.TrimSpace(req.Tag)),
		Query:       strings.TrimSpace(req.Query),
		ExcludeSlug: req.ExcludeSlug,
		Drafts:      req.Drafts,
		Page:        req.Page,
		Limit:       req.Limit,
	}
	if q.Limit <= 0 {
		q.Limit = searchPageSize
	}

	if req.Author != "" {
		author, err := s.Store.Users().GetByUsername(ctx, req.Author)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.BlogSearch{}, ErrUserNotFound
			}
			return store.BlogSearch{}, err
		}
		q.AuthorID = author.ID
	} else if q.Tag == "" && q.Query == "" {
		return store.BlogSearch{}, ErrSearchQueryRequired
	}

	// Drafts are private to their author.
	if req.Drafts && (q.AuthorID == "" || q.AuthorID != req.RequesterID) {
		return store.BlogSearch{}, ErrNotBlogAuthor
	}

	return q, nil
}

// Search returns one page of blogs matching req.
func (s *BlogService) Search(ctx context.Context, req SearchRequest) ([]domain.Blog, error) {
	q, err := s.toStoreSearch(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Store.Blogs().Search(ctx, q)
}

// CountSearch is the total for a search pager.
func (s *BlogService) CountSearch(ctx context.Context, req SearchRequest) (int64, error) {
	q, err := s.toStoreSearch(ctx, req)
	if err != nil {
		return 0, err
	}
	return s.Store.Blogs().CountSearch(ctx, q)
}

// SearchUsers matches usernames by substring.
func (s *BlogService) SearchUsers(ctx context.Context, query string) ([]domain.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}

	users, err := s.Store.Users().Search(ctx, query, userSearchLimit)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.PublicProfile())
	}
	return profiles, nil
}

// Profile returns the public profile for a username.
func (s *BlogService) Profile(ctx context.Context, username string) (domain.Profile, error) {
	user, err := s.Store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, err
	}
	return user.PublicProfile(), nil
}

// normalizeTags lowercases, trims, and deduplicates while keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// slugify reduces a title to a URL-safe ASCII slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
