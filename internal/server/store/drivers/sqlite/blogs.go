package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwellhq/inkwell/internal/server/domain"
	"github.com/inkwellhq/inkwell/internal/server/store"
)

type blogsRepo struct {
	q querier
}

// Blog reads join the author's public fields so feeds and single-post pages
// can render cards without a second query.
const blogColumns = `b.id, b.slug, b.title, b.banner, b.description, b.content,
	b.tags, b.draft, b.author_id,
	b.total_likes, b.total_comments, b.total_reads, b.total_parent_comments,
	b.created_at, b.updated_at,
	u.fullname, u.username, u.profile_img`

const blogFrom = ` FROM blogs b JOIN users u ON u.id = b.author_id `

func scanBlog(row interface{ Scan(dest ...any) error }) (domain.Blog, error) {
	var b domain.Blog
	var tags string
	err := row.Scan(
		&b.ID,
		&b.Slug,
		&b.Title,
		&b.Banner,
		&b.Description,
		&b.Content,
		&tags,
		&b.Draft,
		&b.AuthorID,
		&b.Activity.TotalLikes,
		&b.Activity.TotalComments,
		&b.Activity.TotalReads,
		&b.Activity.TotalParentComments,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Author.Fullname,
		&b.Author.Username,
		&b.Author.ProfileImg,
	)
	if err != nil {
		return domain.Blog{}, err
	}
	if err := json.Unmarshal([]byte(tags), &b.Tags); err != nil {
		return domain.Blog{}, fmt.Errorf("sqlite: decode tags for blog %s: %w", b.ID, err)
	}
	return b, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *blogsRepo) Create(ctx context.Context, b domain.Blog) error {
	tags, err := encodeTags(b.Tags)
	if err != nil {
		return err
	}

	now := nowUTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO blogs (
			id, slug, title, banner, description, content, tags, draft, author_id,
			total_likes, total_comments, total_reads, total_parent_comments,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Slug, b.Title, b.Banner, b.Description, b.Content, tags, b.Draft,
		b.AuthorID,
		b.Activity.TotalLikes, b.Activity.TotalComments, b.Activity.TotalReads,
		b.Activity.TotalParentComments,
		b.CreatedAt, b.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *blogsRepo) Update(ctx context.Context, b domain.Blog) error {
	tags, err := encodeTags(b.Tags)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE blogs
		SET title = ?, banner = ?, description = ?, content = ?, tags = ?,
			draft = ?, updated_at = ?
		WHERE slug = ?`,
		b.Title, b.Banner, b.Description, b.Content, tags, b.Draft, nowUTC(),
		b.Slug,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *blogsRepo) GetBySlug(ctx context.Context, slug string) (domain.Blog, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+blogColumns+blogFrom+`WHERE b.slug = ?`, slug)
	b, err := scanBlog(row)
	if err != nil {
		return domain.Blog{}, mapNotFound(err)
	}
	return b, nil
}

func (r *blogsRepo) Latest(ctx context.Context, page, limit int) ([]domain.Blog, error) {
	if page < 1 {
		page = 1
	}
	return r.list(ctx,
		`SELECT `+blogColumns+blogFrom+`
		 WHERE b.draft = 0
		 ORDER BY b.created_at DESC
		 LIMIT ? OFFSET ?`,
		limit, (page-1)*limit)
}

func (r *blogsRepo) Trending(ctx context.Context, limit int) ([]domain.Blog, error) {
	return r.list(ctx,
		`SELECT `+blogColumns+blogFrom+`
		 WHERE b.draft = 0
		 ORDER BY b.total_reads DESC, b.total_likes DESC, b.created_at DESC
		 LIMIT ?`,
		limit)
}

func (r *blogsRepo) Search(ctx context.Context, q store.BlogSearch) ([]domain.Blog, error) {
	where, args := searchClauses(q)

	if q.Page < 1 {
		q.Page = 1
	}
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	return r.list(ctx,
		`SELECT `+blogColumns+blogFrom+`
		 WHERE `+where+`
		 ORDER BY b.created_at DESC
		 LIMIT ? OFFSET ?`,
		args...)
}

func (r *blogsRepo) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blogs WHERE draft = 0`).Scan(&n)
	return n, err
}

func (r *blogsRepo) CountSearch(ctx context.Context, q store.BlogSearch) (int64, error) {
	where, args := searchClauses(q)

	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blogs b WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *blogsRepo) IncrementReads(ctx context.Context, slug string, delta int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE blogs SET total_reads = total_reads + ? WHERE slug = ?`,
		delta, slug)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// searchClauses builds the WHERE expression shared by Search and CountSearch.
func searchClauses(q store.BlogSearch) (string, []any) {
	clauses := []string{"b.draft = ?"}
	args := []any{q.Drafts}

	if q.Tag != "" {
		// Tags are stored as a JSON array; an exact element match is a
		// substring match on the quoted value.
		clauses = append(clauses, `b.tags LIKE ? ESCAPE '\'`)
		args = append(args, `%"`+escapeLike(q.Tag)+`"%`)
	}
	if q.Query != "" {
		clauses = append(clauses, `(b.title LIKE ? ESCAPE '\' OR b.description LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(q.Query) + "%"
		args = append(args, pattern, pattern)
	}
	if q.AuthorID != "" {
		clauses = append(clauses, "b.author_id = ?")
		args = append(args, q.AuthorID)
	}
	if q.ExcludeSlug != "" {
		clauses = append(clauses, "b.slug != ?")
		args = append(args, q.ExcludeSlug)
	}

	return strings.Join(clauses, " AND "), args
}

func (r *blogsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Blog, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}
