package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellhq/inkwell/internal/server/domain"
	"github.com/inkwellhq/inkwell/internal/server/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, fullname, email, username, password_hash, google_auth,
	profile_img, total_posts, total_reads, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Fullname,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.GoogleAuth,
		&u.ProfileImg,
		&u.TotalPosts,
		&u.TotalReads,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	now := nowUTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, fullname, email, username, password_hash, google_auth,
			profile_img, total_posts, total_reads, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Fullname, u.Email, u.Username, u.PasswordHash, u.GoogleAuth,
		u.ProfileImg, u.TotalPosts, u.TotalReads, u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC
		 LIMIT ?`,
		"%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IncrementTotalPosts(ctx context.Context, userID string, delta int64) error {
	return r.increment(ctx, "total_posts", userID, delta)
}

func (r *usersRepo) IncrementTotalReads(ctx context.Context, userID string, delta int64) error {
	return r.increment(ctx, "total_reads", userID, delta)
}

func (r *usersRepo) increment(ctx context.Context, column, userID string, delta int64) error {
	// column is one of two fixed names, never user input.
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET `+column+` = `+column+` + ?, updated_at = ? WHERE id = ?`,
		delta, nowUTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
