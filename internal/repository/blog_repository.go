package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/one-blood/donation-service/internal/domain"
)

// BlogRepository encapsulates blog persistence.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error)
	UpdateStatus(ctx context.Context, id string, status domain.BlogStatus) error
	Delete(ctx context.Context, id string) error
}

type blogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository returns a Postgres-backed implementation.
func NewBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &blogRepository{pool: pool}
}

const blogColumns = `id, title, thumbnail, content, author_email, status, created_at, updated_at`

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	const query = `
        INSERT INTO blogs (title, thumbnail, content, author_email, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		blog.Title,
		blog.Thumbnail,
		blog.Content,
		blog.AuthorEmail,
		blog.Status,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id=$1`

	var blog domain.Blog
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&blog.ID,
		&blog.Title,
		&blog.Thumbnail,
		&blog.Content,
		&blog.AuthorEmail,
		&blog.Status,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`
	args := []any{}
	if status != nil {
		query = `SELECT ` + blogColumns + ` FROM blogs WHERE status=$1 ORDER BY created_at DESC`
		args = append(args, *status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Blog
	for rows.Next() {
		var blog domain.Blog
		if err := rows.Scan(
			&blog.ID,
			&blog.Title,
			&blog.Thumbnail,
			&blog.Content,
			&blog.AuthorEmail,
			&blog.Status,
			&blog.CreatedAt,
			&blog.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, blog)
	}
	return result, rows.Err()
}

func (r *blogRepository) UpdateStatus(ctx context.Context, id string, status domain.BlogStatus) error {
	const query = `UPDATE blogs SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
