package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	GetByID(ctx context.Context, id uint) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, int64, error)
	Update(ctx context.Context, p *Post) (*Post, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const postColumns = `
	b.id, b.title, b.slug, b.content, b.author_id, u.full_name,
	b.created_at, b.updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner, p *Post) error {
	return row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.AuthorID, &p.AuthorName,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *repository) Create(ctx context.Context, p *Post) (*Post, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateBlogPost"),
		zap.String("slug", p.Slug),
	)

	query := `
	INSERT INTO blog_posts (title, slug, content, author_id)
	VALUES ($1, $2, $3, $4)
	RETURNING id, title, slug, content, author_id,
	          (SELECT full_name FROM users WHERE id = author_id),
	          created_at, updated_at`

	var created Post
	err := scanPost(r.db.QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Content, p.AuthorID,
	), &created)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return nil, ErrTitleTaken
		}
		log.Error("failed to create blog post", zap.Error(err))
		return nil, err
	}

	log.Info("blog post created", zap.Uint("post_id", created.ID))
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Post, error) {
	var p Post
	err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM blog_posts b JOIN users u ON u.id = b.author_id
		 WHERE b.id = $1`, id,
	), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	var p Post
	err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM blog_posts b JOIN users u ON u.id = b.author_id
		 WHERE b.slug = $1`, slug,
	), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// sortColumn whitelists user-supplied sort fields; column names cannot be
// bound as query parameters.
func sortColumn(opts ListOptions) string {
	col := "b.created_at"
	switch opts.SortBy {
	case "id":
		col = "b.id"
	case "title":
		col = "b.title"
	}

	dir := "DESC"
	if opts.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Post, int64, error) {
	finalLimit := int32(20)
	if opts.Limit != nil && *opts.Limit > 0 {
		finalLimit = *opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if opts.Page != nil && *opts.Page > 0 {
		finalPage = *opts.Page
	}
	offset := (finalPage - 1) * finalLimit

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT `+postColumns+`
		 FROM blog_posts b JOIN users u ON u.id = b.author_id
		 ORDER BY %s
		 LIMIT $1 OFFSET $2`, sortColumn(opts))

	rows, err := r.db.QueryContext(ctx, query, finalLimit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var p Post
		if err := scanPost(rows, &p); err != nil {
			return nil, 0, err
		}
		posts = append(posts, &p)
	}

	return posts, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, p *Post) (*Post, error) {
	query := `
	UPDATE blog_posts
	SET title = $1, slug = $2, content = $3, updated_at = NOW()
	WHERE id = $4
	RETURNING id, title, slug, content, author_id,
	          (SELECT full_name FROM users WHERE id = author_id),
	          created_at, updated_at`

	var updated Post
	err := scanPost(r.db.QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Content, p.ID,
	), &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return nil, ErrTitleTaken
		}
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
