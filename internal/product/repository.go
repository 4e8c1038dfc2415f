package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const productColumns = `
	id, name, slug, description, price, discount, discounted_price,
	stock_quantity, is_featured, in_stock, is_new, created_at, updated_at
`

type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, int64, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id uint) error

	// DecrementStock applies an atomic conditional decrement; it fails with
	// ErrInsufficientStock when fewer than qty units remain.
	DecrementStock(ctx context.Context, id uint, qty int) error
	RestoreStock(ctx context.Context, id uint, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProduct"),
		zap.String("slug", p.Slug),
	)

	query := `
	INSERT INTO products (
		name, slug, description, price, discount, discounted_price,
		stock_quantity, is_featured, in_stock, is_new
	)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	RETURNING ` + productColumns

	row := r.db.QueryRowContext(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.Discount, p.DiscountedPrice,
		p.StockQuantity, p.IsFeatured, p.StockQuantity > 0, p.IsNew,
	)

	created, err := scanProduct(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return nil, ErrSlugTaken
		}
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", created.ID))
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	// ---------- pagination ----------
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

	// ---------- where ----------
	where := []string{"1=1"}
	args := []any{}

	if opts.Search != nil && *opts.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+*opts.Search+"%")
	}
	if opts.Featured != nil {
		where = append(where, fmt.Sprintf("is_featured = $%d", len(args)+1))
		args = append(args, *opts.Featured)
	}
	if opts.InStock != nil {
		if *opts.InStock {
			where = append(where, "stock_quantity > 0")
		} else {
			where = append(where, "stock_quantity = 0")
		}
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE `+whereClause, args...,
	).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + whereClause +
		` ORDER BY created_at DESC` +
		` LIMIT $` + fmt.Sprint(len(args)+1) +
		` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]*Product, 0, finalLimit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) Update(ctx context.Context, p *Product) (*Product, error) {
	query := `
	UPDATE products
	SET name = $1,
	    slug = $2,
	    description = $3,
	    price = $4,
	    discount = $5,
	    discounted_price = $6,
	    stock_quantity = $7,
	    is_featured = $8,
	    in_stock = $9,
	    is_new = $10,
	    updated_at = NOW()
	WHERE id = $11
	RETURNING ` + productColumns

	row := r.db.QueryRowContext(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.Discount, p.DiscountedPrice,
		p.StockQuantity, p.IsFeatured, p.StockQuantity > 0, p.IsNew, p.ID,
	)

	updated, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	var refs int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM order_items WHERE product_id = $1`, id,
	).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrProductReferenced
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) DecrementStock(ctx context.Context, id uint, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1,
		    in_stock = (stock_quantity - $1) > 0,
		    updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1
	`, qty, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repository) RestoreStock(ctx context.Context, id uint, qty int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1,
		    in_stock = TRUE,
		    updated_at = NOW()
		WHERE id = $2
	`, qty, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Discount,
		&p.DiscountedPrice, &p.StockQuantity, &p.IsFeatured, &p.InStock,
		&p.IsNew, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
