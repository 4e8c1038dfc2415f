package cart

import (
	"context"
	"database/sql"
	"errors"

	"organicstore-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	// GetOrCreate returns the user's cart with its lines, creating an empty
	// cart on first access.
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)
	GetItemByID(ctx context.Context, itemID uint) (*CartItem, error)

	// The mutating operations recompute the materialized cart total inside
	// the same transaction as the line change.
	UpsertItem(ctx context.Context, params upsertItemParams) (*Cart, error)
	UpdateItem(ctx context.Context, itemID uint, quantity int, unitPrice decimal.Decimal) (*Cart, error)
	RemoveItem(ctx context.Context, itemID, cartID uint) (*Cart, error)
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.QueryRowContext(ctx, `
			INSERT INTO carts (user_id, total_price)
			VALUES ($1, 0)
			ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
			RETURNING id, user_id, total_price, created_at, updated_at
		`, userID).Scan(&c.ID, &c.UserID, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, r.db, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items

	return &c, nil
}

func (r *repository) GetItemByID(ctx context.Context, itemID uint) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.slug,
		       ci.quantity, ci.unit_price, ci.subtotal, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1
	`, itemID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.ProductSlug,
		&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) UpsertItem(ctx context.Context, params upsertItemParams) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.Uint("cart_id", params.CartID),
		zap.Uint("product_id", params.ProductID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	subtotal := params.UnitPrice.Mul(decimal.NewFromInt(int64(params.Quantity)))

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    unit_price = EXCLUDED.unit_price,
		    subtotal = EXCLUDED.subtotal,
		    updated_at = NOW()
	`, params.CartID, params.ProductID, params.Quantity, params.UnitPrice, subtotal)
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	if err := recomputeTotal(ctx, tx, params.CartID); err != nil {
		log.Error("failed to recompute cart total", zap.Error(err))
		return nil, err
	}

	c, err := r.loadCart(ctx, tx, params.CartID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("cart item upserted", zap.Int("quantity", params.Quantity))
	return c, nil
}

func (r *repository) UpdateItem(ctx context.Context, itemID uint, quantity int, unitPrice decimal.Decimal) (*Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	var cartID uint
	err = tx.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $1,
		    unit_price = $2,
		    subtotal = $3,
		    updated_at = NOW()
		WHERE id = $4
		RETURNING cart_id
	`, quantity, unitPrice, subtotal, itemID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return nil, err
	}

	c, err := r.loadCart(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}

	return c, tx.Commit()
}

func (r *repository) RemoveItem(ctx context.Context, itemID, cartID uint) (*Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCartItemNotFound
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return nil, err
	}

	c, err := r.loadCart(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}

	return c, tx.Commit()
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)
	`, userID)
	if err != nil {
		return err
	}

	// No-op when the user has no cart yet.
	_, err = tx.ExecContext(ctx, `
		UPDATE carts SET total_price = 0, updated_at = NOW() WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func recomputeTotal(ctx context.Context, q execQuerier, cartID uint) error {
	_, err := q.ExecContext(ctx, `
		UPDATE carts
		SET total_price = COALESCE(
			(SELECT SUM(subtotal) FROM cart_items WHERE cart_id = $1), 0),
		    updated_at = NOW()
		WHERE id = $1
	`, cartID)
	return err
}

func (r *repository) loadCart(ctx context.Context, q execQuerier, cartID uint) (*Cart, error) {
	var c Cart
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, created_at, updated_at
		FROM carts
		WHERE id = $1
	`, cartID).Scan(&c.ID, &c.UserID, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	c.Items = items

	return &c, nil
}

func (r *repository) loadItems(ctx context.Context, q execQuerier, cartID uint) ([]CartItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.slug,
		       ci.quantity, ci.unit_price, ci.subtotal, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]CartItem, 0)
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.ProductSlug,
			&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
