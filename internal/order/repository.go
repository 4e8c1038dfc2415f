package order

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
	// CreateOrderTx persists the order snapshot, decrements stock for every
	// line with a conditional update, and removes the snapshotted cart
	// lines, all in one transaction. Nothing commits if any line lacks
	// stock. Only the cart lines named in cartLineIDs are removed: a line
	// added concurrently after the snapshot stays in the cart.
	CreateOrderTx(ctx context.Context, o *Order, cartLineIDs []uint) error

	GetDetail(ctx context.Context, orderID uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint, limit, page *int32) ([]*Order, int64, error)
	ListAll(ctx context.Context, opts ListOptions) ([]*Order, int64, error)

	UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error
	MarkDelivered(ctx context.Context, orderID uint) error

	// CancelTx flips the order to CANCELLED and restores stock for its
	// lines in the same transaction. The status predicate guarantees the
	// restore applies at most once; restored is false when the order was
	// already cancelled.
	CancelTx(ctx context.Context, orderID uint) (restored bool, err error)

	UpdatePayment(ctx context.Context, orderID uint, isPaid bool) error

	// DeleteTx restores stock for non-cancelled orders, then removes the
	// order and its lines permanently.
	DeleteTx(ctx context.Context, orderID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, order_number, user_id, status, payment_method, notes,
	is_paid, paid_at, is_delivered, delivered_at,
	subtotal, shipping_cost, tax, total,
	ship_full_name, ship_phone, ship_address_line1, ship_address_line2,
	ship_city, ship_state, ship_postal_code, ship_country,
	created_at, updated_at
`

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, cartLineIDs []uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_number", o.OrderNumber),
		zap.Uint("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// 1. Reserve stock. The predicate makes the check-then-act atomic: two
	// concurrent checkouts for the last unit cannot both pass.
	for _, item := range o.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1,
			    in_stock = (stock_quantity - $1) > 0,
			    updated_at = NOW()
			WHERE id = $2 AND stock_quantity >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn("stock reservation failed",
				zap.Uint("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
			return insufficientStock(item.ProductName)
		}
	}

	// 2. Insert the order head.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, status, payment_method, notes, is_paid,
			subtotal, shipping_cost, tax, total,
			ship_full_name, ship_phone, ship_address_line1, ship_address_line2,
			ship_city, ship_state, ship_postal_code, ship_country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber, o.UserID, o.Status, o.PaymentMeth, o.Notes, o.IsPaid,
		o.Subtotal, o.ShippingCost, o.Tax, o.Total,
		o.ShippingAddr.FullName, o.ShippingAddr.Phone,
		o.ShippingAddr.AddressLine1, o.ShippingAddr.AddressLine2,
		o.ShippingAddr.City, o.ShippingAddr.State,
		o.ShippingAddr.PostalCode, o.ShippingAddr.Country,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return ErrOrderNumberTaken
		}
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// 3. Insert line snapshots.
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name, quantity, unit_price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			o.ID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Uint("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	// 4. Remove the snapshotted cart lines and recompute the cart total
	// from whatever survived. Deleting by line id, not by cart, keeps any
	// line added between the snapshot read and this transaction.
	lineIDs := make([]int64, 0, len(cartLineIDs))
	for _, id := range cartLineIDs {
		lineIDs = append(lineIDs, int64(id))
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE id = ANY($1)
	`, pq.Array(lineIDs))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE carts
		SET total_price = COALESCE(
		        (SELECT SUM(subtotal) FROM cart_items WHERE cart_id = carts.id), 0
		    ),
		    updated_at = NOW()
		WHERE user_id = $1
	`, o.UserID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order transaction committed", zap.Uint("order_id", o.ID))
	return nil
}

func (r *repository) GetDetail(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID,
	).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentMeth, &o.Notes,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
		&o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
		&o.ShippingAddr.FullName, &o.ShippingAddr.Phone,
		&o.ShippingAddr.AddressLine1, &o.ShippingAddr.AddressLine2,
		&o.ShippingAddr.City, &o.ShippingAddr.State,
		&o.ShippingAddr.PostalCode, &o.ShippingAddr.Country,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint, limit, page *int32) ([]*Order, int64, error) {
	finalLimit, offset := paginate(limit, page)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, finalLimit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	return orders, total, err
}

func (r *repository) ListAll(ctx context.Context, opts ListOptions) ([]*Order, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListAllOrders"),
	)

	finalLimit, offset := paginate(opts.Limit, opts.Page)

	where := "1=1"
	args := []any{}
	if opts.Status != nil && *opts.Status != "" {
		where = "status = $1"
		args = append(args, *opts.Status)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE `+where, args...,
	).Scan(&total); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where +
		` ORDER BY created_at DESC` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	log.Info("orders listed", zap.Int("count", len(orders)))
	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) MarkDelivered(ctx context.Context, orderID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    is_delivered = TRUE,
		    delivered_at = NOW(),
		    is_paid = TRUE,
		    paid_at = COALESCE(paid_at, NOW()),
		    updated_at = NOW()
		WHERE id = $2
	`, StatusDelivered, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) CancelTx(ctx context.Context, orderID uint) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CancelTx"),
		zap.Uint("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// The status predicate is the idempotency guard: a second cancellation
	// matches zero rows and never reaches the stock restore.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status <> $1
	`, StatusCancelled, orderID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID,
		).Scan(&exists); err != nil {
			return false, err
		}
		if !exists {
			return false, ErrOrderNotFound
		}
		log.Info("order already cancelled, stock restore skipped")
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock_quantity = p.stock_quantity + oi.quantity,
		    in_stock = TRUE,
		    updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND p.id = oi.product_id
	`, orderID)
	if err != nil {
		log.Error("failed to restore stock", zap.Error(err))
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	log.Info("order cancelled, stock restored")
	return true, nil
}

func (r *repository) UpdatePayment(ctx context.Context, orderID uint, isPaid bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = $1,
		    paid_at = CASE WHEN $1 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $2
	`, isPaid, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) DeleteTx(ctx context.Context, orderID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DeleteTx"),
		zap.Uint("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	// Cancelled orders already gave their stock back.
	if status != StatusCancelled {
		_, err = tx.ExecContext(ctx, `
			UPDATE products p
			SET stock_quantity = p.stock_quantity + oi.quantity,
			    in_stock = TRUE,
			    updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = $1 AND p.id = oi.product_id
		`, orderID)
		if err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1`, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("order deleted", zap.String("prior_status", string(status)))
	return nil
}

func paginate(limit, page *int32) (int32, int32) {
	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}

	return finalLimit, (finalPage - 1) * finalLimit
}

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentMeth, &o.Notes,
			&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
			&o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
			&o.ShippingAddr.FullName, &o.ShippingAddr.Phone,
			&o.ShippingAddr.AddressLine1, &o.ShippingAddr.AddressLine2,
			&o.ShippingAddr.City, &o.ShippingAddr.State,
			&o.ShippingAddr.PostalCode, &o.ShippingAddr.Country,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}
