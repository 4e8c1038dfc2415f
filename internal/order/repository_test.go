package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"organicstore-be/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "order_number", "user_id", "status", "payment_method", "notes",
	"is_paid", "paid_at", "is_delivered", "delivered_at",
	"subtotal", "shipping_cost", "tax", "total",
	"ship_full_name", "ship_phone", "ship_address_line1", "ship_address_line2",
	"ship_city", "ship_state", "ship_postal_code", "ship_country",
	"created_at", "updated_at",
}

func orderRow(id uint, status OrderStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderRowColumns).AddRow(
		id, "ORD-ABCD1234", 1, status, "transfer", "",
		false, nil, false, nil,
		"200.00", "30000.00", "20.00", "30220.00",
		"Jane Doe", "", "Jl. Merdeka 1", "",
		"Jakarta", "", "", "",
		now, now,
	)
}

func testOrder() *Order {
	return &Order{
		OrderNumber: "ORD-ABCD1234",
		UserID:      1,
		Status:      StatusPending,
		PaymentMeth: "transfer",
		Subtotal:    decimal.NewFromInt(200),
		Tax:         decimal.NewFromInt(20),
		Total:       decimal.NewFromInt(30220),
		ShippingAddr: ShippingAddress{
			FullName:     "Jane Doe",
			AddressLine1: "Jl. Merdeka 1",
			City:         "Jakarta",
		},
		Items: []OrderItem{
			{ProductID: 2, ProductName: "Organic Honey", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(200)},
		},
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()

		mock.ExpectBegin()
		// The stock_quantity >= $1 predicate is the whole concurrency
		// story: two simultaneous checkouts for the last unit race on
		// this row, and the loser matches zero rows instead of driving
		// stock negative.
		mock.ExpectExec(`(?s)UPDATE products\s+SET stock_quantity = stock_quantity - \$1.*WHERE id = \$2 AND stock_quantity >= \$1`).
			WithArgs(2, uint(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`(?s)INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(7, time.Now(), time.Now()))
		mock.ExpectQuery(`(?s)INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(70))
		mock.ExpectExec(`(?s)DELETE FROM cart_items WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array([]int64{10})).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`(?s)UPDATE carts\s+SET total_price = COALESCE`).
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateOrderTx(ctx, o, []uint{10}))
		assert.Equal(t, uint(7), o.ID)
		assert.Equal(t, uint(70), o.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ClearsOnlySnapshottedCartLines", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE products\s+SET stock_quantity = stock_quantity - \$1`).
			WithArgs(2, uint(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`(?s)INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(8, time.Now(), time.Now()))
		mock.ExpectQuery(`(?s)INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(80))
		// A line added to the cart concurrently with checkout has an id
		// outside this list and must survive; the delete targets ids, not
		// the whole cart, and the cart total is recomputed from what is
		// left rather than forced to zero.
		mock.ExpectExec(`(?s)DELETE FROM cart_items WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array([]int64{10, 11})).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`(?s)UPDATE carts\s+SET total_price = COALESCE\(\s+\(SELECT SUM\(subtotal\) FROM cart_items WHERE cart_id = carts\.id\), 0`).
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateOrderTx(ctx, o, []uint{10, 11}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStockAbortsEverything", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()

		mock.ExpectBegin()
		// Zero rows affected: fewer units remain than requested.
		mock.ExpectExec(`(?s)UPDATE products\s+SET stock_quantity = stock_quantity - \$1`).
			WithArgs(2, uint(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.CreateOrderTx(ctx, o, []uint{10})
		assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Organic Honey")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OrderNumberCollision", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE products\s+SET stock_quantity = stock_quantity - \$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`(?s)INSERT INTO orders`).
			WillReturnError(&pq.Error{Code: pq.ErrorCode(apperr.PgUniqueViolation)})
		mock.ExpectRollback()

		err = repo.CreateOrderTx(ctx, o, []uint{10})
		assert.ErrorIs(t, err, ErrOrderNumberTaken)
	})
}

func TestRepository_GetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(uint(7)).
			WillReturnRows(orderRow(7, StatusPending))
		mock.ExpectQuery(`(?s)SELECT id, order_id, product_id.* FROM order_items`).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "subtotal",
			}).AddRow(70, 7, 2, "Organic Honey", 2, "100.00", "200.00"))

		o, err := repo.GetDetail(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "ORD-ABCD1234", o.OrderNumber)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Organic Honey", o.Items[0].ProductName)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err = repo.GetDetail(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("StatusFilter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		status := "PENDING"

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE status = \$1`).
			WithArgs(status).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`(?s)SELECT .* FROM orders WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(status, int32(20), int32(0)).
			WillReturnRows(orderRow(7, StatusPending))

		orders, total, err := repo.ListAll(ctx, ListOptions{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, orders, 1)
	})

	t.Run("CountError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("db error"))

		_, _, err = repo.ListAll(ctx, ListOptions{})
		assert.Error(t, err)
	})
}

func TestRepository_MarkDelivered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	// Delivery also settles payment, keeping any earlier paid_at.
	mock.ExpectExec(`(?s)UPDATE orders\s+SET status = \$1,\s+is_delivered = TRUE,\s+delivered_at = NOW\(\),\s+is_paid = TRUE,\s+paid_at = COALESCE\(paid_at, NOW\(\)\)`).
		WithArgs(StatusDelivered, uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkDelivered(context.Background(), 7))
}

func TestRepository_CancelTx(t *testing.T) {
	ctx := context.Background()

	t.Run("RestoresStock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE orders\s+SET status = \$1.*WHERE id = \$2 AND status <> \$1`).
			WithArgs(StatusCancelled, uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`(?s)UPDATE products p\s+SET stock_quantity = p\.stock_quantity \+ oi\.quantity`).
			WithArgs(uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		restored, err := repo.CancelTx(ctx, 7)
		require.NoError(t, err)
		assert.True(t, restored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondCancelSkipsRestore", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE orders\s+SET status = \$1.*WHERE id = \$2 AND status <> \$1`).
			WithArgs(StatusCancelled, uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectCommit()

		restored, err := repo.CancelTx(ctx, 7)
		require.NoError(t, err)
		assert.False(t, restored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE orders\s+SET status = \$1`).
			WithArgs(StatusCancelled, uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err = repo.CancelTx(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_DeleteTx(t *testing.T) {
	ctx := context.Background()

	t.Run("RestoresStockForActiveOrder", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
		mock.ExpectExec(`(?s)UPDATE products p\s+SET stock_quantity = p\.stock_quantity \+ oi\.quantity`).
			WithArgs(uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM order_items`).
			WithArgs(uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM orders`).
			WithArgs(uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteTx(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SkipsRestoreForCancelledOrder", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR UPDATE`).
			WithArgs(uint(8)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CANCELLED"))
		mock.ExpectExec(`DELETE FROM order_items`).
			WithArgs(uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM orders`).
			WithArgs(uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteTx(ctx, 8))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdatePayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(`(?s)UPDATE orders\s+SET is_paid = \$1`).
		WithArgs(true, uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePayment(context.Background(), 7, true))
}
