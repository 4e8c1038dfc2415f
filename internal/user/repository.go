package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"organicstore-be/internal/apperr"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, fullName, email, hashedPassword, role string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id uint) (User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, fullName, email, hashedPassword, role string) (User, error) {
	query := `
	INSERT INTO users (full_name, email, password, role)
	VALUES ($1, $2, $3, $4)
	RETURNING id, full_name, email, role, created_at, updated_at
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, fullName, email, hashedPassword, role).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	query := `
	SELECT id, full_name, email, password, role, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user with email %s", apperr.ErrNotFound, email)
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (User, error) {
	query := `
	SELECT id, full_name, email, role, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}
