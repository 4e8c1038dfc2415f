package setting

import (
	"context"
	"database/sql"
	"errors"

	"organicstore-be/internal/apperr"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, params UpsertSettingParams) (*Setting, error)
	GetByKey(ctx context.Context, key string) (*Setting, error)
	List(ctx context.Context) ([]*Setting, error)
	Update(ctx context.Context, id uint, params UpsertSettingParams) (*Setting, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const settingColumns = `id, key, value, description, created_at, updated_at`

func (r *repository) Create(ctx context.Context, params UpsertSettingParams) (*Setting, error) {
	query := `
	INSERT INTO settings (key, value, description)
	VALUES ($1, $2, $3)
	RETURNING ` + settingColumns

	var s Setting
	err := r.db.QueryRowContext(ctx, query, params.Key, params.Value, params.Description).
		Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return nil, ErrKeyTaken
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByKey(ctx context.Context, key string) (*Setting, error) {
	var s Setting
	err := r.db.QueryRowContext(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE key = $1`, key,
	).Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]*Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+settingColumns+` FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(
			&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}

	return settings, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uint, params UpsertSettingParams) (*Setting, error) {
	query := `
	UPDATE settings
	SET key = $1, value = $2, description = $3, updated_at = NOW()
	WHERE id = $4
	RETURNING ` + settingColumns

	var s Setting
	err := r.db.QueryRowContext(ctx, query, params.Key, params.Value, params.Description, id).
		Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == apperr.PgUniqueViolation {
			return nil, ErrKeyTaken
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSettingNotFound
	}
	return nil
}
