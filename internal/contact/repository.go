package contact

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	Create(ctx context.Context, params CreateContactParams) (*Contact, error)
	GetByID(ctx context.Context, id uint) (*Contact, error)
	List(ctx context.Context, limit, page *int32) ([]*Contact, int64, error)
	UpdateStatus(ctx context.Context, id uint, status ContactStatus) (*Contact, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const contactColumns = `id, name, email, subject, message, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, params CreateContactParams) (*Contact, error) {
	query := `
	INSERT INTO contacts (name, email, subject, message, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + contactColumns

	var c Contact
	err := r.db.QueryRowContext(ctx, query,
		params.Name, params.Email, params.Subject, params.Message, StatusNew,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Contact, error) {
	var c Contact
	err := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context, limit, page *int32) ([]*Contact, int64, error) {
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
	offset := (finalPage - 1) * finalLimit

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		finalLimit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, &c)
	}

	return contacts, total, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status ContactStatus) (*Contact, error) {
	query := `
	UPDATE contacts
	SET status = $1, updated_at = NOW()
	WHERE id = $2
	RETURNING ` + contactColumns

	var c Contact
	err := r.db.QueryRowContext(ctx, query, status, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContactNotFound
	}
	return nil
}
