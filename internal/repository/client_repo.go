package repository

import (
	"context"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO clients (owner_id, name, email, company, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.OwnerID, c.Name, c.Email, c.Company, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, email, company, notes, created_at, updated_at
		 FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Client, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, email, company, notes, created_at, updated_at
		 FROM clients WHERE owner_id = $1
		 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	_, err := r.db.Exec(ctx,
		`UPDATE clients SET name = $1, email = $2, company = $3, notes = $4, updated_at = now()
		 WHERE id = $5`,
		c.Name, c.Email, c.Company, c.Notes, c.ID,
	)
	return err
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
