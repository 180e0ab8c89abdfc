package repository

import (
	"context"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SectionRepository struct {
	db *pgxpool.Pool
}

func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) Create(ctx context.Context, s *domain.Section) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO sections (project_id, name, position)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.ProjectID, s.Name, s.Position,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	var s domain.Section
	err := r.db.QueryRow(ctx,
		`SELECT id, project_id, name, position, created_at FROM sections WHERE id = $1`, id,
	).Scan(&s.ID, &s.ProjectID, &s.Name, &s.Position, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectionRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.Section, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, project_id, name, position, created_at
		 FROM sections WHERE project_id = $1
		 ORDER BY position, id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Section
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Position, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}
	return res, rows.Err()
}

func (r *SectionRepository) Update(ctx context.Context, s *domain.Section) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sections SET name = $1, position = $2 WHERE id = $3`,
		s.Name, s.Position, s.ID,
	)
	return err
}

func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	return err
}
