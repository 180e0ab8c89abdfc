package repository

import (
	"context"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomFieldRepository struct {
	db *pgxpool.Pool
}

func NewCustomFieldRepository(db *pgxpool.Pool) *CustomFieldRepository {
	return &CustomFieldRepository{db: db}
}

func (r *CustomFieldRepository) Create(ctx context.Context, f *domain.CustomField) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO custom_fields (project_id, name, field_type, options)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		f.ProjectID, f.Name, f.Type, f.Options,
	).Scan(&f.ID, &f.CreatedAt)
}

func (r *CustomFieldRepository) GetByID(ctx context.Context, id int64) (*domain.CustomField, error) {
	var f domain.CustomField
	err := r.db.QueryRow(ctx,
		`SELECT id, project_id, name, field_type, options, created_at
		 FROM custom_fields WHERE id = $1`, id,
	).Scan(&f.ID, &f.ProjectID, &f.Name, &f.Type, &f.Options, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *CustomFieldRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.CustomField, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, project_id, name, field_type, options, created_at
		 FROM custom_fields WHERE project_id = $1
		 ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.CustomField
	for rows.Next() {
		var f domain.CustomField
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Type, &f.Options, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &f)
	}
	return res, rows.Err()
}

func (r *CustomFieldRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM custom_fields WHERE id = $1`, id)
	return err
}

func (r *CustomFieldRepository) GetValue(ctx context.Context, taskID, fieldID int64) (*domain.CustomFieldValue, error) {
	var v domain.CustomFieldValue
	err := r.db.QueryRow(ctx,
		`SELECT id, task_id, field_id, value, updated_at
		 FROM custom_field_values WHERE task_id = $1 AND field_id = $2`,
		taskID, fieldID,
	).Scan(&v.ID, &v.TaskID, &v.FieldID, &v.Value, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpsertValue inserts or replaces the value for (task, field).
func (r *CustomFieldRepository) UpsertValue(ctx context.Context, v *domain.CustomFieldValue) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO custom_field_values (task_id, field_id, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (task_id, field_id)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		 RETURNING id, updated_at`,
		v.TaskID, v.FieldID, v.Value,
	).Scan(&v.ID, &v.UpdatedAt)
}

func (r *CustomFieldRepository) DeleteValue(ctx context.Context, taskID, fieldID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM custom_field_values WHERE task_id = $1 AND field_id = $2`,
		taskID, fieldID,
	)
	return err
}

func (r *CustomFieldRepository) ListValuesByTask(ctx context.Context, taskID int64) ([]*domain.CustomFieldValue, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, field_id, value, updated_at
		 FROM custom_field_values WHERE task_id = $1
		 ORDER BY field_id`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.CustomFieldValue
	for rows.Next() {
		var v domain.CustomFieldValue
		if err := rows.Scan(&v.ID, &v.TaskID, &v.FieldID, &v.Value, &v.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &v)
	}
	return res, rows.Err()
}
