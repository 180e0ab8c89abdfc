package repository

import (
	"context"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO comments (task_id, author_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.TaskID, c.AuthorID, c.Content,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRow(ctx,
		`SELECT id, task_id, author_id, content, created_at, updated_at
		 FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.CommentWithAuthor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.task_id, c.author_id, c.content, c.created_at, c.updated_at,
		        u.id, u.name, u.email, u.image_url, u.created_at
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.task_id = $1
		 ORDER BY c.created_at`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.CommentWithAuthor
	for rows.Next() {
		var c domain.CommentWithAuthor
		err := rows.Scan(
			&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&c.Author.ID, &c.Author.Name, &c.Author.Email, &c.Author.ImageURL, &c.Author.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = now() WHERE id = $2`,
		c.Content, c.ID,
	)
	return err
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
