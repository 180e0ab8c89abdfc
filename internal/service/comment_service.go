package service

import (
	"context"
	"fmt"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentService creates comments together with their mention notifications.
type CommentService struct {
	db       *pgxpool.Pool
	notifier Notifier
}

func NewCommentService(db *pgxpool.Pool) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create inserts the comment and a COMMENT_MENTION notification per mentioned
// user (excluding the author), atomically.
func (s *CommentService) Create(ctx context.Context, authorID int64, t *domain.Task, content string, mentions []int64) (*domain.Comment, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c := &domain.Comment{TaskID: t.ID, AuthorID: authorID, Content: content}
	err = tx.QueryRow(ctx,
		`INSERT INTO comments (task_id, author_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.TaskID, c.AuthorID, c.Content,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var queued []*domain.Notification
	seen := make(map[int64]bool, len(mentions))
	for _, uid := range mentions {
		if uid == authorID || seen[uid] {
			continue
		}
		seen[uid] = true
		n := &domain.Notification{
			UserID:  uid,
			Type:    domain.NotifCommentMention,
			Content: fmt.Sprintf("You were mentioned on task %q", t.Title),
			TaskID:  &t.ID,
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO notifications (user_id, type, content, task_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			n.UserID, n.Type, n.Content, n.TaskID,
		).Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		queued = append(queued, n)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for _, n := range queued {
			s.notifier.Push(n.UserID, n)
		}
	}
	return c, nil
}
