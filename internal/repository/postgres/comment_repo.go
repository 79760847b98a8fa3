package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gigcity/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, user_id, user_name, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.EventID, c.UserID, c.UserName, c.Body, c.CreatedAt).
		Scan(&c.ID)
}

func (r *commentRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Comment, error) {
	query := `
		SELECT id, event_id, user_id, user_name, body, created_at
		FROM comments
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c := &domain.Comment{}
		if err := rows.Scan(&c.ID, &c.EventID, &c.UserID, &c.UserName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}

// DeleteByAuthor deletes in one conditional statement keyed by author, so a
// non-author cannot race a delete in between a check and a write.
func (r *commentRepository) DeleteByAuthor(ctx context.Context, eventID, commentID, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND event_id = $2 AND user_id = $3`,
		commentID, eventID, userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1 AND event_id = $2)`,
		commentID, eventID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if exists {
		return domain.ErrForbidden
	}
	return domain.ErrNotFound
}
