package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gigcity/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

const userColumns = `id, email, name, role, picture, password_hash, salt, google_sub, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, role, picture, password_hash, salt, google_sub, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Name, u.Role, u.Picture,
		nullString(u.PasswordHash), nullString(u.Salt), nullString(u.GoogleSub),
		u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var hashNull, saltNull, subNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.Picture,
		&hashNull, &saltNull, &subNull, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.PasswordHash = hashNull.String
	u.Salt = saltNull.String
	u.GoogleSub = subNull.String
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, picture = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := r.DB.ExecContext(ctx, query, u.Name, u.Picture, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpsertFederated inserts or refreshes the account keyed by google_sub.
// Role is only set on first insert so a later login cannot change it.
func (r *userRepository) UpsertFederated(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, role, picture, google_sub, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (google_sub) DO UPDATE
		SET name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns + `
	`
	var hashNull, saltNull, subNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Name, u.Role, u.Picture, u.GoogleSub, u.CreatedAt, u.UpdatedAt,
	).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.Picture,
		&hashNull, &saltNull, &subNull, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Email taken by a password account with no google_sub link.
			return domain.ErrDuplicateEmail
		}
		return err
	}
	u.PasswordHash = hashNull.String
	u.Salt = saltNull.String
	u.GoogleSub = subNull.String
	return nil
}

func (r *userRepository) AddJoinedEvent(ctx context.Context, userID, eventID string) error {
	query := `
		INSERT INTO user_joined_events (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	if _, err := r.DB.ExecContext(ctx, query, userID, eventID); err != nil {
		return fmt.Errorf("add joined event: %w", err)
	}
	return nil
}

func (r *userRepository) AddAppliedEvent(ctx context.Context, userID, eventID string) error {
	query := `
		INSERT INTO user_applied_events (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	if _, err := r.DB.ExecContext(ctx, query, userID, eventID); err != nil {
		return fmt.Errorf("add applied event: %w", err)
	}
	return nil
}

func (r *userRepository) ListJoinedEventIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT event_id
		FROM user_joined_events
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
