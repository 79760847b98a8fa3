package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"gigcity/internal/domain"
)

type artistApplicationRepository struct {
	DB *sql.DB
}

func NewArtistApplicationRepository(db *sql.DB) domain.ArtistApplicationRepository {
	return &artistApplicationRepository{
		DB: db,
	}
}

func (r *artistApplicationRepository) Create(ctx context.Context, app *domain.ArtistApplication) error {
	query := `
		INSERT INTO artist_applications (event_id, artist_id, artist_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		app.EventID, app.ArtistID, app.ArtistName, app.Status, app.CreatedAt,
	).Scan(&app.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *artistApplicationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ArtistApplication, error) {
	query := `
		SELECT id, event_id, artist_id, artist_name, status, created_at
		FROM artist_applications
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.ArtistApplication
	for rows.Next() {
		app := &domain.ArtistApplication{}
		if err := rows.Scan(&app.ID, &app.EventID, &app.ArtistID, &app.ArtistName, &app.Status, &app.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []*domain.ArtistApplication{}
	}
	return apps, nil
}
