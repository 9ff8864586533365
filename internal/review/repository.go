package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing review data from storage.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Review, error)
	Delete(ctx context.Context, id string) error

	// StatsFor aggregates rating count and average per resource for the ids
	// supplied. Resources without reviews are absent from the result.
	StatsFor(ctx context.Context, resourceIDs []string) (map[string]Stats, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const reviewColumns = "id, resource_id, booking_id, author_id, rating, comment, created_at"

func (r *pgxRepository) Create(ctx context.Context, rev *Review) error {
	const query = `
		INSERT INTO public.reviews (resource_id, booking_id, author_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(
		ctx, query,
		rev.ResourceID, rev.BookingID, rev.AuthorID, rev.Rating, rev.Comment,
	).Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("insert review failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM public.reviews WHERE id = $1`

	var rev Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID, &rev.ResourceID, &rev.BookingID, &rev.AuthorID, &rev.Rating, &rev.Comment, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review failed: %w", err)
	}
	return &rev, nil
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string) ([]*Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM public.reviews
		WHERE resource_id = $1
		ORDER BY created_at DESC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list reviews failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID, &rev.ResourceID, &rev.BookingID, &rev.AuthorID, &rev.Rating, &rev.Comment, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review failed: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	return reviews, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM public.reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) StatsFor(ctx context.Context, resourceIDs []string) (map[string]Stats, error) {
	stats := make(map[string]Stats, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return stats, nil
	}

	const query = `
		SELECT resource_id, count(*), avg(rating)
		FROM public.reviews
		WHERE resource_id = ANY($1)
		GROUP BY resource_id
	`
	rows, err := r.pool.Query(ctx, query, resourceIDs)
	if err != nil {
		return nil, fmt.Errorf("review stats failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var s Stats
		if err := rows.Scan(&id, &s.Count, &s.Average); err != nil {
			return nil, fmt.Errorf("scan review stats failed: %w", err)
		}
		stats[id] = s
	}
	return stats, nil
}
