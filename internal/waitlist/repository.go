package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing waitlist data from storage.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Entry, error)
	ListByUser(ctx context.Context, userID string) ([]*Entry, error)

	// HasWaitingOverlap reports whether the user already holds a waiting
	// entry on the resource that overlaps [start, end).
	HasWaitingOverlap(ctx context.Context, resourceID, userID string, start, end time.Time) (bool, error)

	// NextOverlapping returns the earliest-created waiting entry on the
	// resource whose interval overlaps [start, end), or ErrNotFound.
	NextOverlapping(ctx context.Context, resourceID string, start, end time.Time) (*Entry, error)

	UpdateStatus(ctx context.Context, id string, status Status) (*Entry, error)
	MarkNotified(ctx context.Context, id string) (*Entry, error)

	// Position returns the 1-based queue position of the entry among waiting
	// entries on the same resource.
	Position(ctx context.Context, e *Entry) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const entryColumns = "id, resource_id, user_id, start_time, end_time, status, created_at, notified_at"

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(
		&e.ID, &e.ResourceID, &e.UserID, &e.Start, &e.End, &e.Status, &e.CreatedAt, &e.NotifiedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan waitlist entry failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) Create(ctx context.Context, e *Entry) error {
	const query = `
		INSERT INTO public.waitlist_entries (resource_id, user_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(
		ctx, query,
		e.ResourceID, e.UserID, e.Start, e.End, e.Status,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert waitlist entry failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM public.waitlist_entries WHERE id = $1`
	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string) ([]*Entry, error) {
	return r.list(ctx, squirrel.Eq{"resource_id": resourceID, "status": []Status{StatusActive, StatusNotified}})
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Entry, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *pgxRepository) list(ctx context.Context, pred any) ([]*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"id", "resource_id", "user_id", "start_time", "end_time", "status",
		"created_at", "notified_at",
	).From("public.waitlist_entries").
		Where(pred).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build waitlist query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list waitlist entries failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.ResourceID, &e.UserID, &e.Start, &e.End, &e.Status,
			&e.CreatedAt, &e.NotifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan waitlist entry failed: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (r *pgxRepository) HasWaitingOverlap(ctx context.Context, resourceID, userID string, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.waitlist_entries
			WHERE resource_id = $1
			  AND user_id = $2
			  AND status IN ('active', 'notified')
			  AND start_time < $4
			  AND end_time > $3
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, resourceID, userID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("waitlist overlap check failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) NextOverlapping(ctx context.Context, resourceID string, start, end time.Time) (*Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM public.waitlist_entries
		WHERE resource_id = $1
		  AND status = 'active'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	return scanEntry(r.pool.QueryRow(ctx, query, resourceID, start, end))
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Entry, error) {
	query := `
		UPDATE public.waitlist_entries
		SET status = $1
		WHERE id = $2
		RETURNING ` + entryColumns
	return scanEntry(r.pool.QueryRow(ctx, query, status, id))
}

func (r *pgxRepository) MarkNotified(ctx context.Context, id string) (*Entry, error) {
	query := `
		UPDATE public.waitlist_entries
		SET status = 'notified', notified_at = now()
		WHERE id = $1
		RETURNING ` + entryColumns
	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) Position(ctx context.Context, e *Entry) (int, error) {
	const query = `
		SELECT count(*) FROM public.waitlist_entries
		WHERE resource_id = $1
		  AND status IN ('active', 'notified')
		  AND (created_at < $2 OR (created_at = $2 AND id < $3))
	`
	var ahead int
	if err := r.pool.QueryRow(ctx, query, e.ResourceID, e.CreatedAt, e.ID).Scan(&ahead); err != nil {
		return 0, fmt.Errorf("waitlist position query failed: %w", err)
	}
	return ahead + 1, nil
}
