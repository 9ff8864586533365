package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing booking data from storage.
type Repository interface {
	// CreateIfFree inserts the booking only if no pending/approved booking
	// overlaps its interval. The conflict re-check and the insert run in one
	// transaction holding a per-resource advisory lock, so two concurrent
	// requests cannot both observe "no conflict" and both commit.
	CreateIfFree(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)

	// HasConflict checks for any booking on the resource holding the slot
	// that overlaps [start, end). excludeID ignores a specific booking when
	// re-validating it.
	HasConflict(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (bool, error)

	// CountHeld returns per-resource counts of bookings in the given
	// statuses, for the ids supplied.
	CountHeld(ctx context.Context, resourceIDs []string, statuses []Status) (map[string]int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookingColumns = "id, resource_id, requester_id, start_time, end_time, status, created_at, updated_at"

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ResourceID, &b.RequesterID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) CreateIfFree(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize writers per resource across processes.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, b.ResourceID); err != nil {
		return fmt.Errorf("acquire resource lock failed: %w", err)
	}

	var exists bool
	const conflictQuery = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE resource_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_time < $3
			  AND end_time > $2
		)
	`
	if err := tx.QueryRow(ctx, conflictQuery, b.ResourceID, b.Start, b.End).Scan(&exists); err != nil {
		return fmt.Errorf("conflict re-check failed: %w", err)
	}
	if exists {
		return ErrTimeConflict
	}

	const insertQuery = `
		INSERT INTO public.bookings (resource_id, requester_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(
		ctx, insertQuery,
		b.ResourceID, b.RequesterID, b.Start, b.End, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM public.bookings WHERE id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "resource_id", "requester_id", "start_time", "end_time", "status",
		"created_at", "updated_at",
		"count(*) OVER() AS total_count",
	).From("public.bookings")

	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.StartFrom != nil {
		query = query.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		query = query.Where(squirrel.Lt{"start_time": *filter.StartTo})
	}

	query = query.OrderBy("start_time DESC", "id ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ResourceID, &b.RequesterID, &b.Start, &b.End, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	query := `
		UPDATE public.bookings
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + bookingColumns
	return scanBooking(r.pool.QueryRow(ctx, query, status, id))
}

func (r *pgxRepository) HasConflict(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": []Status{StatusPending, StatusApproved}}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build conflict query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("conflict check failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) CountHeld(ctx context.Context, resourceIDs []string, statuses []Status) (map[string]int, error) {
	counts := make(map[string]int, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return counts, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("resource_id", "count(*)").
		From("public.bookings").
		Where(squirrel.Eq{"resource_id": resourceIDs}).
		Where(squirrel.Eq{"status": statuses}).
		GroupBy("resource_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count bookings failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan count failed: %w", err)
		}
		counts[id] = n
	}

	return counts, nil
}
