package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const titleColumns = `id, isbn, title, author, genre, publish_date, total_copies, available_copies, status, created_at, updated_at`

func scanTitle(row pgx.Row) (Title, error) {
	var t Title
	err := row.Scan(
		&t.ID, &t.ISBN, &t.Title, &t.Author, &t.Genre, &t.PublishDate,
		&t.TotalCopies, &t.AvailableCopies, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PostgresRepo) Create(ctx context.Context, t *Title) error {
	const insertSQL = `
		INSERT INTO titles (id, isbn, title, author, genre, publish_date, total_copies, available_copies, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL,
		t.ID, t.ISBN, t.Title, t.Author, t.Genre, t.PublishDate,
		t.TotalCopies, t.AvailableCopies, t.Status,
	)
	return err
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Title, error) {
	const query = `SELECT ` + titleColumns + ` FROM titles WHERE isbn = $1 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	t, err := scanTitle(r.db.QueryRow(timeoutCtx, query, isbn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Title{}, ErrNotFound
		}
		return Title{}, err
	}
	return t, nil
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Title, int, error) {
	return r.list(ctx, "1=1", limit, offset)
}

func (r *PostgresRepo) ListAvailable(ctx context.Context, limit, offset int) ([]Title, int, error) {
	return r.list(ctx, "status = 'A' AND available_copies > 0", limit, offset)
}

func (r *PostgresRepo) list(ctx context.Context, where string, limit, offset int) ([]Title, int, error) {
	countSQL := `SELECT COUNT(*) FROM titles WHERE ` + where
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL).Scan(&total); err != nil {
		return nil, 0, err
	}

	// The original catalog orders by scarcity so staff see low stock first.
	dataSQL := `SELECT ` + titleColumns + ` FROM titles WHERE ` + where + `
		ORDER BY available_copies ASC, title ASC
		LIMIT $1 OFFSET $2`

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// CheckoutCopy is an atomic compare-and-decrement: the WHERE clause rejects
// the write when no free copy remains, so two racing checkouts of the last
// copy cannot both succeed.
func (r *PostgresRepo) CheckoutCopy(ctx context.Context, isbn string) error {
	const decrementSQL = `
		UPDATE titles
		SET available_copies = available_copies - 1,
		    status = CASE WHEN available_copies - 1 = 0 THEN 'C' ELSE status END,
		    updated_at = NOW()
		WHERE isbn = $1 AND status = 'A' AND available_copies > 0
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, decrementSQL, isbn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing title from an out-of-stock one.
		if _, getErr := r.GetByISBN(ctx, isbn); getErr != nil {
			return getErr
		}
		return ErrUnavailable
	}
	return nil
}

// ReturnCopy increments the count, capped by total copies. Hitting the cap
// means the ledger and the inventory disagree, which is corruption rather
// than a business rejection.
func (r *PostgresRepo) ReturnCopy(ctx context.Context, isbn string) error {
	const incrementSQL = `
		UPDATE titles
		SET available_copies = available_copies + 1,
		    status = CASE WHEN status = 'C' THEN 'A' ELSE status END,
		    updated_at = NOW()
		WHERE isbn = $1 AND available_copies < total_copies
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, incrementSQL, isbn)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check constraint
			return ErrInventoryIntegrity
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByISBN(ctx, isbn); getErr != nil {
			return getErr
		}
		return ErrInventoryIntegrity
	}
	return nil
}
