package lending

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
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

// penalty_amount is cast to text so the exact decimal survives the scan.
const recordColumns = `id, patron_id, title_isbn, checkout_date, due_date, return_date, days_overdue, penalty_amount::text, penalty_paid, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var penalty string
	err := row.Scan(
		&rec.ID, &rec.PatronID, &rec.TitleISBN, &rec.CheckoutDate, &rec.DueDate,
		&rec.ReturnDate, &rec.DaysOverdue, &penalty, &rec.PenaltyPaid,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.PenaltyAmount, err = decimal.NewFromString(penalty)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Create inserts a new open record. The partial unique index
// lending_records_open_loan_uq turns a racing duplicate into
// ErrDuplicateOpenLoan.
func (r *PostgresRepo) Create(ctx context.Context, rec *Record) error {
	const insertSQL = `
		INSERT INTO lending_records (id, patron_id, title_isbn, checkout_date, due_date, return_date, days_overdue, penalty_amount, penalty_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, 0, $6, $7, NOW(), NOW())
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL,
		rec.ID, rec.PatronID, rec.TitleISBN, rec.CheckoutDate, rec.DueDate,
		rec.PenaltyAmount.StringFixed(2), rec.PenaltyPaid,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return ErrDuplicateOpenLoan
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Record, error) {
	const query = `SELECT ` + recordColumns + ` FROM lending_records WHERE id = $1 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rec, err := scanRecord(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *PostgresRepo) FindOpen(ctx context.Context, patronID, titleISBN string) (Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM lending_records
		WHERE patron_id = $1 AND title_isbn = $2 AND return_date IS NULL
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rec, err := scanRecord(r.db.QueryRow(timeoutCtx, query, patronID, titleISBN))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNoActiveLoan
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *PostgresRepo) Update(ctx context.Context, rec *Record) error {
	const updateSQL = `
		UPDATE lending_records
		SET return_date = $2, days_overdue = $3, penalty_amount = $4, penalty_paid = $5, updated_at = NOW()
		WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, updateSQL,
		rec.ID, rec.ReturnDate, rec.DaysOverdue, rec.PenaltyAmount.StringFixed(2), rec.PenaltyPaid,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListByPatron(ctx context.Context, patronID string) ([]Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM lending_records
		WHERE patron_id = $1
		ORDER BY checkout_date ASC
	`
	return r.list(ctx, query, patronID)
}

func (r *PostgresRepo) ListUnpaid(ctx context.Context, patronID string) ([]Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM lending_records
		WHERE patron_id = $1 AND penalty_paid = FALSE AND penalty_amount > 0
		ORDER BY checkout_date ASC
	`
	return r.list(ctx, query, patronID)
}

func (r *PostgresRepo) list(ctx context.Context, query, patronID string) ([]Record, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, patronID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SumUnpaid(ctx context.Context, patronID string) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(penalty_amount), 0)::text
		FROM lending_records
		WHERE patron_id = $1 AND penalty_paid = FALSE
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var total string
	if err := r.db.QueryRow(timeoutCtx, query, patronID).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}
