package patron

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
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

func (r *PostgresRepo) Create(ctx context.Context, p *Patron) error {
	const insertSQL = `
		INSERT INTO patrons (id, name, email, date_of_membership, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW(), NOW())
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL, p.ID, p.Name, p.Email)
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Patron, error) {
	const query = `
		SELECT id, name, email, date_of_membership, created_at, updated_at
		FROM patrons
		WHERE id = $1
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var p Patron
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.DateOfMembership, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Patron{}, ErrNotFound
		}
		return Patron{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM patrons WHERE id = $1)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var exists bool
	if err := r.db.QueryRow(timeoutCtx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
