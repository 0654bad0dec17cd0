package followup

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const fuCols = `f.id, f.patient_id, COALESCE(p.name, 'Unknown'), f.title, f.description,
	to_char(f.due_date, 'YYYY-MM-DD'), f.priority, f.status, f.company_id, f.created_at`

const fuFrom = ` FROM follow_ups f LEFT JOIN patients p ON p.id = f.patient_id`

func (r *repoPG) Create(ctx context.Context, f *FollowUp) error {
	f.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO follow_ups (id, patient_id, title, description, due_date, priority, status, company_id)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)
		RETURNING created_at`,
		f.ID, f.PatientID, f.Title, f.Description, f.DueDate, f.Priority, f.Status, f.CompanyID,
	).Scan(&f.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	return scanFollowUp(r.conn(ctx).QueryRow(ctx, `SELECT `+fuCols+fuFrom+` WHERE f.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, f *FollowUp) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE follow_ups SET title = $2, description = $3, due_date = $4::date, priority = $5, status = $6
		WHERE id = $1`,
		f.ID, f.Title, f.Description, f.DueDate, f.Priority, f.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter) ([]*FollowUp, error) {
	query := `SELECT ` + fuCols + fuFrom + ` WHERE 1=1`
	var args []interface{}
	if filter.Status != "" {
		query += ` AND f.status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY f.due_date, f.created_at`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *repoPG) Count(ctx context.Context, filter ListFilter) (int, error) {
	query := `SELECT COUNT(*) FROM follow_ups`
	var args []interface{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	var n int
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func scanFollowUp(row pgx.Row) (*FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.PatientID, &f.PatientName, &f.Title, &f.Description,
		&f.DueDate, &f.Priority, &f.Status, &f.CompanyID, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.syncCompleted()
	return &f, nil
}
