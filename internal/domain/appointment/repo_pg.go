package appointment

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

const apptCols = `a.id, a.patient_id, COALESCE(p.name, 'Unknown'), to_char(a.date, 'YYYY-MM-DD'),
	a.time, a.reason, a.type, a.notes, a.status, a.company_id, a.created_at`

const apptFrom = ` FROM appointments a LEFT JOIN patients p ON p.id = a.patient_id`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, date, time, reason, type, notes, status, company_id)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		a.ID, a.PatientID, a.Date, a.Time, a.Reason, a.Type, a.Notes, a.Status, a.CompanyID,
	).Scan(&a.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET date = $2::date, time = $3, reason = $4, status = $5
		WHERE id = $1`,
		a.ID, a.Date, a.Time, a.Reason, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f ListFilter) ([]*Appointment, error) {
	where, args := filterClause(f)
	query := `SELECT ` + apptCols + apptFrom + where + ` ORDER BY a.date, a.time`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) Count(ctx context.Context, f ListFilter) (int, error) {
	where, args := filterClause(f)
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+where, args...).Scan(&n)
	return n, err
}

func filterClause(f ListFilter) (string, []interface{}) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.StartDate != "" {
		where += fmt.Sprintf(` AND a.date >= $%d::date`, idx)
		args = append(args, f.StartDate)
		idx++
	}
	if f.EndDate != "" {
		where += fmt.Sprintf(` AND a.date <= $%d::date`, idx)
		args = append(args, f.EndDate)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, f.Status)
	}
	return where, args
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.Date, &a.Time, &a.Reason,
		&a.Type, &a.Notes, &a.Status, &a.CompanyID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
