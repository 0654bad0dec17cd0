package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

// queryable abstracts pgxpool.Pool, pgxpool.Conn and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// -- Patient Repository --

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientColumns = `id, name, email, phone, to_char(date_of_birth, 'YYYY-MM-DD'), address, company_id, created_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patients (id, name, email, phone, date_of_birth, address, company_id)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		RETURNING created_at`,
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.Address, p.CompanyID,
	).Scan(&p.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patients SET
			name = $2, email = $3, phone = $4, date_of_birth = $5::date, address = $6
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.Address,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []interface{}{limit, offset}
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE name ILIKE $3 OR email ILIKE $3`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.Address, &p.CompanyID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// -- Note Repository --

type noteRepoPG struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

func (r *noteRepoPG) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO notes (id, patient_id, content, created_by_user_id, company_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_by_user_id, created_at
		)
		SELECT COALESCE(u.name, 'Unknown'), i.created_at
		FROM inserted i LEFT JOIN shared.users u ON u.id = i.created_by_user_id`,
		n.ID, n.PatientID, n.Content, n.CreatedByUserID, n.CompanyID,
	).Scan(&n.CreatedBy, &n.CreatedAt)
}

func (r *noteRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT n.id, n.patient_id, n.content, n.created_by_user_id,
			COALESCE(u.name, 'Unknown'), n.company_id, n.created_at
		FROM notes n LEFT JOIN shared.users u ON u.id = n.created_by_user_id
		WHERE n.patient_id = $1
		ORDER BY n.created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.PatientID, &n.Content, &n.CreatedByUserID,
			&n.CreatedBy, &n.CompanyID, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
