package organization

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

const uniqueViolation = "23505"

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

func (r *repoPG) CreateCompany(ctx context.Context, c *Company) error {
	c.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO shared.companies (id, name, code)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		c.ID, c.Name, c.Code,
	).Scan(&c.CreatedAt)
	if isUnique(err) {
		return ErrCodeTaken
	}
	return err
}

func (r *repoPG) CompanyByCode(ctx context.Context, code string) (*Company, error) {
	var c Company
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, code, created_at FROM shared.companies WHERE code = $1`, code,
	).Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) CreateUser(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO shared.users (id, email, password_hash, name, role, company_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.CompanyID,
	).Scan(&u.CreatedAt)
	if isUnique(err) {
		return ErrEmailTaken
	}
	return err
}

const userColumns = `u.id, u.email, u.password_hash, u.name, u.role, u.company_id,
	c.name, c.code, u.created_at`

const userFrom = ` FROM shared.users u JOIN shared.companies c ON c.id = u.company_id`

func (r *repoPG) UserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+userFrom+` WHERE LOWER(u.email) = LOWER($1)`, strings.TrimSpace(email)))
}

func (r *repoPG) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id))
}

func (r *repoPG) ListUsers(ctx context.Context, companyID uuid.UUID) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+userColumns+userFrom+` WHERE u.company_id = $1 ORDER BY u.created_at, u.name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repoPG) DeleteUser(ctx context.Context, companyID, userID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM shared.users WHERE id = $1 AND company_id = $2`, userID, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CompanyID,
		&u.CompanyName, &u.CompanyCode, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// queryable abstracts pgxpool.Pool, pgxpool.Conn and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PGTransactor runs callbacks in a pool transaction.
type PGTransactor struct {
	Pool *pgxpool.Pool
}

func (t PGTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, t.Pool, fn)
}

// SchemaProvisioner migrates a fresh tenant schema from MigrationsDir.
type SchemaProvisioner struct {
	Pool          *pgxpool.Pool
	MigrationsDir string
}

func (p SchemaProvisioner) Provision(ctx context.Context, tenantID string) error {
	return db.CreateTenantSchema(ctx, p.Pool, tenantID, p.MigrationsDir)
}
