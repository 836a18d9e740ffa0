package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"clearusers/internal/user/models"
	"clearusers/pkg/paging"
	"clearusers/pkg/platform/sentinel"
	"clearusers/pkg/platform/tx"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// userColumns maps sortable API property names to table columns. Only
// properties present here ever reach an ORDER BY clause.
var userColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"birthDate": "birth_date",
}

const selectColumns = `id, first_name, last_name, email, birth_date, COALESCE(address, ''), COALESCE(phone, '')`

// PostgresStore persists user records in PostgreSQL. This store is pure
// I/O; business rules belong in the service layer. When the context carries
// a transaction (pkg/platform/tx), all queries run inside it.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// querier is the subset of *sql.DB and *sql.Tx the store needs.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, birth_date, address, phone)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING ` + selectColumns
	saved, err := scanUser(s.q(ctx).QueryRowContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.BirthDate,
		user.Address,
		user.PhoneNumber,
	))
	if err != nil {
		if conflict := classifyConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return saved, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, birth_date = $5,
		    address = NULLIF($6, ''), phone = NULLIF($7, '')
		WHERE id = $1
		RETURNING ` + selectColumns
	saved, err := scanUser(s.q(ctx).QueryRowContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.BirthDate,
		user.Address,
		user.PhoneNumber,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if conflict := classifyConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return saved, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, page paging.PageRequest) (paging.Page[models.User], error) {
	return s.queryPage(ctx, page, "", nil)
}

func (s *PostgresStore) FindByBirthDateBetween(ctx context.Context, from, to models.Date, page paging.PageRequest) (paging.Page[models.User], error) {
	return s.queryPage(ctx, page, `WHERE birth_date BETWEEN $1 AND $2`, []any{from, to})
}

func (s *PostgresStore) queryPage(ctx context.Context, page paging.PageRequest, where string, args []any) (paging.Page[models.User], error) {
	q := s.q(ctx)

	var total int64
	countQuery := strings.TrimSpace(`SELECT COUNT(*) FROM users ` + where)
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return paging.Page[models.User]{}, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		selectColumns, where, orderClause(page.Sort), len(args)+1, len(args)+2)
	rows, err := q.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return paging.Page[models.User]{}, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
			&user.BirthDate, &user.Address, &user.PhoneNumber); err != nil {
			return paging.Page[models.User]{}, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return paging.Page[models.User]{}, fmt.Errorf("iterate users: %w", err)
	}

	return paging.NewPage(users, total, page), nil
}

// orderClause renders the sort keys, always ending on id so pagination is
// deterministic even when the caller's keys leave ties.
func orderClause(keys []paging.SortKey) string {
	var parts []string
	for _, key := range keys {
		column, ok := userColumns[key.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if key.Descending() {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.BirthDate, &user.Address, &user.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// classifyConflict translates a unique violation into the conflict sentinel,
// preserving the driver's message as the cause.
func classifyConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.Message, sentinel.ErrConflict)
	}
	return nil
}
