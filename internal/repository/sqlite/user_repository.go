package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gincol-ia/user-crud-hexagonal/internal/models"
	"github.com/gincol-ia/user-crud-hexagonal/internal/repository"
)

const userColumns = "id, username, email, first_name, last_name, created_at, updated_at, active"

// UserRepository is the sqlite adapter for the user repository port.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new sqlite-backed UserRepository.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE "+column+" = ?", value).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count users by %s: %w", column, err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id.String())
	return scanUser(row, "id", id.String())
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row, "email", email)
}

// Save inserts the user, or updates the row with the same ID. Unique
// violations on username or email are translated into the same conflict
// error the service produces, so a write that loses the check-then-write
// race still surfaces as a conflict.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, email, first_name, last_name, created_at, updated_at, active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	username = excluded.username,
	email = excluded.email,
	first_name = excluded.first_name,
	last_name = excluded.last_name,
	updated_at = excluded.updated_at,
	active = excluded.active`,
		user.ID.String(),
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
		user.Active,
	)
	if err != nil {
		if conflict := uniqueViolation(err, user); conflict != nil {
			return conflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if n == 0 {
		return &models.NotFoundError{Field: "id", Value: id.String()}
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
}

func (r *UserRepository) FindAllActive(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users WHERE active = 1 ORDER BY created_at, id")
}

func (r *UserRepository) list(ctx context.Context, query string) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var (
			user  models.User
			rawID string
		)
		if err := rows.Scan(
			&rawID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.Active,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse user id %q: %w", rawID, err)
		}
		user.ID = id
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

func scanUser(row *sql.Row, field, value string) (*models.User, error) {
	var (
		user  models.User
		rawID string
	)
	err := row.Scan(
		&rawID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Field: field, Value: value}
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", rawID, err)
	}
	user.ID = id
	return &user, nil
}

// uniqueViolation maps a sqlite UNIQUE constraint failure onto a
// ConflictError for the offending column, or returns nil when err is
// something else.
func uniqueViolation(err error, user *models.User) *models.ConflictError {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return &models.ConflictError{Field: "username", Value: user.Username}
	case strings.Contains(msg, "users.email"):
		return &models.ConflictError{Field: "email", Value: user.Email}
	}
	return nil
}
