package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopverse/shopverse/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

const userColumns = `id, name, email, password, COALESCE(phone, ''), created_at, updated_at`

// UserUpdate carries the columns to change. Nil fields are left untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Password == nil
}

// CreateUser inserts a new user and fills in the generated ID and timestamps.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (name, email, password, phone)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Password,
		user.Phone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return userWriteError("create user", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// EmailExists reports whether email belongs to any user other than excludeID.
// Pass excludeID 0 to check against all users.
func (r *Repository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateUser applies the non-nil fields of upd and bumps updated_at.
// An empty phone is stored as NULL.
func (r *Repository) UpdateUser(ctx context.Context, id int64, upd UserUpdate) error {
	if upd.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if upd.Name != nil {
		add("name = $%d", *upd.Name)
	}
	if upd.Email != nil {
		add("email = $%d", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone = NULLIF($%d, '')", *upd.Phone)
	}
	if upd.Password != nil {
		add("password = $%d", *upd.Password)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE users SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), len(args),
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return userWriteError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored credential for a user.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, encoded string) error {
	return r.UpdateUser(ctx, id, UserUpdate{Password: &encoded})
}

// ListUserCredentials streams (id, stored password) pairs in ID order,
// starting after afterID, at most limit rows. Used by the rehash tool.
func (r *Repository) ListUserCredentials(ctx context.Context, afterID int64, limit int) ([]UserCredential, error) {
	query := `
		SELECT id, password
		FROM users
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var creds []UserCredential
	for rows.Next() {
		var c UserCredential
		if err := rows.Scan(&c.ID, &c.Password); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}

	return creds, nil
}

// UserCredential is a user ID with its stored password column.
type UserCredential struct {
	ID       int64
	Password string
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
