package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/deskbooker/internal/persistence"
)

const userColumns = `user_id, username, is_admin, is_delisted, user_registration_date`

// UserRepository implements persistence.UserRepository using SQLite
type UserRepository struct {
	exec *Executor
	now  func() time.Time
}

// NewUserRepository creates a new SQLite user repository
func NewUserRepository(exec *Executor, now func() time.Time) *UserRepository {
	if now == nil {
		now = time.Now
	}
	return &UserRepository{exec: exec, now: now}
}

// CreateUser inserts a new user. The registration timestamp is set here and
// never changed afterwards.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == 0 {
		return persistence.ErrConstraintViolation
	}

	_, err := r.exec.Execute(ctx, Statement{
		SQL: `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`,
		Args: []any{
			user.ID,
			user.Name,
			user.IsAdmin,
			user.IsDelisted,
			r.now().UTC().Format(time.RFC3339),
		},
	}, FetchNone, nil)
	return err
}

// EnsureUser inserts the user unless a row with the same ID already exists.
// Existing rows are left untouched.
func (r *UserRepository) EnsureUser(ctx context.Context, user persistence.User) (bool, error) {
	if user.ID == 0 {
		return false, persistence.ErrConstraintViolation
	}

	result, err := r.exec.Execute(ctx, Statement{
		SQL: `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
		Args: []any{
			user.ID,
			user.Name,
			user.IsAdmin,
			user.IsDelisted,
			r.now().UTC().Format(time.RFC3339),
		},
	}, FetchNone, nil)
	if err != nil {
		return false, err
	}

	return result.RowsAffected == 1, nil
}

// GetUser retrieves a user by external identity
func (r *UserRepository) GetUser(ctx context.Context, id int64) (persistence.User, error) {
	var user persistence.User
	_, err := r.exec.Execute(ctx, Statement{
		SQL:  `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`,
		Args: []any{id},
	}, FetchOne, func(row Row) error {
		var scanErr error
		user, scanErr = scanUser(row)
		return scanErr
	})
	if err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// ListUsers returns all users ordered by registration then ID
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	var users []persistence.User
	_, err := r.exec.Execute(ctx, Statement{
		SQL: `SELECT ` + userColumns + ` FROM users ORDER BY user_registration_date ASC, user_id ASC`,
	}, FetchAll, func(row Row) error {
		user, err := scanUser(row)
		if err != nil {
			return err
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SetAdmin sets or clears the admin flag
func (r *UserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.updateFlag(ctx, `UPDATE users SET is_admin = ? WHERE user_id = ?`, admin, id)
}

// SetDelisted sets or clears the delisted flag
func (r *UserRepository) SetDelisted(ctx context.Context, id int64, delisted bool) error {
	return r.updateFlag(ctx, `UPDATE users SET is_delisted = ? WHERE user_id = ?`, delisted, id)
}

func (r *UserRepository) updateFlag(ctx context.Context, query string, value bool, id int64) error {
	result, err := r.exec.Execute(ctx, Statement{SQL: query, Args: []any{value, id}}, FetchNone, nil)
	if err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. Bookings reference users without a deletion
// policy, so a user who still holds bookings yields ErrConstraintViolation.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, Statement{
		SQL:  `DELETE FROM users WHERE user_id = ?`,
		Args: []any{id},
	}, FetchNone, nil)
	if err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanUser(row Row) (persistence.User, error) {
	var user persistence.User
	var registeredAt string

	if err := row.Scan(&user.ID, &user.Name, &user.IsAdmin, &user.IsDelisted, &registeredAt); err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: scan user: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339, registeredAt)
	if err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: parse user_registration_date: %w", err)
	}
	user.RegisteredAt = parsed

	return user, nil
}

// SeedSuperadmin stores the configured superadmin as an admin user unless a
// row for that identity already exists. It reports whether a row was created.
func SeedSuperadmin(ctx context.Context, users persistence.UserRepository, id int64, name string) (bool, error) {
	if id == 0 {
		return false, errors.New("sqlite: superadmin id is required")
	}
	created, err := users.EnsureUser(ctx, persistence.User{ID: id, Name: name, IsAdmin: true})
	if err != nil {
		return false, fmt.Errorf("sqlite: seed superadmin: %w", err)
	}
	return created, nil
}
