package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"outreach_admin/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password, role FROM users WHERE username = ?`
	selectUserByIDSQL       = `SELECT id, username, password, role FROM users WHERE id = ?`
	selectUsersSQL          = `SELECT id, username, password, role FROM users ORDER BY username ASC`
	updateUserCredentialSQL = `UPDATE users SET password = ? WHERE id = ?`
	updateUserRoleSQL       = `UPDATE users SET role = ? WHERE id = ?`
	deleteUserSQL           = `DELETE FROM users WHERE id = ?`
	countUsersSQL           = `SELECT COUNT(*) FROM users`
)

// bcryptMarker is the fixed prefix of a bcrypt hash ("$2a$", "$2b$", "$2y$").
// Anything without it is a legacy plaintext credential awaiting upgrade.
const bcryptMarker = "$2"

// isUniqueViolation reports whether err is a sqlite unique-constraint error.
// The string fallback covers wrapped errors that lose the driver type.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// tagCredential decides the credential's format once, at the read boundary.
func tagCredential(stored string) models.Credential {
	if strings.HasPrefix(stored, bcryptMarker) {
		return models.Credential{Kind: models.CredentialHashed, Value: stored}
	}
	return models.Credential{Kind: models.CredentialLegacy, Value: stored}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var (
		u      models.User
		stored string
		role   string
	)
	if err := row.Scan(&u.ID, &u.Username, &stored, &role); err != nil {
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	u.Role = parsed
	u.Credential = tagCredential(stored)
	return &u, nil
}

// Create inserts a new user and returns its ID. Returns ErrDuplicate if the
// username is already taken.
func (r *UserRepository) Create(ctx context.Context, username, credential string, role models.Role) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, credential, string(role))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by exact username. Returns ErrNotFound if absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCredential replaces the stored credential value (used by the legacy
// plaintext upgrade and by password changes).
func (r *UserRepository) UpdateCredential(ctx context.Context, id int, credential string) error {
	res, err := r.db.ExecContext(ctx, updateUserCredentialSQL, credential, id)
	if err != nil {
		return fmt.Errorf("update credential for user %d: %w", id, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int, role models.Role) error {
	res, err := r.db.ExecContext(ctx, updateUserRoleSQL, string(role), id)
	if err != nil {
		return fmt.Errorf("update role for user %d: %w", id, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return checkAffected(res, ErrNotFound)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
