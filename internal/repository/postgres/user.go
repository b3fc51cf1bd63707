package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/beaconhq/beacon/internal/domain/user"
	"github.com/beaconhq/beacon/internal/pkg/errors"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = user.RoleUser
	}

	query := `INSERT INTO users (email, username, full_name, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, u.Email, u.Username, u.FullName, u.PasswordHash, u.Role, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	u.ID, err = result.LastInsertId()
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *UserRepository) getBy(ctx context.Context, cond string, arg interface{}) (*user.User, error) {
	query := `SELECT id, email, username, full_name, password_hash, role, created_at, updated_at FROM users WHERE ` + cond

	var u user.User
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.Role, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	u.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	u.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()
	query := `UPDATE users SET email = ?, username = ?, full_name = ?, password_hash = ?, role = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, u.Email, u.Username, u.FullName, u.PasswordHash, u.Role, u.UpdatedAt.UTC().Format(timeLayout), u.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}
