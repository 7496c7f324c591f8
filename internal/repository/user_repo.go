package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, birthdate, gender, created_at, updated_at`

// Create inserts the user and its initial measurements in one transaction.
func (r *UserRepository) Create(ctx context.Context, u domain.User, initial ...domain.Measurement) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (email, username, password_hash, birthdate, gender, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.Username, u.PasswordHash, u.Birthdate, string(u.Gender), u.CreatedAt, u.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to create user: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}

	for _, m := range initial {
		m.Sample.UserID = id
		if err := upsert(ctx, tx, m.Spec, m.Sample); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByLogin looks a user up by email when login contains "@", by username otherwise.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	column := "username"
	if strings.Contains(login, "@") {
		column = "email"
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, login)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, c domain.UserChanges) error {
	var setClauses []string
	var args []any

	if c.Email != nil {
		setClauses = append(setClauses, "email = ?")
		args = append(args, *c.Email)
	}
	if c.Username != nil {
		setClauses = append(setClauses, "username = ?")
		args = append(args, *c.Username)
	}
	if c.PasswordHash != nil {
		setClauses = append(setClauses, "password_hash = ?")
		args = append(args, *c.PasswordHash)
	}
	if c.Birthdate != nil {
		setClauses = append(setClauses, "birthdate = ?")
		args = append(args, *c.Birthdate)
	}
	if c.Gender != nil {
		setClauses = append(setClauses, "gender = ?")
		args = append(args, string(*c.Gender))
	}

	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", classify(err))
	}
	return nil
}

// Delete removes the user; metric rows go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return nil
}

func scanUser(sc scanner) (*domain.User, error) {
	var u domain.User
	var gender string
	if err := sc.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Birthdate, &gender, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Gender = domain.Gender(gender)
	return &u, nil
}
