package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// FindByUsername retrieves user by username.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password, email, role, created_at, updated_at FROM users
		 WHERE username = $1
		 `
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// FindByID retrieves user by ID.
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, password, email, role, created_at, updated_at FROM users
		 WHERE id = $1
		 `
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// Save inserts a new user (ID == 0) or updates an existing one.
func (s *Storage) Save(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return s.insert(ctx, user)
	}
	return s.update(ctx, user)
}

func (s *Storage) insert(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (username, password, email, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := s.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Role, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (s *Storage) update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET username = $1, password = $2, email = $3, role = $4, updated_at = $5
		 WHERE id = $6
		 `

	result, err := s.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Role, user.UpdatedAt, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return requireAffected(result)
}

// DeleteByID deletes user by ID.
func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(result)
}

// ExistsByID reports whether a user with the given ID exists.
func (s *Storage) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Count returns the number of users.
func (s *Storage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var updatedAt sql.NullTime

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Role, &user.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	}

	return user, nil
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
