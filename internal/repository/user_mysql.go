package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/signupflow/backend/internal/db"
	"github.com/signupflow/backend/internal/domain"
)

type mysqlUserRepository struct {
	db *sqlx.DB
}

func NewMySQLUsers(db *sqlx.DB) Users {
	return &mysqlUserRepository{
		db: db,
	}
}

func (r *mysqlUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, email, name, password_hash, status, created_at, verified_at FROM user WHERE email = ?;
	`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from user by email failed: %w", err)
	}

	return &user, nil
}

func (r *mysqlUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
	INSERT INTO user (id, email, name, password_hash, status, created_at)
	VALUES (uuid_to_bin(?), ?, ?, ?, ?, ?);
	`

	stored := *user
	stored.Email = strings.ToLower(user.Email)

	_, err := r.db.ExecContext(ctx, query,
		stored.ID,
		stored.Email,
		stored.Name,
		stored.PasswordHash,
		stored.Status,
		stored.CreatedAt,
	)
	if err != nil {
		var mysqlError *mysql.MySQLError
		if errors.As(err, &mysqlError) && mysqlError.Number == db.DuplicateEntry {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("db insert user failed: %w", err)
	}

	return &stored, nil
}

func (r *mysqlUserRepository) Update(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if patch.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.PasswordHash != nil {
		set = append(set, "password_hash = ?")
		args = append(args, *patch.PasswordHash)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.VerifiedAt != nil {
		set = append(set, "verified_at = ?")
		args = append(args, *patch.VerifiedAt)
	}

	key := strings.ToLower(email)

	if len(set) > 0 {
		query := "UPDATE user SET " + strings.Join(set, ", ") + " WHERE email = ?"
		args = append(args, key)

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("db update user failed: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected failed: %w", err)
		}
		if rows == 0 {
			// MySQL also reports 0 when values are unchanged, so recheck
			// existence before reporting not found.
			if _, err := r.FindByEmail(ctx, key); err != nil {
				return nil, err
			}
		}
	}

	return r.FindByEmail(ctx, key)
}
