package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// ListUsers returns every user in insertion order.
func (r *UserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect users: %w", err)
	}

	return users, nil
}

// FindUserByID returns nil, nil when no user has id.
func (r *UserRepository) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id)
}

// FindUserByEmail returns nil, nil when the email is free.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, name, email FROM users WHERE email = $1`, email)
}

// FindUserByEmailExcludingID looks for a different user already holding email.
func (r *UserRepository) FindUserByEmailExcludingID(ctx context.Context, email string, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, name, email FROM users WHERE email = $1 AND id <> $2`, email, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to collect user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO users (name, email)
		VALUES (@name, @email)
		RETURNING id, name, email
	`, pgx.NamedArgs{"name": name, "email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// UpdateUser overwrites only the non-nil fields. It returns nil, nil when
// no user has id.
func (r *UserRepository) UpdateUser(ctx context.Context, id int64, name, email *string) (*model.User, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE users
		SET name = COALESCE(@name, name),
		    email = COALESCE(@email, email)
		WHERE id = @id
		RETURNING id, name, email
	`, pgx.NamedArgs{"id": id, "name": name, "email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to update user id=%d: %w", id, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user id=%d: %w", id, err)
	}

	return user, nil
}

// DeleteUser reports whether a row was removed.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user id=%d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
