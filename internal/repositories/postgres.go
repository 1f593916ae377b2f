package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/usergraph/backend/internal/db"
	"github.com/usergraph/backend/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByID fetches a user by identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, name, email, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

// List returns every user ordered by identifier.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, name, email, created_at, updated_at
        FROM users
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Create validates and persists a new user record, returning it with its assigned id.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if err := validateUser(user); err != nil {
		return models.User{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO users (name, email)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at
    `, user.Name, user.Email)

	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if verr := constraintError(user, err); verr != nil {
			return models.User{}, verr
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// Update validates and writes the name and email of an existing user.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	if !user.Persisted() {
		return models.User{}, ErrNotFound
	}
	if err := validateUser(user); err != nil {
		return models.User{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE users
        SET name = $2, email = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING created_at, updated_at
    `, user.ID, user.Name, user.Email)

	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		if verr := constraintError(user, err); verr != nil {
			return models.User{}, verr
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Delete removes a user record.
func (r *PostgresUserRepository) Delete(ctx context.Context, user models.User) error {
	if !user.Persisted() {
		return ErrNotFound
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM users
        WHERE id = $1
    `, user.ID)
	if err != nil {
		if verr := constraintError(user, err); verr != nil {
			return verr
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Ping verifies a connection can be acquired and used.
func (r *PostgresUserRepository) Ping(ctx context.Context) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// constraintError maps integrity violations raised by the database onto the
// record's validation messages. It returns nil for any other error.
func constraintError(user models.User, err error) *ValidationError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		field := "Record"
		if strings.Contains(pgErr.ConstraintName, "email") {
			field = "Email"
		}
		return &ValidationError{Record: user, Messages: []string{field + " has already been taken"}}
	case pgForeignKeyViolation:
		return &ValidationError{Record: user, Messages: []string{"Cannot delete record because dependent records exist"}}
	}
	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
