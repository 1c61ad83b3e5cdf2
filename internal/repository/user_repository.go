package repository

import (
	"context"
	"strings"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, strings.ToLower(u.Email), u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *PostgresUserRepository) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	if r.db == nil {
		return user.User{}, database.ErrNilDB
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, role, created_at, updated_at FROM users `+where, arg)

	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	if parsed, ok := user.ParseRole(role); ok {
		u.Role = parsed
	} else {
		u.Role = user.RoleCandidate
	}
	return u, nil
}
