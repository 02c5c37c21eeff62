package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/asandov/tripmarket/internal/domain"
)

// UserRepo defines the persistence operations for marketplace accounts.
// The core never writes credentials; accounts are provisioned by the auth
// collaborator and mirrored here for role and email lookup.
type UserRepo interface {
	// Create inserts a new account record and returns it.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByID retrieves an account by its UUID primary key.
	// Returns domain.ErrNotFound if no account with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// AdminRecipients returns every account holding admin capability through
	// any role signal: the boolean flag, an "admin" entry in the roles array,
	// or a match against fallbackEmail. The result is deduplicated by id.
	AdminRecipients(ctx context.Context, fallbackEmail string) ([]domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (email, name, is_admin, roles)
		VALUES (@email, @name, @is_admin, @roles)
		RETURNING id, email, name, is_admin, roles, created_at`

	args := pgx.NamedArgs{
		"email":    u.Email,
		"name":     u.Name,
		"is_admin": u.AdminFlag,
		"roles":    u.Roles,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
		SELECT id, email, name, is_admin, roles, created_at
		FROM users
		WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// AdminRecipients folds the three historical role signals into one query.
// DISTINCT guarantees one row per account even when an account qualifies
// through more than one signal.
func (r *pgUserRepo) AdminRecipients(ctx context.Context, fallbackEmail string) ([]domain.User, error) {
	const q = `
		SELECT DISTINCT id, email, name, is_admin, roles, created_at
		FROM users
		WHERE is_admin
		   OR 'admin' = ANY(roles)
		   OR (@fallback_email <> '' AND email = @fallback_email)
		ORDER BY email`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"fallback_email": fallbackEmail})
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.AdminRecipients: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.UserRepo.AdminRecipients: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.UserRepo.AdminRecipients: rows: %w", err)
	}

	return users, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.Email, &u.Name, &u.AdminFlag, &u.Roles, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
