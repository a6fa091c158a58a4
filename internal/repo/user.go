package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planoraa/planoraa-api/internal/domain"
)

// UserRepo defines the persistence operations for user accounts.
type UserRepo interface {
	// Create inserts a new account. Returns domain.ErrConflict when the email
	// is already registered.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByID returns domain.ErrNotFound if no user has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail looks an account up by its normalised email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Update overwrites the profile fields (names, bio, avatar).
	Update(ctx context.Context, u domain.User) (domain.User, error)

	// ListByIDs returns the users whose IDs are in ids, in no particular order.
	// Unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, avatar, bio, created_at, updated_at`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (email, password_hash, first_name, last_name, avatar, bio)
		VALUES (@email, @password_hash, @first_name, @last_name, @avatar, @bio)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"avatar":        u.Avatar,
		"bio":           u.Bio,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(@email)`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		UPDATE users
		SET first_name = @first_name,
		    last_name  = @last_name,
		    avatar     = @avatar,
		    bio        = @bio,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"avatar":     u.Avatar,
		"bio":        u.Bio,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	users := []domain.User{}
	if len(ids) == 0 {
		return users, nil
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE id = ANY(@ids::uuid[])`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.ListByIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.UserRepo.ListByIDs: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.UserRepo.ListByIDs: rows: %w", err)
	}
	return users, nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Avatar, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
