package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
	Search(ctx context.Context, term string, limit int) ([]domain.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, full_name, bio, avatar_url, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, full_name)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepository) GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error) {
	const query = `
        SELECT u.id, u.username, u.email, u.password_hash, u.full_name, u.bio, u.avatar_url, u.created_at, u.updated_at,
               (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id)
        FROM users u WHERE u.id=$1`

	var profile domain.UserProfile
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.PasswordHash,
		&profile.FullName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.PostsCount,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	const query = `
        UPDATE users SET full_name=COALESCE($1, full_name), bio=COALESCE($2, bio),
            avatar_url=COALESCE($3, avatar_url), updated_at=NOW()
        WHERE id=$4
        RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, update.FullName, update.Bio, update.AvatarURL, id))
}

func (r *userRepository) Search(ctx context.Context, term string, limit int) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users
        WHERE username ILIKE $1 OR full_name ILIKE $1
        ORDER BY username
        LIMIT $2`

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, query, likePattern(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Bio,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
