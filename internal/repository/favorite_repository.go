package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// FavoriteRepository persists bookmarked posts.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *domain.Favorite) error
	Delete(ctx context.Context, userID, postID int64) error
	ListPosts(ctx context.Context, userID int64, limit, offset int) ([]domain.PostView, int64, error)
}

type favoriteRepository struct {
	db DB
}

// NewFavoriteRepository builds repository.
func NewFavoriteRepository(db DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	const query = `
        INSERT INTO favorites (user_id, post_id)
        VALUES ($1,$2)
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, favorite.UserID, favorite.PostID).Scan(&favorite.ID, &favorite.CreatedAt)
	return mapWriteError(err)
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, postID int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND post_id=$2`, userID, postID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPosts returns the user's favorited posts, most recently favorited first.
// Drafts are only listed for their author.
func (r *favoriteRepository) ListPosts(ctx context.Context, userID int64, limit, offset int) ([]domain.PostView, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favorites f
        JOIN posts p ON p.id = f.post_id
        WHERE f.user_id=$1 AND (p.published OR p.author_id=$1)`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`%s
        JOIN favorites f ON f.post_id = p.id
        WHERE f.user_id=$1 AND (p.published OR p.author_id=$1)
        ORDER BY f.created_at DESC, f.id DESC
        LIMIT %d OFFSET %d`, postViewSelect, limit, offset)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := scanPostViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
