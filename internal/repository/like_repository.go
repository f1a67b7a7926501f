package repository

import (
	"context"
)

// LikeRepository persists post likes.
type LikeRepository interface {
	// Toggle removes the like when present and adds it otherwise. It reports whether the post is liked afterwards.
	Toggle(ctx context.Context, userID, postID int64) (bool, error)
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	CountForPost(ctx context.Context, postID int64) (int64, error)
}

type likeRepository struct {
	db DB
}

// NewLikeRepository returns repository.
func NewLikeRepository(db DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, postID int64) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id=$1 AND post_id=$2`, userID, postID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO likes (user_id, post_id) VALUES ($1,$2)
        ON CONFLICT (user_id, post_id) DO NOTHING`, userID, postID)
	if err != nil {
		return false, mapWriteError(err)
	}
	return true, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id=$1 AND post_id=$2)`, userID, postID,
	).Scan(&exists)
	return exists, err
}

func (r *likeRepository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE post_id=$1`, postID).Scan(&count)
	return count, err
}
