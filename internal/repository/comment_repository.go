package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRepository stores post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	GetView(ctx context.Context, id int64) (*domain.CommentView, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.CommentView, error)
	UpdateContent(ctx context.Context, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db DB
}

// NewCommentRepository constructs repository.
func NewCommentRepository(db DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `id, post_id, author_id, parent_id, content, created_at, updated_at`

const commentViewSelect = `
        SELECT c.id, c.post_id, c.author_id, c.parent_id, c.content, c.created_at, c.updated_at,
               u.username, u.full_name, u.avatar_url
        FROM comments c
        JOIN users u ON u.id = c.author_id`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (post_id, author_id, parent_id, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		comment.PostID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	return mapWriteError(err)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id=$1`
	return scanComment(r.db.QueryRow(ctx, query, id))
}

func (r *commentRepository) GetView(ctx context.Context, id int64) (*domain.CommentView, error) {
	const query = commentViewSelect + ` WHERE c.id=$1`
	return scanCommentView(r.db.QueryRow(ctx, query, id))
}

// ListByPost returns every comment of a post, flat, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]domain.CommentView, error) {
	const query = commentViewSelect + ` WHERE c.post_id=$1 ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.CommentView
	for rows.Next() {
		view, err := scanCommentView(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *view)
	}
	return comments, rows.Err()
}

func (r *commentRepository) UpdateContent(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	const query = `UPDATE comments SET content=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + commentColumns
	return scanComment(r.db.QueryRow(ctx, query, content, id))
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.ParentID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func scanCommentView(row pgx.Row) (*domain.CommentView, error) {
	var view domain.CommentView
	if err := row.Scan(
		&view.ID,
		&view.PostID,
		&view.AuthorID,
		&view.ParentID,
		&view.Content,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Author.Username,
		&view.Author.FullName,
		&view.Author.AvatarURL,
	); err != nil {
		return nil, err
	}
	view.Author.ID = view.AuthorID
	return &view, nil
}
