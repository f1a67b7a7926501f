package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	GetView(ctx context.Context, id int64) (*domain.PostView, error)
	List(ctx context.Context, filter domain.PostFilter) ([]domain.PostView, int64, error)
	Update(ctx context.Context, id int64, update domain.PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) (int64, error)
}

type postRepository struct {
	db DB
}

// NewPostRepository instantiates repository.
func NewPostRepository(db DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, author_id, title, content, slug, published, tags, views_count, created_at, updated_at`

// postViewSelect joins the author and engagement counters onto posts aliased p.
const postViewSelect = `
        SELECT p.id, p.author_id, p.title, p.content, p.slug, p.published, p.tags, p.views_count,
               p.created_at, p.updated_at,
               u.username, u.full_name, u.avatar_url,
               (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
               (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
        FROM posts p
        JOIN users u ON u.id = p.author_id`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (author_id, title, content, slug, published, tags)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, views_count, created_at, updated_at`

	if post.Tags == nil {
		post.Tags = []string{}
	}
	err := r.db.QueryRow(ctx, query,
		post.AuthorID,
		post.Title,
		post.Content,
		post.Slug,
		post.Published,
		post.Tags,
	).Scan(&post.ID, &post.ViewsCount, &post.CreatedAt, &post.UpdatedAt)
	return mapWriteError(err)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE id=$1`
	return scanPost(r.db.QueryRow(ctx, query, id))
}

func (r *postRepository) GetView(ctx context.Context, id int64) (*domain.PostView, error) {
	const query = postViewSelect + ` WHERE p.id=$1`
	return scanPostView(r.db.QueryRow(ctx, query, id))
}

func (r *postRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.PostView, int64, error) {
	clauses := []string{"p.published = TRUE"}
	args := []any{}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("p.author_id=$%d", len(args)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, likePattern(filter.Search))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s)", placeholder, placeholder))
	}
	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM posts p WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.created_at DESC, p.id DESC LIMIT %d OFFSET %d`,
		postViewSelect, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
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

func (r *postRepository) Update(ctx context.Context, id int64, update domain.PostUpdate) (*domain.Post, error) {
	const query = `
        UPDATE posts SET title=COALESCE($1, title), content=COALESCE($2, content),
            published=COALESCE($3, published), tags=COALESCE($4, tags), updated_at=NOW()
        WHERE id=$5
        RETURNING ` + postColumns

	return scanPost(r.db.QueryRow(ctx, query, update.Title, update.Content, update.Published, update.Tags, id))
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	const query = `UPDATE posts SET views_count = views_count + 1 WHERE id=$1 RETURNING views_count`

	var views int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&views); err != nil {
		return 0, err
	}
	return views, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Slug,
		&post.Published,
		&post.Tags,
		&post.ViewsCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func scanPostView(row pgx.Row) (*domain.PostView, error) {
	var view domain.PostView
	if err := row.Scan(
		&view.ID,
		&view.AuthorID,
		&view.Title,
		&view.Content,
		&view.Slug,
		&view.Published,
		&view.Tags,
		&view.ViewsCount,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Author.Username,
		&view.Author.FullName,
		&view.Author.AvatarURL,
		&view.LikesCount,
		&view.CommentsCount,
	); err != nil {
		return nil, err
	}
	view.Author.ID = view.AuthorID
	return &view, nil
}

func scanPostViews(rows pgx.Rows) ([]domain.PostView, error) {
	var result []domain.PostView
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *view)
	}
	return result, rows.Err()
}
