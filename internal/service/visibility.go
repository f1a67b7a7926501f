package service

import (
	"context"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// visiblePost loads a post the caller may see. Another user's draft is
// reported as NotFound, exactly like a missing post.
func visiblePost(ctx context.Context, posts repository.PostRepository, identity domain.Identity, id int64) (*domain.Post, error) {
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if !canSee(identity, post) {
		return nil, apperrors.NewNotFound("post")
	}
	return post, nil
}

func canSee(identity domain.Identity, post *domain.Post) bool {
	if post.Published {
		return true
	}
	userID, ok := domain.UserIDOf(identity)
	return ok && userID == post.AuthorID
}
