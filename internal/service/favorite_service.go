package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// FavoriteService manages bookmarked posts.
type FavoriteService struct {
	favorites  repository.FavoriteRepository
	posts      repository.PostRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewFavoriteService constructs the service.
func NewFavoriteService(favorites repository.FavoriteRepository, posts repository.PostRepository, dispatcher events.Dispatcher, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, posts: posts, dispatcher: dispatcher, logger: logger}
}

// List returns the caller's favorites, most recent first.
func (s *FavoriteService) List(ctx context.Context, userID int64, page int) (*PostPage, error) {
	page, err := pageNumber(page)
	if err != nil {
		return nil, err
	}
	views, total, err := s.favorites.ListPosts(ctx, userID, defaultPageSize, pageOffset(page, defaultPageSize))
	if err != nil {
		return nil, translate(err, "favorite")
	}
	return newPostPage(views, total, page, defaultPageSize), nil
}

// Add bookmarks a post. A second favorite of the same post is a Conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, postID int64) (*domain.Favorite, error) {
	if _, err := visiblePost(ctx, s.posts, domain.Authenticated{UserID: userID}, postID); err != nil {
		return nil, err
	}

	favorite := &domain.Favorite{UserID: userID, PostID: postID}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("post is already in favorites")
		}
		return nil, translate(err, "favorite")
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventPostFavorited, postID, userID, nil))
	return favorite, nil
}

// Remove deletes a bookmark. NotFound when the post was not favorited.
func (s *FavoriteService) Remove(ctx context.Context, userID, postID int64) error {
	return translate(s.favorites.Delete(ctx, userID, postID), "favorite")
}
