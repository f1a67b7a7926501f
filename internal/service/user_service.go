package service

import (
	"context"
	"strings"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

const searchLimit = 10

// UserService exposes profile reads and updates.
type UserService struct {
	users repository.UserRepository
	posts repository.PostRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, posts repository.PostRepository) *UserService {
	return &UserService{users: users, posts: posts}
}

// Search matches username or full name. An empty term matches nobody.
func (s *UserService) Search(ctx context.Context, term string) ([]domain.User, error) {
	if strings.TrimSpace(term) == "" {
		return []domain.User{}, nil
	}
	users, err := s.users.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, translate(err, "user")
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Profile returns a user with post counter.
func (s *UserService) Profile(ctx context.Context, id int64) (*domain.UserProfile, error) {
	profile, err := s.users.GetProfile(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields and returns the refreshed profile.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if _, err := s.users.UpdateProfile(ctx, id, update); err != nil {
		return nil, translate(err, "user")
	}
	return s.Profile(ctx, id)
}

// Posts lists a user's published posts.
func (s *UserService) Posts(ctx context.Context, id int64, page int) (*PostPage, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, translate(err, "user")
	}
	page, err := pageNumber(page)
	if err != nil {
		return nil, err
	}
	views, total, err := s.posts.List(ctx, domain.PostFilter{
		AuthorID: &id,
		Limit:    defaultPageSize,
		Offset:   pageOffset(page, defaultPageSize),
	})
	if err != nil {
		return nil, translate(err, "post")
	}
	return newPostPage(views, total, page, defaultPageSize), nil
}
