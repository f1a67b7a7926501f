package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]`)
)

// PostService coordinates post workflows.
type PostService struct {
	posts      repository.PostRepository
	likes      repository.LikeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// PostDependencies bundles repositories for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	LikeRepo   repository.LikeRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PostCreateInput describes post creation payload.
type PostCreateInput struct {
	Title     string
	Content   string
	Published bool
	Tags      []string
}

// PostListQuery describes listing filters. Page is 1-based.
type PostListQuery struct {
	Page     int
	Limit    int
	Search   string
	AuthorID *int64
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []domain.PostView
	Page  int
	Limit int
	Total int64
	Pages int
}

// PostDetail is a single post as seen by a caller. IsLiked is nil for anonymous callers.
type PostDetail struct {
	domain.PostView
	IsLiked *bool
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int64
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	return &PostService{
		posts:      deps.PostRepo,
		likes:      deps.LikeRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// List returns published posts, newest first.
func (s *PostService) List(ctx context.Context, query PostListQuery) (*PostPage, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page, err := pageNumber(query.Page)
	if err != nil {
		return nil, err
	}

	views, total, err := s.posts.List(ctx, domain.PostFilter{
		AuthorID: query.AuthorID,
		Search:   query.Search,
		Limit:    limit,
		Offset:   pageOffset(page, limit),
	})
	if err != nil {
		return nil, translate(err, "post")
	}
	return newPostPage(views, total, page, limit), nil
}

// Get loads a post and counts the view. Drafts are only visible to their author.
func (s *PostService) Get(ctx context.Context, identity domain.Identity, id int64) (*PostDetail, error) {
	view, err := s.posts.GetView(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}

	if !canSee(identity, &view.Post) {
		return nil, apperrors.NewNotFound("post")
	}
	userID, authenticated := domain.UserIDOf(identity)

	views, err := s.posts.IncrementViews(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	view.ViewsCount = views

	detail := &PostDetail{PostView: *view}
	if authenticated {
		liked, err := s.likes.Exists(ctx, userID, id)
		if err != nil {
			return nil, translate(err, "like")
		}
		detail.IsLiked = &liked
	}
	return detail, nil
}

// Create stores a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID int64, input PostCreateInput) (*domain.Post, error) {
	post := &domain.Post{
		AuthorID:  userID,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Slug:      slugify(input.Title, s.now()),
		Published: input.Published,
		Tags:      normalizeTags(input.Tags),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, translate(err, "post")
		}
		// Two posts with the same title in the same millisecond share a slug.
		post.Slug += "-" + uuid.NewString()[:8]
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, translate(err, "post")
		}
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventPostCreated, post.ID, userID, events.PostCreatedPayload{
		Title:     post.Title,
		Slug:      post.Slug,
		Published: post.Published,
	}))
	return post, nil
}

// Update changes the given fields of a post owned by userID.
func (s *PostService) Update(ctx context.Context, userID, id int64, update domain.PostUpdate) (*domain.Post, error) {
	if err := s.assertPostOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		update.Title = &title
	}
	if update.Tags != nil {
		update.Tags = normalizeTags(update.Tags)
	}

	post, err := s.posts.Update(ctx, id, update)
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// Delete removes a post owned by userID together with its comments and reactions.
func (s *PostService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.assertPostOwner(ctx, userID, id); err != nil {
		return err
	}
	return translate(s.posts.Delete(ctx, id), "post")
}

// ToggleLike likes the post, or removes an existing like.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID int64) (*LikeResult, error) {
	if _, err := visiblePost(ctx, s.posts, domain.Authenticated{UserID: userID}, postID); err != nil {
		return nil, err
	}

	liked, err := s.likes.Toggle(ctx, userID, postID)
	if err != nil {
		return nil, translate(err, "like")
	}
	count, err := s.likes.CountForPost(ctx, postID)
	if err != nil {
		return nil, translate(err, "like")
	}

	if liked {
		publish(ctx, s.dispatcher, s.logger, events.New(events.EventPostLiked, postID, userID, events.PostLikedPayload{
			Liked:      liked,
			LikesCount: count,
		}))
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// assertPostOwner reports NotFound for missing posts, and for other users'
// drafts, before checking ownership.
func (s *PostService) assertPostOwner(ctx context.Context, userID, id int64) error {
	post, err := visiblePost(ctx, s.posts, domain.Authenticated{UserID: userID}, id)
	if err != nil {
		return err
	}
	return auth.AssertOwner(userID, post.AuthorID)
}

func newPostPage(views []domain.PostView, total int64, page, limit int) *PostPage {
	if views == nil {
		views = []domain.PostView{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PostPage{Posts: views, Page: page, Limit: limit, Total: total, Pages: pages}
}

func slugify(title string, now time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	return slug + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
