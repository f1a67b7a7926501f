// Package memory keeps every repository in process memory. It backs local
// development without Postgres and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

type store struct {
	mu sync.RWMutex

	seq       int64
	users     map[int64]domain.User
	posts     map[int64]domain.Post
	comments  map[int64]domain.Comment
	likes     map[engagementKey]domain.Like
	favorites map[engagementKey]domain.Favorite

	now func() time.Time
}

type engagementKey struct {
	userID int64
	postID int64
}

// New returns repositories sharing a single in-memory store.
func New() repository.Repositories {
	s := &store{
		users:     make(map[int64]domain.User),
		posts:     make(map[int64]domain.Post),
		comments:  make(map[int64]domain.Comment),
		likes:     make(map[engagementKey]domain.Like),
		favorites: make(map[engagementKey]domain.Favorite),
		now:       time.Now,
	}
	return repository.Repositories{
		Users:     &users{s},
		Posts:     &posts{s},
		Comments:  &comments{s},
		Likes:     &likes{s},
		Favorites: &favorites{s},
	}
}

func (s *store) nextID() int64 {
	s.seq++
	return s.seq
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w: %s", repository.ErrDuplicate, constraint)
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// users

type users struct{ s *store }

func (r *users) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return duplicate("users_email_key")
		}
		if existing.Username == user.Username {
			return duplicate("users_username_key")
		}
	}
	now := r.s.now()
	user.ID = r.s.nextID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *users) GetProfile(_ context.Context, id int64) (*domain.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	profile := domain.UserProfile{User: user}
	for _, post := range r.s.posts {
		if post.AuthorID == id {
			profile.PostsCount++
		}
	}
	return &profile, nil
}

func (r *users) UpdateProfile(_ context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.FullName != nil {
		user.FullName = update.FullName
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = update.AvatarURL
	}
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return &user, nil
}

func (r *users) Search(_ context.Context, term string, limit int) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []domain.User
	for _, user := range r.s.users {
		if contains(user.Username, term) || (user.FullName != nil && contains(*user.FullName, term)) {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return page(result, limit, 0), nil
}

// posts

type posts struct{ s *store }

func (r *posts) Create(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[post.AuthorID]; !ok {
		return fmt.Errorf("author %d does not exist", post.AuthorID)
	}
	for _, existing := range r.s.posts {
		if existing.Slug == post.Slug {
			return duplicate("posts_slug_key")
		}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	now := r.s.now()
	post.ID = r.s.nextID()
	post.ViewsCount = 0
	post.CreatedAt = now
	post.UpdatedAt = now
	r.s.posts[post.ID] = clonePost(*post)
	return nil
}

func (r *posts) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	post = clonePost(post)
	return &post, nil
}

func (r *posts) GetView(_ context.Context, id int64) (*domain.PostView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	view := r.s.viewOf(post)
	return &view, nil
}

func (r *posts) List(_ context.Context, filter domain.PostFilter) ([]domain.PostView, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Post
	for _, post := range r.s.posts {
		if !post.Published {
			continue
		}
		if filter.AuthorID != nil && post.AuthorID != *filter.AuthorID {
			continue
		}
		if strings.TrimSpace(filter.Search) != "" && !contains(post.Title, filter.Search) && !contains(post.Content, filter.Search) {
			continue
		}
		matched = append(matched, post)
	}
	sort.Slice(matched, func(i, j int) bool { return newerPost(matched[i], matched[j]) })

	var views []domain.PostView
	for _, post := range page(matched, filter.Limit, filter.Offset) {
		views = append(views, r.s.viewOf(post))
	}
	return views, int64(len(matched)), nil
}

func (r *posts) Update(_ context.Context, id int64, update domain.PostUpdate) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.Published != nil {
		post.Published = *update.Published
	}
	if update.Tags != nil {
		post.Tags = append([]string(nil), update.Tags...)
	}
	post.UpdatedAt = r.s.now()
	r.s.posts[id] = post
	post = clonePost(post)
	return &post, nil
}

func (r *posts) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.posts, id)
	for cid, comment := range r.s.comments {
		if comment.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	for key := range r.s.likes {
		if key.postID == id {
			delete(r.s.likes, key)
		}
	}
	for key := range r.s.favorites {
		if key.postID == id {
			delete(r.s.favorites, key)
		}
	}
	return nil
}

func (r *posts) IncrementViews(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	post.ViewsCount++
	r.s.posts[id] = post
	return post.ViewsCount, nil
}

// viewOf expects the caller to hold the lock.
func (s *store) viewOf(post domain.Post) domain.PostView {
	view := domain.PostView{Post: clonePost(post)}
	if author, ok := s.users[post.AuthorID]; ok {
		view.Author = author.Summary()
	}
	for key := range s.likes {
		if key.postID == post.ID {
			view.LikesCount++
		}
	}
	for _, comment := range s.comments {
		if comment.PostID == post.ID {
			view.CommentsCount++
		}
	}
	return view
}

func clonePost(post domain.Post) domain.Post {
	post.Tags = append([]string{}, post.Tags...)
	return post
}

func newerPost(a, b domain.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// comments

type comments struct{ s *store }

func (r *comments) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return fmt.Errorf("post %d does not exist", comment.PostID)
	}
	if comment.ParentID != nil {
		if _, ok := r.s.comments[*comment.ParentID]; !ok {
			return fmt.Errorf("parent comment %d does not exist", *comment.ParentID)
		}
	}
	now := r.s.now()
	comment.ID = r.s.nextID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *comments) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &comment, nil
}

func (r *comments) GetView(_ context.Context, id int64) (*domain.CommentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	view := r.s.commentViewOf(comment)
	return &view, nil
}

func (r *comments) ListByPost(_ context.Context, postID int64) ([]domain.CommentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Comment
	for _, comment := range r.s.comments {
		if comment.PostID == postID {
			matched = append(matched, comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	views := make([]domain.CommentView, 0, len(matched))
	for _, comment := range matched {
		views = append(views, r.s.commentViewOf(comment))
	}
	return views, nil
}

func (r *comments) UpdateContent(_ context.Context, id int64, content string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	comment.Content = content
	comment.UpdatedAt = r.s.now()
	r.s.comments[id] = comment
	return &comment, nil
}

func (r *comments) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	r.s.deleteCommentTree(id)
	return nil
}

func (s *store) deleteCommentTree(id int64) {
	delete(s.comments, id)
	for cid, comment := range s.comments {
		if comment.ParentID != nil && *comment.ParentID == id {
			s.deleteCommentTree(cid)
		}
	}
}

func (s *store) commentViewOf(comment domain.Comment) domain.CommentView {
	view := domain.CommentView{Comment: comment}
	if author, ok := s.users[comment.AuthorID]; ok {
		view.Author = author.Summary()
	}
	return view
}

// likes

type likes struct{ s *store }

func (r *likes) Toggle(_ context.Context, userID, postID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := engagementKey{userID: userID, postID: postID}
	if _, ok := r.s.likes[key]; ok {
		delete(r.s.likes, key)
		return false, nil
	}
	if _, ok := r.s.posts[postID]; !ok {
		return false, fmt.Errorf("post %d does not exist", postID)
	}
	r.s.likes[key] = domain.Like{ID: r.s.nextID(), UserID: userID, PostID: postID, CreatedAt: r.s.now()}
	return true, nil
}

func (r *likes) Exists(_ context.Context, userID, postID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.likes[engagementKey{userID: userID, postID: postID}]
	return ok, nil
}

func (r *likes) CountForPost(_ context.Context, postID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for key := range r.s.likes {
		if key.postID == postID {
			count++
		}
	}
	return count, nil
}

// favorites

type favorites struct{ s *store }

func (r *favorites) Create(_ context.Context, favorite *domain.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := engagementKey{userID: favorite.UserID, postID: favorite.PostID}
	if _, ok := r.s.favorites[key]; ok {
		return duplicate("favorites_user_id_post_id_key")
	}
	if _, ok := r.s.posts[favorite.PostID]; !ok {
		return fmt.Errorf("post %d does not exist", favorite.PostID)
	}
	favorite.ID = r.s.nextID()
	favorite.CreatedAt = r.s.now()
	r.s.favorites[key] = *favorite
	return nil
}

func (r *favorites) Delete(_ context.Context, userID, postID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := engagementKey{userID: userID, postID: postID}
	if _, ok := r.s.favorites[key]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.favorites, key)
	return nil
}

func (r *favorites) ListPosts(_ context.Context, userID int64, limit, offset int) ([]domain.PostView, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Favorite
	for key, favorite := range r.s.favorites {
		if key.userID != userID {
			continue
		}
		if post, ok := r.s.posts[favorite.PostID]; ok && (post.Published || post.AuthorID == userID) {
			matched = append(matched, favorite)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	var views []domain.PostView
	for _, favorite := range page(matched, limit, offset) {
		if post, ok := r.s.posts[favorite.PostID]; ok {
			views = append(views, r.s.viewOf(post))
		}
	}
	return views, int64(len(matched)), nil
}
