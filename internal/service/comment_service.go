package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const previewLength = 80

// CommentService manages threaded comments.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CommentCreateInput describes a new comment or reply.
type CommentCreateInput struct {
	PostID   int64
	ParentID *int64
	Content  string
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, dispatcher: dispatcher, logger: logger}
}

// ListForPost returns the comment tree of a post: top-level comments newest
// first, replies nested under their parent oldest first.
func (s *CommentService) ListForPost(ctx context.Context, identity domain.Identity, postID int64) ([]domain.CommentView, error) {
	if _, err := visiblePost(ctx, s.posts, identity, postID); err != nil {
		return nil, err
	}
	flat, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, translate(err, "comment")
	}
	return buildThread(flat), nil
}

// Create adds a comment. A reply's parent must belong to the same post.
func (s *CommentService) Create(ctx context.Context, userID int64, input CommentCreateInput) (*domain.CommentView, error) {
	content, err := commentContent(input.Content)
	if err != nil {
		return nil, err
	}
	if _, err := visiblePost(ctx, s.posts, domain.Authenticated{UserID: userID}, input.PostID); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, invalidParent("parent comment does not exist")
			}
			return nil, translate(err, "comment")
		}
		if parent.PostID != input.PostID {
			return nil, invalidParent("parent comment belongs to another post")
		}
	}

	comment := &domain.Comment{
		PostID:   input.PostID,
		AuthorID: userID,
		ParentID: input.ParentID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, translate(err, "comment")
	}

	view, err := s.comments.GetView(ctx, comment.ID)
	if err != nil {
		return nil, translate(err, "comment")
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCommentAdded, comment.PostID, userID, events.CommentAddedPayload{
		CommentID:      comment.ID,
		ParentID:       comment.ParentID,
		ContentPreview: preview(comment.Content),
	}))
	return view, nil
}

// Update replaces the content of a comment owned by userID.
func (s *CommentService) Update(ctx context.Context, userID, id int64, content string) (*domain.CommentView, error) {
	trimmed, err := commentContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.assertCommentOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	if _, err := s.comments.UpdateContent(ctx, id, trimmed); err != nil {
		return nil, translate(err, "comment")
	}
	view, err := s.comments.GetView(ctx, id)
	if err != nil {
		return nil, translate(err, "comment")
	}
	return view, nil
}

// Delete removes a comment owned by userID and its replies.
func (s *CommentService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.assertCommentOwner(ctx, userID, id); err != nil {
		return err
	}
	return translate(s.comments.Delete(ctx, id), "comment")
}

func (s *CommentService) assertCommentOwner(ctx context.Context, userID, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return translate(err, "comment")
	}
	return auth.AssertOwner(userID, comment.AuthorID)
}

// commentContent trims content and rejects what is left empty.
func commentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperrors.NewValidationError("validation failed", []apperrors.FieldViolation{{
			Field:   "content",
			Rule:    "required",
			Message: "is required",
		}})
	}
	return trimmed, nil
}

func invalidParent(message string) error {
	return apperrors.NewValidationError(message, []apperrors.FieldViolation{{
		Field:   "parentId",
		Rule:    "parent",
		Message: message,
	}})
}

// buildThread expects flat to be ordered oldest first.
func buildThread(flat []domain.CommentView) []domain.CommentView {
	children := make(map[int64][]domain.CommentView)
	var roots []domain.CommentView
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var attach func(c domain.CommentView) domain.CommentView
	attach = func(c domain.CommentView) domain.CommentView {
		replies := children[c.ID]
		c.Replies = make([]domain.CommentView, 0, len(replies))
		for _, reply := range replies {
			c.Replies = append(c.Replies, attach(reply))
		}
		return c
	}

	thread := make([]domain.CommentView, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		thread = append(thread, attach(roots[i]))
	}
	return thread
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
