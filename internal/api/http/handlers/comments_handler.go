package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	service   *service.CommentService
	validator *Validator
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService, validator *Validator) *CommentsHandler {
	return &CommentsHandler{service: commentService, validator: validator}
}

// ListForPost GET /comments/post/:postId.
func (h *CommentsHandler) ListForPost(c *fiber.Ctx) error {
	postID, err := idParam(c, "postId")
	if err != nil {
		return err
	}
	thread, err := h.service.ListForPost(c.UserContext(), auth.IdentityFromContext(c), postID)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(thread))
	for i := range thread {
		items = append(items, commentResponse(&thread[i]))
	}
	return c.JSON(items)
}

// Create POST /comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	comment, err := h.service.Create(c.UserContext(), userID, service.CommentCreateInput{
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(commentResponse(comment))
}

// Update PATCH /comments/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	comment, err := h.service.Update(c.UserContext(), userID, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(commentResponse(comment))
}

// Delete DELETE /comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "comment deleted"})
}
