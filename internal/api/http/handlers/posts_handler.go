package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
)

// PostsHandler manages post endpoints.
type PostsHandler struct {
	service   *service.PostService
	validator *Validator
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService, validator *Validator) *PostsHandler {
	return &PostsHandler{service: postService, validator: validator}
}

// List GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	var q dto.ListPostsQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}
	query := service.PostListQuery{Page: q.Page, Limit: q.Limit, Search: q.Search}
	if q.AuthorID > 0 {
		query.AuthorID = &q.AuthorID
	}
	page, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(postListResponse(page))
}

// Get GET /posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.UserContext(), auth.IdentityFromContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(postViewResponse(&detail.PostView, detail.IsLiked))
}

// Create POST /posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreatePostRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	input := service.PostCreateInput{Title: req.Title, Content: req.Content, Tags: req.Tags}
	if req.Published != nil {
		input.Published = *req.Published
	}
	post, err := h.service.Create(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(postResponse(post))
}

// Update PATCH /posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePostRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	post, err := h.service.Update(c.UserContext(), userID, id, domain.PostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		Tags:      req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(postResponse(post))
}

// Delete DELETE /posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
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
	return c.JSON(dto.MessageResponse{Message: "post deleted"})
}

// ToggleLike POST /posts/:id/like.
func (h *PostsHandler) ToggleLike(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.service.ToggleLike(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	message := "like removed"
	if res.Liked {
		message = "post liked"
	}
	return c.JSON(dto.LikeResponse{Message: message, Liked: res.Liked, LikesCount: res.LikesCount})
}
