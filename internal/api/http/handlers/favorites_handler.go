package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// FavoritesHandler manages the caller's bookmarks.
type FavoritesHandler struct {
	service *service.FavoriteService
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(favoriteService *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{service: favoriteService}
}

// List GET /favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), userID, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return c.JSON(postListResponse(page))
}

// Add POST /favorites/:postId.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	postID, err := idParam(c, "postId")
	if err != nil {
		return err
	}
	fav, err := h.service.Add(c.UserContext(), userID, postID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "post added to favorites",
		"favorite": dto.FavoriteResponse{
			ID:        fav.ID,
			UserID:    fav.UserID,
			PostID:    fav.PostID,
			CreatedAt: fav.CreatedAt,
		},
	})
}

// Remove DELETE /favorites/:postId.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	postID, err := idParam(c, "postId")
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.UserContext(), userID, postID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "post removed from favorites"})
}
