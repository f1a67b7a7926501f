package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
)

// UsersHandler exposes user profile endpoints.
type UsersHandler struct {
	service   *service.UserService
	validator *Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, validator *Validator) *UsersHandler {
	return &UsersHandler{service: userService, validator: validator}
}

// Search GET /users/search?q=.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	users, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	items := make([]dto.PublicUserResponse, 0, len(users))
	for i := range users {
		items = append(items, publicUser(&users[i]))
	}
	return c.JSON(items)
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.service.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(profile, true))
}

// UpdateMe PATCH /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := auth.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	profile, err := h.service.UpdateProfile(c.UserContext(), userID, domain.ProfileUpdate{
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(profile, true))
}

// Profile GET /users/:id.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.service.Profile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(profile, false))
}

// Posts GET /users/:id/posts.
func (h *UsersHandler) Posts(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	page, err := h.service.Posts(c.UserContext(), id, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return c.JSON(postListResponse(page))
}
