package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
)

// AuthHandler exposes registration, login and token refresh.
type AuthHandler struct {
	service   *service.AuthService
	validator *Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, validator *Validator) *AuthHandler {
	return &AuthHandler{service: authService, validator: validator}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	res, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse("user registered successfully", res))
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	res, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse("logged in successfully", res))
}

// Refresh POST /auth/refresh. An empty body counts as a missing token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, h.validator, &req); err != nil {
			return err
		}
	}
	access, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{AccessToken: access.Value})
}

func authResponse(message string, res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Message:      message,
		AccessToken:  res.Tokens.Access.Value,
		RefreshToken: res.Tokens.Refresh.Value,
		User:         authUser(res.User),
	}
}
