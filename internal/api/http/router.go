package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	Comments       *handlers.CommentsHandler
	Favorites      *handlers.FavoritesHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	required := cfg.AuthMiddleware.Required
	optional := cfg.AuthMiddleware.Optional

	api := app.Group("/api")

	registerAuthRoutes(api.Group("/auth"), cfg.Auth)
	registerAuthRoutes(app.Group("/auth"), cfg.Auth)

	posts := api.Group("/posts")
	posts.Get("/", optional, cfg.Posts.List)
	posts.Get("/:id", optional, cfg.Posts.Get)
	posts.Post("/", required, cfg.Posts.Create)
	posts.Patch("/:id", required, cfg.Posts.Update)
	posts.Put("/:id", required, cfg.Posts.Update)
	posts.Delete("/:id", required, cfg.Posts.Delete)
	posts.Post("/:id/like", required, cfg.Posts.ToggleLike)

	comments := api.Group("/comments")
	comments.Get("/post/:postId", optional, cfg.Comments.ListForPost)
	comments.Post("/", required, cfg.Comments.Create)
	comments.Patch("/:id", required, cfg.Comments.Update)
	comments.Delete("/:id", required, cfg.Comments.Delete)

	favorites := api.Group("/favorites", required)
	favorites.Get("/", cfg.Favorites.List)
	favorites.Post("/:postId", cfg.Favorites.Add)
	favorites.Delete("/:postId", cfg.Favorites.Remove)

	users := api.Group("/users")
	users.Get("/search", cfg.Users.Search)
	users.Get("/me", required, cfg.Users.Me)
	users.Patch("/me", required, cfg.Users.UpdateMe)
	users.Get("/:id", cfg.Users.Profile)
	users.Get("/:id/posts", cfg.Users.Posts)
}

func registerAuthRoutes(group fiber.Router, h *handlers.AuthHandler) {
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/refresh", h.Refresh)
}
