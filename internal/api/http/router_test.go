package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/ratelimit"
	"github.com/spec-kit/blog-service/internal/repository/memory"
	"github.com/spec-kit/blog-service/internal/service"
)

type testServer struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, limiter *ratelimit.Limiter) *testServer {
	t.Helper()
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  "http-access",
		RefreshSecret: "http-refresh",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	repos := memory.New()
	dispatcher := events.NewInMemoryDispatcher()
	validator := handlers.NewValidator()

	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   repos.Posts,
		LikeRepo:   repos.Likes,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := NewApp(ServerConfig{
		AppName:     "blog-test",
		ExposeStack: true,
		Middleware: MiddlewareConfig{
			Logger:       logger,
			Metrics:      metrics,
			Timeout:      5 * time.Second,
			AllowOrigins: "*",
			Limiter:      limiter,
		},
	}, RouteConfig{
		Health:         handlers.NewHealthHandler("blog-test", "test", nil, nil, metrics),
		Auth:           handlers.NewAuthHandler(service.NewAuthService(repos.Users, tokens, bcrypt.MinCost, logger), validator),
		Posts:          handlers.NewPostsHandler(postService, validator),
		Comments:       handlers.NewCommentsHandler(service.NewCommentService(repos.Comments, repos.Posts, dispatcher, logger), validator),
		Favorites:      handlers.NewFavoritesHandler(service.NewFavoriteService(repos.Favorites, repos.Posts, dispatcher, logger)),
		Users:          handlers.NewUsersHandler(service.NewUserService(repos.Users, repos.Posts), validator),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return &testServer{app: app, tokens: tokens, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, username string) (access, refresh string) {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["accessToken"].(string), body["refreshToken"].(string)
}

func (s *testServer) createPost(t *testing.T, token string, published bool) int64 {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/api/posts", token, fiber.Map{
		"title":     "Routing in Go",
		"content":   "A long enough body for a post.",
		"published": published,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return int64(body["id"].(float64))
}

func TestRegisterLoginAndAuthAliases(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "ann")

	status, body := s.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{"email": "ANN@example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["accessToken"])
	assert.Equal(t, "ann", body["user"].(map[string]any)["username"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ann@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "ann2", "email": "ann@example.com", "password": "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestValidationErrorEnvelope(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "ab", "email": "not-an-email", "password": "123",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	details := body["details"].([]any)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"username", "email", "password"}, fields)
}

func TestRefreshFlow(t *testing.T) {
	s := newTestServer(t, nil)
	access, refresh := s.register(t, "ann")

	status, body := s.do(t, fiber.MethodPost, "/api/auth/refresh", "", fiber.Map{"refreshToken": refresh})
	require.Equal(t, fiber.StatusOK, status)
	newAccess := body["accessToken"].(string)
	status, _ = s.do(t, fiber.MethodGet, "/api/users/me", newAccess, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, fiber.MethodPost, "/api/auth/refresh", "", fiber.Map{"refreshToken": access})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", body["code"])

	status, _ = s.do(t, fiber.MethodPost, "/api/auth/refresh", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	s := newTestServer(t, nil)
	_, refresh := s.register(t, "ann")

	status, body := s.do(t, fiber.MethodGet, "/api/users/me", refresh, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body["code"])
}

func TestOwnershipOnPostMutations(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.register(t, "ann")
	other, _ := s.register(t, "bob")
	id := s.createPost(t, owner, true)
	path := fmt.Sprintf("/api/posts/%d", id)

	status, _ := s.do(t, fiber.MethodPatch, path, "", fiber.Map{"title": "Hijacked title"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := s.do(t, fiber.MethodPatch, path, other, fiber.Map{"title": "Hijacked title"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = s.do(t, fiber.MethodDelete, path, other, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.do(t, fiber.MethodPatch, path, owner, fiber.Map{"title": "Routing in Go, revised"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Routing in Go, revised", body["title"])

	status, _ = s.do(t, fiber.MethodPatch, "/api/posts/9999", other, fiber.Map{"title": "Missing post"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodDelete, path, owner, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestOptionalAuthOnPostDetail(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.register(t, "ann")
	id := s.createPost(t, owner, true)
	path := fmt.Sprintf("/api/posts/%d", id)

	status, body := s.do(t, fiber.MethodGet, path, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	_, present := body["isLiked"]
	assert.False(t, present)

	status, body = s.do(t, fiber.MethodGet, path, "garbage", nil)
	require.Equal(t, fiber.StatusOK, status)
	_, present = body["isLiked"]
	assert.False(t, present)

	status, body = s.do(t, fiber.MethodPost, path+"/like", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likesCount"])

	status, body = s.do(t, fiber.MethodGet, path, owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["isLiked"])

	status, _ = s.do(t, fiber.MethodPost, path+"/like", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestDraftsAreHiddenFromOthers(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.register(t, "ann")
	other, _ := s.register(t, "bob")
	id := s.createPost(t, owner, false)
	path := fmt.Sprintf("/api/posts/%d", id)

	status, _ := s.do(t, fiber.MethodGet, path, other, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = s.do(t, fiber.MethodGet, path, owner, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, fiber.MethodGet, "/api/posts", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["posts"])
	assert.Equal(t, float64(0), body["pagination"].(map[string]any)["total"])
}

func TestFavoritesLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.register(t, "ann")
	id := s.createPost(t, token, true)
	path := fmt.Sprintf("/api/favorites/%d", id)

	status, _ := s.do(t, fiber.MethodPost, path, token, nil)
	assert.Equal(t, fiber.StatusCreated, status)
	status, body := s.do(t, fiber.MethodPost, path, token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	status, body = s.do(t, fiber.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["posts"], 1)

	status, _ = s.do(t, fiber.MethodDelete, path, token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, fiber.MethodDelete, path, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/favorites/9999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = s.do(t, fiber.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCommentThreadAndOwnership(t *testing.T) {
	s := newTestServer(t, nil)
	ann, _ := s.register(t, "ann")
	bob, _ := s.register(t, "bob")
	postID := s.createPost(t, ann, true)

	status, body := s.do(t, fiber.MethodPost, "/api/comments", bob, fiber.Map{"postId": postID, "content": "first"})
	require.Equal(t, fiber.StatusCreated, status)
	parentID := body["id"].(float64)

	status, _ = s.do(t, fiber.MethodPost, "/api/comments", ann, fiber.Map{"postId": postID, "content": "reply", "parentId": parentID})
	require.Equal(t, fiber.StatusCreated, status)

	status, body = s.do(t, fiber.MethodPost, "/api/comments", ann, fiber.Map{"postId": postID, "content": "orphan", "parentId": 4242})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	req := httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/comments/post/%d", postID), nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var thread []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&thread))
	require.Len(t, thread, 1)
	assert.Len(t, thread[0]["replies"], 1)

	commentPath := fmt.Sprintf("/api/comments/%d", int64(parentID))
	status, _ = s.do(t, fiber.MethodDelete, commentPath, ann, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = s.do(t, fiber.MethodPatch, commentPath, bob, fiber.Map{"content": "edited"})
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, fiber.MethodDelete, commentPath, bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestUserProfilesHideEmailFromOthers(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.register(t, "ann")

	status, me := s.do(t, fiber.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ann@example.com", me["email"])

	status, public := s.do(t, fiber.MethodGet, fmt.Sprintf("/api/users/%d", int64(me["id"].(float64))), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	_, hasEmail := public["email"]
	assert.False(t, hasEmail)

	status, body := s.do(t, fiber.MethodPatch, "/api/users/me", token, fiber.Map{"avatarUrl": "not a url"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

func TestMalformedIDAndUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, fiber.MethodGet, "/api/posts/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	status, body = s.do(t, fiber.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRateLimitRejectsAfterMax(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := newTestServer(t, ratelimit.New(client, ratelimit.Config{Max: 2, Window: time.Minute}))

	for i := 0; i < 2; i++ {
		status, _ := s.do(t, fiber.MethodGet, "/health", "", nil)
		require.Equal(t, fiber.StatusOK, status)
	}
	status, body := s.do(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()
	s := newTestServer(t, ratelimit.New(client, ratelimit.Config{Max: 1, Window: time.Minute}))

	for i := 0; i < 3; i++ {
		status, _ := s.do(t, fiber.MethodGet, "/health", "", nil)
		assert.Equal(t, fiber.StatusOK, status)
	}
}

func TestPanicsBecomeInternalErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	status, body := s.do(t, fiber.MethodGet, "/boom", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "internal server error", body["error"])
	assert.Contains(t, body["stack"], "kaboom")
}

func TestMetricsSnapshotCountsRequests(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, fiber.MethodGet, "/health", "", nil)

	status, body := s.do(t, fiber.MethodGet, "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["requests"])
}

func TestDraftsStayHiddenAcrossEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.register(t, "ann")
	other, _ := s.register(t, "bob")
	id := s.createPost(t, owner, false)

	status, _ := s.do(t, fiber.MethodPost, fmt.Sprintf("/api/posts/%d/like", id), other, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodPost, fmt.Sprintf("/api/favorites/%d", id), other, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/comments", other, fiber.Map{"postId": id, "content": "peek"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/comments/post/%d", id), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/comments/post/%d", id), other, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodPatch, fmt.Sprintf("/api/posts/%d", id), other, fiber.Map{"title": "Hijacked title"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodPost, fmt.Sprintf("/api/favorites/%d", id), owner, nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/comments/post/%d", id), owner, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, fiber.MethodGet, "/api/favorites", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["posts"], 1)
}

func TestUnpublishedFavoriteDropsFromOtherUsersList(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.register(t, "ann")
	other, _ := s.register(t, "bob")
	id := s.createPost(t, owner, true)

	status, _ := s.do(t, fiber.MethodPost, fmt.Sprintf("/api/favorites/%d", id), other, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = s.do(t, fiber.MethodPatch, fmt.Sprintf("/api/posts/%d", id), owner, fiber.Map{"published": false})
	require.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, fiber.MethodGet, "/api/favorites", other, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["posts"])
	assert.Equal(t, float64(0), body["pagination"].(map[string]any)["total"])
}

func TestHugePageIsRejected(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.register(t, "ann")

	status, body := s.do(t, fiber.MethodGet, "/api/posts?page=922337203685477582", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	status, _ = s.do(t, fiber.MethodGet, "/api/favorites?page=922337203685477582", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWhitespaceCommentIsRejected(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.register(t, "ann")
	id := s.createPost(t, token, true)

	status, body := s.do(t, fiber.MethodPost, "/api/comments", token, fiber.Map{"postId": id, "content": "   "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}
