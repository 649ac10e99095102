package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pagefeed/social-system/internal/api/handler"
	"github.com/pagefeed/social-system/internal/api/middleware"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// Services groups the use-case implementations the router exposes.
type Services struct {
	Auth ports.AuthService
	Page ports.PageService
	Post ports.PostService
	Feed ports.FeedService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("social"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	pageHandler := handler.NewPageHandler(svc.Page)
	postHandler := handler.NewPostHandler(svc.Post)
	feedHandler := handler.NewFeedHandler(svc.Feed)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(jwtSecret)
	staffOnly := middleware.RBAC(string(domain.RoleModerator), string(domain.RoleAdmin))

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated API ---
	v1 := e.Group("/v1", authRequired)

	pages := v1.Group("/pages")
	pages.POST("", pageHandler.Create)
	pages.GET("", pageHandler.List)
	pages.GET("/:id", pageHandler.Get)
	pages.PUT("/:id", pageHandler.Update)
	pages.DELETE("/:id", pageHandler.Delete)
	pages.PUT("/:id/follow", pageHandler.Follow)
	pages.GET("/:id/requests", pageHandler.ListRequests)
	pages.PUT("/:id/requests/accept", pageHandler.AcceptRequests)
	pages.PUT("/:id/requests/decline", pageHandler.DeclineRequests)
	pages.PUT("/:id/block", pageHandler.Block, staffOnly)

	posts := v1.Group("/posts")
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.List)
	posts.GET("/liked", postHandler.Liked)
	posts.GET("/:id", postHandler.Get)
	posts.PUT("/:id", postHandler.Update)
	posts.DELETE("/:id", postHandler.Delete)
	posts.PUT("/:id/like", postHandler.Like)

	v1.GET("/tags", pageHandler.Tags)
	v1.GET("/feed", feedHandler.Newsfeed)

	users := v1.Group("/users", staffOnly)
	users.GET("", authHandler.ListUsers)
	users.GET("/:id", authHandler.GetUser)
	users.PUT("/:id/block", authHandler.BlockUser)

	return e
}
