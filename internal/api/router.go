package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkpress/blog-api/internal/api/handler"
	"github.com/inkpress/blog-api/internal/api/middleware"
	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// Dependencies carries everything the router needs. Services are constructed
// in main so their collaborators (mail dispatcher, image store, throttle) can
// share lifecycles with the process.
type Dependencies struct {
	Auth       ports.AuthService
	Posts      ports.PostService
	Comments   ports.CommentService
	Newsletter ports.NewsletterService

	Tokens ports.TokenService
	Users  ports.UserRepository

	Mongo *mongo.Database
	Redis *redis.Client // nil when login throttling is disabled

	SecureCookies bool
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	guard := middleware.AccessGuard(deps.Tokens, deps.Users)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.SecureCookies)
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.GET("/me", authHandler.Me, guard)
	auth.PUT("/change-password", authHandler.ChangePassword, guard)
	auth.DELETE("/delete-user", authHandler.DeleteUser, guard, adminOnly)
	auth.GET("/users", authHandler.ListUsers, guard, adminOnly)

	// --- Post routes ---
	postHandler := handler.NewPostHandler(deps.Posts)
	posts := e.Group("/api/posts")
	posts.GET("/posts", postHandler.ListPosts, guard, adminOnly)
	posts.GET("/post/:id", postHandler.GetPost, guard)
	posts.GET("/post-by-slug/:slug", postHandler.GetPostBySlug, guard)
	posts.POST("/create-post", postHandler.CreatePost, guard, adminOnly)
	posts.PUT("/update-post/:id", postHandler.UpdatePost, guard, adminOnly)
	posts.DELETE("/delete-post/:id", postHandler.DeletePost, guard, adminOnly)

	// --- Comment routes (nested under a post) ---
	commentHandler := handler.NewCommentHandler(deps.Comments)
	comments := e.Group("/api/posts/:postId/comments")
	comments.GET("", commentHandler.ListForPost)
	comments.POST("", commentHandler.Create, guard)
	comments.PUT("/:commentId", commentHandler.Update, guard)
	comments.DELETE("/:commentId", commentHandler.Delete, guard)

	// --- Newsletter routes ---
	newsletterHandler := handler.NewNewsletterHandler(deps.Newsletter)
	newsletter := e.Group("/api/newsletter")
	newsletter.POST("/subscribe", newsletterHandler.Subscribe)
	newsletter.GET("/subscribers", newsletterHandler.ListSubscribers, guard, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
