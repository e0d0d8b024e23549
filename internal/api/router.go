package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidvault/video-vault/internal/api/handler"
	"github.com/vidvault/video-vault/internal/api/middleware"
	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/service"
	"github.com/vidvault/video-vault/internal/infrastructure/blob"
	mongodb "github.com/vidvault/video-vault/internal/infrastructure/db/mongo"
	redisdb "github.com/vidvault/video-vault/internal/infrastructure/db/redis"
)

// Options carries everything the router needs beyond its infrastructure
// handles.
type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	MaxUploadSize int64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, blobs *blob.Store, log zerolog.Logger, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("videovault"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	codeRepo := mongodb.NewAccessCodeRepository(db)
	videoRepo := mongodb.NewVideoRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	// --- Services ---
	resolver := service.NewAccessCodeResolver(codeRepo, userRepo, activityRepo, log)
	authService := service.NewAuthService(resolver, userRepo, activityRepo, log, opts.JWTSecret, opts.TokenTTL)
	credentialService := service.NewCredentialService(userRepo, activityRepo, log)
	adminService := service.NewUserAdminService(userRepo, codeRepo, videoRepo, credentialService, activityRepo, log)
	videoService := service.NewVideoService(videoRepo, userRepo, codeRepo, blobs, activityRepo, log, opts.MaxUploadSize)

	limiter := redisdb.NewLoginLimiter(rdb, 0, 0)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, credentialService, limiter, log)
	userHandler := handler.NewUserHandler(adminService, credentialService)
	codeHandler := handler.NewAccessCodeHandler(adminService)
	videoHandler := handler.NewVideoHandler(videoService)

	authed := middleware.Auth(opts.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/password-reset", authHandler.RequestPasswordReset)
	e.POST("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// --- Authenticated routes ---
	me := e.Group("/me", authed)
	me.POST("/password", authHandler.ChangePassword)

	videos := e.Group("/videos", authed)
	videos.GET("", videoHandler.ListPublished)
	videos.GET("/:id/url", videoHandler.PlaybackURL)

	// --- Admin routes ---
	admin := e.Group("/admin", authed, adminOnly)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.PUT("/users/:id/password", userHandler.SetPassword)
	admin.DELETE("/users/:id/password", userHandler.ClearPassword)

	admin.GET("/access-codes", codeHandler.List)
	admin.POST("/access-codes", codeHandler.Create)
	admin.DELETE("/access-codes/:id", codeHandler.Deactivate)

	admin.GET("/videos", videoHandler.ListAll)
	admin.POST("/videos", videoHandler.Upload)
	admin.PUT("/videos/:id", videoHandler.Update)
	admin.DELETE("/videos/:id", videoHandler.Delete)

	admin.GET("/stats", videoHandler.Stats)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb, blobs)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
