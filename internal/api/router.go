package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/nimbusworks/userbase/docs"
	"github.com/nimbusworks/userbase/internal/api/handler"
	"github.com/nimbusworks/userbase/internal/api/middleware"
	"github.com/nimbusworks/userbase/internal/core/service"
	"github.com/nimbusworks/userbase/internal/infrastructure/config"
	mongodb "github.com/nimbusworks/userbase/internal/infrastructure/db/mongo"
	redisdb "github.com/nimbusworks/userbase/internal/infrastructure/db/redis"
	"github.com/nimbusworks/userbase/internal/infrastructure/http/handlers"
	"github.com/nimbusworks/userbase/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, images *storage.LocalImageStore, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("userbase"))

	// --- Dependencies ---
	issuer, err := service.NewJWTIssuer(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	identityCache := redisdb.NewIdentityCache(rdb)

	authService := service.NewAuthService(userRepo, issuer, log)
	userService := service.NewUserService(userRepo, identityCache, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, images)

	authenticate := middleware.Authenticate(issuer, userRepo, identityCache, log)
	requireAdmin := middleware.RequireAdmin()

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/admin-login", authHandler.AdminLogin)

	// --- User management routes ---
	users := e.Group("/api/users", authenticate)
	users.GET("", userHandler.List, requireAdmin)
	users.POST("", userHandler.Create, requireAdmin)
	users.GET("/profile", userHandler.Profile)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.POST("/upload-profile", userHandler.UploadProfile)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, requireAdmin)

	// --- Uploaded images ---
	e.Static(cfg.Upload.PublicURL, images.Dir())

	// --- Operational endpoints ---
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API is running...")
	})
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e, nil
}
