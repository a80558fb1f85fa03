package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appsvc "yamdb-api/internal/app"
	"yamdb-api/internal/bootstrap"
	"yamdb-api/internal/permission"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/transport/http/handler"
	"yamdb-api/internal/transport/http/middleware"
	"yamdb-api/internal/validation"
)

// NewRouter wires services onto app's resources. Background helpers started
// here stop when ctx is done.
func NewRouter(ctx context.Context, app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if err := router.SetTrustedProxies(app.Config.RateLimit.TrustedProxies); err != nil {
		app.Logger.Error("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	validator := validation.New()
	userRepo := repository.NewUserRepository(app.DB)
	authService := appsvc.NewAuthService(
		userRepo,
		validator,
		app.Mailer,
		appsvc.AuthConfig{
			JWTSecret:     app.Config.Auth.JWTSecret,
			JWTExpiration: time.Duration(app.Config.Auth.JWTExpireMinute) * time.Minute,
			CodeHashCost:  app.Config.Auth.CodeHashCost,
			MailFrom:      app.Config.Mail.From,
		},
		app.Logger,
	)
	userService := appsvc.NewUserService(userRepo, validator)
	catalogService := appsvc.NewCatalogService(
		repository.NewCategoryRepository(app.DB),
		repository.NewGenreRepository(app.DB),
		repository.NewTitleRepository(app.DB),
		app.TitleCache,
		validator,
		app.Logger,
	)

	authHandler := handler.NewAuthHandler(authService, app.Logger)
	userHandler := handler.NewUserHandler(userService, app.Logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, app.Logger)
	titleHandler := handler.NewTitleHandler(catalogService, app.Logger)

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(app.Config.RateLimit.AuthPerSecond),
		app.Config.RateLimit.AuthBurst,
		app.Logger,
	)
	limiter.StartCleanup(ctx, 10*time.Minute)

	requireAuth := middleware.AuthJWT(app.Config.Auth.JWTSecret, authService)
	requireAdmin := middleware.Require(permission.IsAdmin)
	catalogWriter := middleware.Require(permission.CanWriteCatalog)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.Use(middleware.RateLimit(limiter))
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/token", authHandler.Token)

	userGroup := v1.Group("/users")
	userGroup.Use(requireAuth)
	userGroup.GET("/me", userHandler.Me)
	userGroup.PATCH("/me", userHandler.UpdateMe)
	userGroup.GET("", requireAdmin, userHandler.List)
	userGroup.POST("", requireAdmin, userHandler.Create)
	userGroup.GET("/:username", requireAdmin, userHandler.Get)
	userGroup.PATCH("/:username", requireAdmin, userHandler.Update)
	userGroup.DELETE("/:username", requireAdmin, userHandler.Delete)

	categoryGroup := v1.Group("/categories")
	categoryGroup.GET("", catalogHandler.ListCategories)
	categoryGroup.POST("", requireAuth, catalogWriter, catalogHandler.CreateCategory)
	categoryGroup.DELETE("/:slug", requireAuth, catalogWriter, catalogHandler.DeleteCategory)

	genreGroup := v1.Group("/genres")
	genreGroup.GET("", catalogHandler.ListGenres)
	genreGroup.POST("", requireAuth, catalogWriter, catalogHandler.CreateGenre)
	genreGroup.DELETE("/:slug", requireAuth, catalogWriter, catalogHandler.DeleteGenre)

	titleGroup := v1.Group("/titles")
	titleGroup.GET("", titleHandler.List)
	titleGroup.GET("/:id", titleHandler.Get)
	titleGroup.POST("", requireAuth, catalogWriter, titleHandler.Create)
	titleGroup.PATCH("/:id", requireAuth, catalogWriter, titleHandler.Update)
	titleGroup.DELETE("/:id", requireAuth, catalogWriter, titleHandler.Delete)

	return router
}
