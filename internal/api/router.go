package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/devfolio/portfolio-api/docs"
	"github.com/devfolio/portfolio-api/internal/api/handler"
	"github.com/devfolio/portfolio-api/internal/api/middleware"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/service"
	"github.com/devfolio/portfolio-api/internal/infrastructure/config"
	mongodb "github.com/devfolio/portfolio-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devfolio/portfolio-api/internal/infrastructure/db/redis"
	"github.com/devfolio/portfolio-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, cfg *config.Config) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portfolio"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	languageRepo := mongodb.NewLanguageRepository(db)
	txRunner := mongodb.NewTxRunner(client)
	labelLock := redisdb.NewLabelLock(rdb)

	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.CookieName, cfg.JWT.TTL)
	sessionService := service.NewSessionService(tokenService, userRepo, log)
	roleService := service.NewRoleService(roleRepo, log)
	permService := service.NewPermissionService(languageRepo, log)
	authService := service.NewAuthService(userRepo, roleService, tokenService, log)
	userService := service.NewUserService(userRepo, roleService, log)
	projectService := service.NewProjectService(projectRepo, languageRepo, permService, txRunner, log)
	languageService := service.NewLanguageService(languageRepo, projectRepo, permService, labelLock, txRunner, log)

	authHandler := handler.NewAuthHandler(authService, tokenService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	languageHandler := handler.NewLanguageHandler(languageService)

	// --- Health probes and operational surfaces (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes (session resolved per request) ---
	apiGroup := e.Group("/api", middleware.Session(sessionService, cfg.JWT.CookieName, log))

	auth := apiGroup.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)
	auth.POST("/signout", authHandler.Signout)

	users := apiGroup.Group("/users", middleware.RBAC())
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RoleSuperadmin))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/role", userHandler.AssignRole, middleware.RBAC(domain.RoleSuperadmin))

	projects := apiGroup.Group("/projects", middleware.RBAC())
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	languages := apiGroup.Group("/languages")
	languages.GET("", languageHandler.List)
	languages.GET("/:id", languageHandler.Get)
	languages.POST("", languageHandler.Create, middleware.RBAC())
	languages.PUT("/:id", languageHandler.Update, middleware.RBAC())
	languages.DELETE("/:id", languageHandler.Delete, middleware.RBAC())

	return e
}
