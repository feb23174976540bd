package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/learnhub/internal/app/auth"
	appControllers "github.com/yigit/learnhub/internal/app/controllers"
	appMigrations "github.com/yigit/learnhub/internal/app/migrations"
	appRepos "github.com/yigit/learnhub/internal/app/repositories"
	appRoutes "github.com/yigit/learnhub/internal/app/routes"
	appServices "github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/config"
	"github.com/yigit/learnhub/internal/db"
	appMiddleware "github.com/yigit/learnhub/internal/middleware"
	pkgAuth "github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/helpers"
	"github.com/yigit/learnhub/internal/pkg/identity"
	"github.com/yigit/learnhub/internal/pkg/logger"
	"github.com/yigit/learnhub/internal/seed"
)

// Datastores holds the live database connections
type Datastores struct {
	Mongo *db.MongoDB
	Redis *redis.Client
}

// Close releases every connection
func (d *Datastores) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Mongo != nil {
		d.Mongo.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	IdentityService     *appServices.IdentityService
	CourseService       *appServices.CourseService
	UserService         appServices.UserService
	AuthController      *appControllers.AuthController
	CourseController    *appControllers.CourseController
	UserController      *appControllers.UserController
	DashboardController *appControllers.DashboardController
	HealthController    *appControllers.HealthController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	AuthzService        *appAuth.AuthorizationService
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatastores connects MongoDB and Redis, applies index migrations and seeds the admin.
func SetupDatastores(cfg *config.Config, lgr zerolog.Logger) (*Datastores, error) {
	lgr.Info().Msg("Establishing database connection...")
	mongoDB, err := db.NewMongoDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Str("database", cfg.Database.Name).Msg("Database connection successfully established.")

	rdb, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis")
		mongoDB.Close()
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection successfully established.")

	stores := &Datastores{Mongo: mongoDB, Redis: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(mongoDB.Database, logger.Component("migrations")).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		stores.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.Admin{Name: cfg.Admin.Name, Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(mongoDB.Database), admin, lgr); err != nil {
		// A missing admin does not stop the API from serving
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return stores, nil
}

// BuildIdentityRegistry registers the OAuth providers that have credentials configured.
func BuildIdentityRegistry(cfg *config.Config, lgr zerolog.Logger) *identity.Registry {
	var providers []identity.Provider

	if google := cfg.GoogleClient(); google.Enabled() {
		providers = append(providers, identity.NewGoogleProvider(google.ClientID, google.ClientSecret, google.RedirectURL))
	}
	if github := cfg.GitHubClient(); github.Enabled() {
		providers = append(providers, identity.NewGitHubProvider(github.ClientID, github.ClientSecret, github.RedirectURL))
	}

	registry := identity.NewRegistry(providers...)
	for _, p := range registry.List() {
		lgr.Info().Str("provider", p.Name()).Msg("OAuth provider enabled")
	}
	return registry
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, stores *Datastores, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(stores.Mongo.Database, stores.Redis)

	deps.AuthzService = appAuth.NewAuthorizationService(cfg.Server.BaseURL)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		MaxAge:      helpers.ParseDuration(cfg.Session.MaxAge, pkgAuth.DefaultSessionMaxAge),
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.AuthzService,
		logger.Component("auth"),
	)
	deps.IdentityService = appServices.NewIdentityService(
		BuildIdentityRegistry(cfg, lgr),
		deps.Repos.OAuthStateRepository,
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.AuthzService,
		helpers.ParseDuration(cfg.OAuth.StateTTL, appServices.DefaultOAuthStateTTL),
		logger.Component("identity"),
	)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.AuthzService, logger.Component("courses"))
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.CourseRepository, logger.Component("users"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService, cfg.Session.CookieName)

	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		deps.IdentityService,
		appControllers.SessionCookie{Name: deps.AuthMiddleware.CookieName(), Secure: cfg.Session.CookieSecure},
		deps.Logger,
	)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.Logger)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.DashboardController = appControllers.NewDashboardController(deps.UserService, deps.IdentityService, deps.AuthzService)
	deps.HealthController = appControllers.NewHealthController(map[string]appControllers.HealthCheck{
		"mongodb": stores.Mongo.Ping,
		"redis":   func(ctx context.Context) error { return stores.Redis.Ping(ctx).Err() },
	}, deps.Logger)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Auth:      deps.AuthController,
		Course:    deps.CourseController,
		User:      deps.UserController,
		Dashboard: deps.DashboardController,
		Health:    deps.HealthController,
	}, deps.AuthMiddleware)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
