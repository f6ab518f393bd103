package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

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
	"github.com/yigit/learnhub/internal/pkg/logger"
	"github.com/yigit/learnhub/internal/pkg/payment"
	"github.com/yigit/learnhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     appServices.AuthService
	CourseService   appServices.CourseService
	PurchaseService appServices.PurchaseService
	UnlockService   appServices.UnlockService
	Controllers     appRoutes.Controllers
	AuthMiddleware  *appMiddleware.AuthMiddleware
	Repos           *appRepos.Repositories
	JWTService      *pkgAuth.JWTService
	Gateway         payment.Gateway
	Logger          zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath, ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// optionally seeds the demo catalogue.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.WithComponent("migrator"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		repos := appRepos.NewRepositories(database.Pool)
		stores := seed.Stores{
			Users:    repos.UserRepository,
			Courses:  repos.CourseRepository,
			Lectures: repos.LectureRepository,
		}
		err := database.WithTransaction(ctx, func(ctx context.Context) error {
			return seed.CreateDefaultData(ctx, stores, lgr)
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 7*24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Gateway = payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	}, nil, logger.WithComponent("stripe"))

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.EnrollmentRepository,
		deps.JWTService,
		logger.WithComponent("auth"),
	)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.LectureRepository,
		deps.Repos.EnrollmentRepository,
		logger.WithComponent("course"),
	)
	deps.UnlockService = appServices.NewUnlockService(
		deps.Repos.LectureRepository,
		deps.Repos.EnrollmentRepository,
		appServices.UnlockOptions{UnlockLecturesGlobally: cfg.Purchase.UnlockLecturesGlobally},
		logger.WithComponent("unlock"),
	)
	deps.PurchaseService = appServices.NewPurchaseService(appServices.PurchaseDeps{
		Courses:    deps.Repos.CourseRepository,
		Lectures:   deps.Repos.LectureRepository,
		Users:      deps.Repos.UserRepository,
		Enrollment: deps.Repos.EnrollmentRepository,
		Purchases:  deps.Repos.PurchaseRepository,
		Events:     deps.Repos.GatewayEventRepository,
		Gateway:    deps.Gateway,
		Unlocker:   deps.UnlockService,
		Tx:         database,
	}, appServices.PurchaseOptions{
		ClientURL:        cfg.Server.ClientURL,
		Currency:         cfg.Stripe.Currency,
		AllowedCountries: cfg.AllowedCountries(),
		Provider:         payment.ProviderStripe,
	}, logger.WithComponent("purchase"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Cookie.Name)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.AuthService, appControllers.CookieSettings{
			Name:   cfg.Cookie.Name,
			MaxAge: helpers.ParseDuration(cfg.Cookie.MaxAge, 24*time.Hour),
			Domain: cfg.Cookie.Domain,
			Secure: cfg.IsProduction(),
		}, lgr),
		Course:   appControllers.NewCourseController(deps.CourseService, lgr),
		Purchase: appControllers.NewPurchaseController(deps.PurchaseService, lgr),
		Webhook:  appControllers.NewWebhookController(deps.PurchaseService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.WithComponent("http")))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// NewCORS allows the browser client to call the API with its session cookie
func NewCORS(cfg *config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{strings.TrimRight(cfg.Server.ClientURL, "/")},
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})
}
