package app

import (
	"context"
	"errors"
	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/controller"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/internal/service"
	"math_quiz_backend/pkg/configwatcher"
	"math_quiz_backend/pkg/database"
	"math_quiz_backend/pkg/logger"
	"math_quiz_backend/pkg/monitoring"
	"math_quiz_backend/pkg/security"
	"math_quiz_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPath config directory
const ConfigPath = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	repos           *repositories
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)

	// cancelled on shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	user     *repository.UserRepository
	progress *repository.ProgressRepository
	question *repository.QuestionRepository
	result   *repository.QuizResultRepository
}

type services struct {
	quiz      *service.QuizService
	auth      *service.AuthService
	dashboard *service.DashboardService
	admin     *service.AdminService
}

type controllers struct {
	quiz      *controller.QuizController
	auth      *controller.AuthController
	dashboard *controller.DashboardController
	admin     *controller.AdminController
	health    *controller.HealthController
}

// RegisterConfigCallback hook for config reloads
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		progress: repository.NewProgressRepository(db),
		question: repository.NewQuestionRepository(db),
		result:   repository.NewQuizResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	// submit lock
	var locker service.UserLocker
	if rdb != nil {
		locker = service.NewRedisLocker(rdb, cfg.Quiz.SubmitLockTTL)
	} else {
		locker = service.NewLocalLocker()
	}

	quizConfig := cfg.Quiz
	return &services{
		quiz:      service.NewQuizService(db, repos.question, repos.result, repos.progress, locker, &quizConfig),
		auth:      service.NewAuthService(db, repos.user, repos.progress, cfg),
		dashboard: service.NewDashboardService(repos.user, repos.progress, repos.result, &quizConfig, cfg.Location()),
		admin:     service.NewAdminService(repos.question, repos.user, repos.result, repos.progress),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		quiz:      controller.NewQuizController(s.quiz),
		auth:      controller.NewAuthController(s.auth),
		dashboard: controller.NewDashboardController(s.dashboard),
		admin:     controller.NewAdminController(s.admin),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New builds the app on open stores; rdb may be nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db)
	app.repos = repos
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	app.RegisterConfigCallback(func(c *config.Config) {
		services.quiz.SetLimits(&c.Quiz)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
		gin.SetMode(c.Server.Mode)
	})

	return app
}

// NewApp opens stores and builds the app; fatal on failure
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Database migration failed", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled && !cfg.MigrateOnly {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled && !cfg.MigrateOnly {
		tp, err := tracing.InitTracer("math-quiz-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// Reload runs config callbacks
func (a *App) Reload(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) startConfigWatcher() {
	path := filepath.Join(ConfigPath, "config.yaml")
	go func() {
		if err := configwatcher.WatchConfig(a.ctx, path, a.Reload); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.Config.Server.WatchConfig {
		a.startConfigWatcher()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close stops background work, tracer and Redis
func (a *App) Close(ctx context.Context) {
	a.cancel()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	logger.Sync()
}
