package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/controller"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/service"
	"study_planner_backend/pkg/configwatcher"
	"study_planner_backend/pkg/database"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"study_planner_backend/pkg/security"
	"study_planner_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigDir is where main loads config.yaml from; the watcher follows the same file.
const ConfigDir = "configs"

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	cancel          context.CancelFunc
}

type repositories struct {
	user      *repository.UserRepository
	subject   *repository.SubjectRepository
	task      *repository.TaskRepository
	studyPlan *repository.StudyPlanRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	subject   *service.SubjectService
	task      *service.TaskService
	studyPlan *service.StudyPlanService
	progress  *service.ProgressService
	scheduler *service.SchedulerService
	events    *service.EventHub
}

type controllers struct {
	auth      *controller.AuthController
	subject   *controller.SubjectController
	task      *controller.TaskController
	studyPlan *controller.StudyPlanController
	progress  *controller.ProgressController
	events    *controller.EventController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		subject:   repository.NewSubjectRepository(db),
		task:      repository.NewTaskRepository(db),
		studyPlan: repository.NewStudyPlanRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	cache := service.NewAnalyticsCache(rdb, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)

	s.events = service.NewEventHub(rdb)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.subject = service.NewSubjectService(repos.subject, s.storage, cache)
	s.task = service.NewTaskService(repos.task, repos.subject, cache)
	s.task.Events = s.events
	s.studyPlan = service.NewStudyPlanService(repos.subject, repos.task, repos.studyPlan, cache, cfg.Planner)
	s.studyPlan.Events = s.events
	s.progress = service.NewProgressService(repos.subject, repos.task)

	loc, err := service.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Log.Warn("Unknown scheduler timezone, using local time",
			zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
		loc = time.Local
	}
	s.scheduler = service.NewSchedulerService(loc, repos.user, s.task, s.studyPlan)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		subject:   controller.NewSubjectController(s.subject),
		task:      controller.NewTaskController(s.task),
		studyPlan: controller.NewStudyPlanController(s.studyPlan),
		progress:  controller.NewProgressController(s.progress),
		events:    controller.NewEventController(s.events),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services, cfg *config.Config) {
	go s.events.Run(ctx)

	if cfg.Scheduler.Enabled {
		if err := s.scheduler.Register(cfg.Scheduler); err != nil {
			logger.Log.Error("Failed to register scheduled jobs", zap.Error(err))
		} else {
			s.scheduler.Start()
			logger.Log.Info("Scheduler started", zap.Int("jobs", s.scheduler.Entries()))
		}
	}

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.studyPlan.SetDefaults(newCfg.Planner)
		logger.Log.Info("Planner defaults updated",
			zap.Int("daily_minutes", newCfg.Planner.DailyMinutes),
			zap.Int("revision_days", newCfg.Planner.RevisionDays))
	})

	go func() {
		path := filepath.Join(ConfigDir, "config.yaml")
		err := configwatcher.WatchConfig(ctx, path, func(newCfg *config.Config) {
			for _, callback := range a.configCallbacks {
				callback(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, services, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil {
		a.services.scheduler.Stop()
		a.services.events.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
