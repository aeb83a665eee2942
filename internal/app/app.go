package app

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services       *services
	tracerProvider *sdktrace.TracerProvider

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	branch     *repository.BranchRepository
	course     *repository.CourseRepository
	test       *repository.TestRepository
	result     *repository.ResultRepository
	enrollment *repository.EnrollmentRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	faces      *service.FaceVerifier
	branch     *service.BranchService
	course     *service.CourseService
	test       *service.TestService
	result     *service.ResultService
	enrollment *service.EnrollmentService
	sweeper    *service.ProgressSweeper
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	branch     *controller.BranchController
	course     *controller.CourseController
	test       *controller.TestController
	result     *controller.ResultController
	enrollment *controller.EnrollmentController
	health     *controller.HealthController
}

// RegisterConfigCallback 配置热更新时调用
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 分发重新加载后的配置
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		branch:     repository.NewBranchRepository(db),
		course:     repository.NewCourseRepository(db),
		test:       repository.NewTestRepository(db),
		result:     repository.NewResultRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, detector service.FaceDetector) *services {
	s := &services{}

	contentCache := service.NewCourseContentCache(rdb, repos.course)

	s.storage = service.NewStorageService(&cfg.Storage)
	s.faces = service.NewFaceVerifier(detector, cfg.Face.Threshold)
	s.auth = service.NewAuthService(repos.user, repos.branch, s.storage, s.faces, cfg.JWT)
	s.user = service.NewUserService(repos.user, repos.branch, repos.enrollment)
	s.branch = service.NewBranchService(repos.branch)
	s.course = service.NewCourseService(repos.course, repos.branch, contentCache)
	s.test = service.NewTestService(repos.test, repos.course, repos.branch)
	s.result = service.NewResultService(repos.result, repos.test)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, contentCache)
	s.sweeper = service.NewProgressSweeper(repos.enrollment)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		branch:     controller.NewBranchController(s.branch),
		course:     controller.NewCourseController(s.course),
		test:       controller.NewTestController(s.test),
		result:     controller.NewResultController(s.result),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		health:     controller.NewHealthController(db, a.Redis),
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

// New 使用已建立的连接装配应用，不做任何外部 I/O；rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, detector service.FaceDetector) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb, detector)
	controllers := app.initControllers(app.services, db)

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	faces := app.services.faces
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		if newCfg.Face.Threshold != faces.Threshold() {
			logger.Log.Info("Face threshold updated",
				zap.Float64("old", faces.Threshold()),
				zap.Float64("new", newCfg.Face.Threshold),
			)
			faces.SetThreshold(newCfg.Face.Threshold)
		}
	})

	return app
}

// NewApp 初始化日志、数据库、Redis 与追踪后装配应用
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := New(cfg, db, rdb, service.NewFaceClient(&cfg.Face))

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	if err := app.services.sweeper.Start(cfg.Jobs.ProgressSweepCron); err != nil {
		logger.Log.Error("Failed to schedule progress sweep", zap.String("cron", cfg.Jobs.ProgressSweepCron), zap.Error(err))
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（5 秒超时）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	a.services.sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
