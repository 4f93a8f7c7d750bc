package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/controller"
	"study_easy_backend/internal/repository"
	"study_easy_backend/internal/service"
	"study_easy_backend/pkg/database"
	"study_easy_backend/pkg/logger"
	"study_easy_backend/pkg/monitoring"
	"study_easy_backend/pkg/security"
	"study_easy_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	subject *repository.SubjectRepository
	lesson  *repository.LessonRepository
	chapter *repository.ChapterRepository
	chat    *repository.ChatRepository
}

type services struct {
	storage   *service.StorageService
	ai        *service.AIService
	generator *service.GeneratorService
	audio     *service.AudioService
	processor *service.ProcessorService
	queue     *service.ProcessingQueue
	subject   *service.SubjectService
	lesson    *service.LessonService
	chapter   *service.ChapterService
	chat      *service.ChatService
}

type controllers struct {
	subject *controller.SubjectController
	lesson  *controller.LessonController
	chapter *controller.ChapterController
	chat    *controller.ChatController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		subject: repository.NewSubjectRepository(db),
		lesson:  repository.NewLessonRepository(db),
		chapter: repository.NewChapterRepository(db, rdb),
		chat:    repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.ai = service.NewAIService(cfg)
	s.generator = service.NewGeneratorService(s.ai, cfg.Processing.FlashcardMax, cfg.Processing.QuizQuestionCount)
	s.audio = service.NewAudioService(cfg)
	s.processor = service.NewProcessorService(repos.chapter, s.audio, s.storage, s.generator, s.ai)
	s.queue = service.NewProcessingQueue(cfg, s.processor, rdb)

	s.subject = service.NewSubjectService(repos.subject)
	s.lesson = service.NewLessonService(repos.lesson, repos.subject)
	s.chapter = service.NewChapterService(repos.chapter, repos.lesson, s.audio, s.queue)
	s.chat = service.NewChatService(repos.chat, repos.chapter, s.ai)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		subject: controller.NewSubjectController(s.subject),
		lesson:  controller.NewLessonController(s.lesson),
		chapter: controller.NewChapterController(s.chapter, a.Config),
		chat:    controller.NewChatController(s.chat),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// Redis 不可用时队列与状态缓存降级为进程内实现
			logger.Log.Warn("Failed to initialize redis, falling back to in-process queue", zap.Error(err))
			rdb = nil
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb)
	svcs := app.initServices(repos, cfg, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("studyeasy-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, ctrls)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	svcs.queue.Run()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 停止队列消费，等待在途章节处理结束
	if a.services != nil && a.services.queue != nil {
		a.services.queue.Stop()
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

	log.Println("Server exiting")
}
