package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"nd_motors_backend/internal/controller"
	"nd_motors_backend/internal/middleware"
	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
	"nd_motors_backend/internal/router"
	"nd_motors_backend/internal/service"
	"nd_motors_backend/internal/task"
	"nd_motors_backend/pkg/database"
	"nd_motors_backend/pkg/logger"
)

func main() {
	// .env 不存在时沿用进程环境变量
	_ = godotenv.Load()

	appLog := logger.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))

	// 1. JWT 配置
	initJWT()

	// 2. 初始化数据库
	db := initDatabase()

	// 3. 初始化依赖
	deps := initDependencies(db, appLog)

	// 4. 启动定时任务
	initTasks(deps, appLog)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers, deps.Repos.Dealer, router.Config{
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
	}, appLog)

	// 6. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Dealer     repository.DealerRepository
	Vehicle    repository.VehicleRepository
	Image      repository.VehicleImageRepository
	Activity   repository.ActivityRepository
	CatalogUow *repository.CatalogUnitOfWork
}

// Services 服务集合
type Services struct {
	Dealer   *service.DealerService
	Vehicle  *service.VehicleService
	Image    *service.ImageService
	Activity *service.ActivityService
	Storage  service.StorageProvider
}

// ==================== 初始化函数 ====================

// initJWT 从环境变量加载 JWT 配置
func initJWT() {
	cfg := middleware.DefaultJWTConfig()
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg.SecretKey = secret
	}
	middleware.SetJWTConfig(cfg)
}

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"root:root@tcp(127.0.0.1:3306)/nd_motors?charset=utf8mb4&parseTime=True&loc=Local")

	return database.InitDB(dsn,
		&model.Dealer{},
		&model.Vehicle{},
		&model.VehicleImage{},
		&model.Activity{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, appLog *logrus.Logger) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Dealer:     repository.NewDealerRepository(db),
		Vehicle:    repository.NewVehicleRepository(db),
		Image:      repository.NewVehicleImageRepository(db),
		Activity:   repository.NewActivityRepository(db),
		CatalogUow: repository.NewCatalogUnitOfWork(db),
	}

	// -------- 存储 --------
	storage := initStorage()

	// -------- 业务服务 --------
	services := &Services{Storage: storage}
	services.Dealer = service.NewDealerService(repos.Dealer)
	services.Activity = service.NewActivityService(repos.Activity, appLog)
	services.Image = service.NewImageService(repos.Image, repos.Vehicle, storage, appLog)
	services.Vehicle = service.NewVehicleService(
		repos.CatalogUow, repos.Vehicle,
		services.Image, services.Activity,
		getEnv("BASE_URL", "http://localhost:8080"),
		appLog,
	)

	// -------- Controller 层 --------
	controllers := router.Controllers{
		Dealer:   controller.NewDealerController(services.Dealer),
		Vehicle:  controller.NewVehicleController(services.Vehicle),
		Activity: controller.NewActivityController(services.Activity),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorage 初始化存储提供者
func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "nd-motors"),
	})
	if err != nil {
		log.Fatalf("存储初始化失败: %v", err)
	}
	return storage
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies, appLog *logrus.Logger) {
	// 本地存储才有孤儿文件，S3 模式不扫描
	if getEnv("STORAGE_PROVIDER", "local") == "local" {
		cleanupTask := task.NewOrphanCleanupTask(
			deps.Repos.Image,
			getEnv("UPLOAD_DIR", "./uploads"),
			appLog,
		)
		cleanupTask.Start()
	}

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
