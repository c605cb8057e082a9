package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classifieds_app_v1_202610/internal/config"
	"classifieds_app_v1_202610/internal/middleware"
	"classifieds_app_v1_202610/internal/model"
	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/internal/router"
	"classifieds_app_v1_202610/internal/task"
	"classifieds_app_v1_202610/pkg/database"
	"classifieds_app_v1_202610/pkg/logger"
	"classifieds_app_v1_202610/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "", "config file")
	flag.Parse()

	// 1. 配置与日志
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Sync()
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg, zl)
	defer database.Close(db)

	// 3. 示例数据
	if cfg.Sandbox.Seed {
		if err := seed(context.Background(), db, time.Now()); err != nil {
			zl.Fatal("写入示例数据失败", zap.Error(err))
		}
	}

	// 4. 图片存储
	store, uploadsDir := initStorage(cfg, zl)

	// 5. 启动定时任务
	reviewTask := task.NewReviewTask(repository.NewListingRepository(db), task.ReviewTaskConfig{
		Spec:  cfg.Sandbox.ReviewCron,
		After: cfg.Sandbox.ReviewAfter,
	}, zl)
	if err := reviewTask.Start(); err != nil {
		zl.Fatal("启动审核任务失败", zap.Error(err))
	}
	defer reviewTask.Stop()

	// 6. 初始化路由
	r := router.NewEngine(router.Options{
		DB:    db,
		Store: store,
		Tokens: middleware.NewTokenManager(&middleware.JWTConfig{
			SecretKey:      cfg.Sandbox.JWTSecret,
			AccessTokenTTL: cfg.Sandbox.TokenTTL,
			Issuer:         "classifieds-sandbox",
		}),
		UploadsDir:     uploadsDir,
		Logger:         zl,
		ReportCooldown: cfg.Sandbox.ReportCooldown,
	})

	// 7. 启动服务
	startServer(r, cfg.Sandbox.Addr(), zl.Sugar())
}

// ==================== 初始化函数 ====================

func initDatabase(cfg *config.Config, zl *zap.Logger) *gorm.DB {
	db, err := database.InitDB(database.Options{
		Driver: cfg.Sandbox.Driver,
		DSN:    cfg.Sandbox.DSN,
	}, model.AllModels()...)
	if err != nil {
		zl.Fatal("数据库初始化失败", zap.Error(err))
	}
	zl.Info("数据库连接成功", zap.String("driver", cfg.Sandbox.Driver))
	return db
}

// initStorage local 时返回需要挂载到 /uploads 的目录
func initStorage(cfg *config.Config, zl *zap.Logger) (storage.Provider, string) {
	store, err := storage.New(storageConfig(cfg))
	if err != nil {
		zl.Fatal("存储初始化失败", zap.Error(err))
	}

	if local, ok := store.(*storage.LocalStorage); ok {
		return store, local.Root()
	}
	return store, ""
}

// storageConfig 本地目录只给 local 使用，s3 使用独立的 key 前缀
func storageConfig(cfg *config.Config) storage.Config {
	sc := cfg.Sandbox.Storage
	out := storage.Config{
		Provider:  sc.Provider,
		Bucket:    sc.Bucket,
		Region:    sc.Region,
		AccessKey: sc.AccessKey,
		SecretKey: sc.SecretKey,
		Endpoint:  sc.Endpoint,
		CDNDomain: sc.CDNDomain,
	}
	if sc.Provider == "s3" {
		out.KeyPrefix = sc.Prefix
	} else {
		out.BasePath = cfg.Sandbox.StorageDir
		out.PublicBaseURL = cfg.Sandbox.PublicBaseURL
	}
	return out
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(r *gin.Engine, addr string, log *zap.SugaredLogger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("沙箱服务启动在 %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("服务强制关闭: %v", err)
	}

	log.Info("服务已退出")
}
