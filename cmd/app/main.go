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
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bikeshare-go/internal/i18n"
	"bikeshare-go/internal/repository"
	"bikeshare-go/internal/router"
	"bikeshare-go/internal/service"
	"bikeshare-go/pkg/logging"
)

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("dataset.paths", []string{"data/bike_sharing.csv", "Dashboard/bike_sharing.csv", "main_data.csv"})
	viper.SetDefault("dataset.reload_cron", "*/10 * * * *")
	viper.SetDefault("dataset.synthetic_dates", true)
	viper.SetDefault("dataset.synthetic_start", "2011-01-01")
	viper.SetDefault("dataset.max_upload_bytes", 10<<20)
	viper.SetDefault("dashboard.empty_fallback", true)
	viper.SetDefault("dashboard.cache_ttl", "10m")
	viper.SetDefault("db.table", "daily_records")
	viper.SetDefault("i18n.files", []string{"./i18n/en.toml", "./i18n/id.toml"})
	viper.SetDefault("i18n.default", "en")
}

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	setDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("BIKESHARE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("Failed to read config file: %v", err)
		}
		log.Printf("config.yaml not found, using defaults and environment")
	}
}

func startServer(r *gin.Engine, scheduler *cron.Cron) {
	addr := viper.GetString("server.addr")

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	// 停止定时任务，等待正在执行的重载结束
	<-scheduler.Stop().Done()

	timeout := viper.GetDuration("server.shutdown_timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	repository.CloseRedis()
	repository.CloseDB()

	logging.Logger.Info("Server exiting")
	_ = logging.Logger.Sync()
}

func main() {
	initConfig()
	// 初始化日志系统
	logging.InitLoggerFromConfig()
	logging.Logger.Info("Application started")

	if err := repository.InitDB(logging.Logger, logging.AtomicLevel); err != nil {
		// 数据库只是可选的数据源，失败时继续使用 CSV 候选路径
		logging.Logger.Warn("Database source disabled", zap.Error(err))
	}
	repository.InitRedis()

	// 初始化 i18n（加载 TOML 文件）
	bundle, err := i18n.InitI18n(viper.GetStringSlice("i18n.files"), viper.GetString("i18n.default"))
	if err != nil {
		logging.Logger.Fatal("Failed to initialize i18n", zap.Error(err))
	}

	ds := service.ReloadDataset(context.Background(), "startup")
	logging.Logger.Info("Initial dataset ready",
		zap.String("source", ds.Report.Source),
		zap.Int("rows", len(ds.Records)))

	gin.SetMode(gin.ReleaseMode)
	r := router.New(logging.Logger, bundle)

	c := cron.New()

	// 添加定时任务：按 dataset.reload_cron 重新加载数据集
	if spec := viper.GetString("dataset.reload_cron"); spec != "" {
		if _, addErr := c.AddFunc(spec, func() {
			service.ScheduledReload(context.Background())
		}); addErr != nil {
			logging.Logger.Fatal("Failed to schedule cron job", zap.String("spec", spec), zap.Error(addErr))
		}
	}

	c.Start()

	startServer(r, c)
}
