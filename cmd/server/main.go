package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gridwatch/geninspect/internal/config"
	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/handler"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/service"
	"github.com/gridwatch/geninspect/internal/middleware"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting geninspect service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Department{},
		&entity.User{},
		&entity.FormTemplate{},
		&entity.FormTemplateItem{},
		&entity.Generator{},
		&entity.Inspection{},
		&entity.InspectionDetail{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis unavailable, dashboard caching disabled", zap.Error(err))
		rdb = nil
	}

	repos := repository.NewRepositories(db)

	authSvc := service.NewAuthService(repos.User, cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
	inspectionSvc := service.NewInspectionService(repos.Inspection, repos.Generator, repos.Template)
	dashboardSvc := service.NewDashboardService(repos.Department, repos.Generator, repos.Inspection, rdb)
	kpiSvc := service.NewKPIService(repos.Department, repos.Generator, repos.Inspection)
	analyticsSvc := service.NewAnalyticsService(repos.Department, repos.Generator, repos.Inspection, repos.Template)
	reportSvc := service.NewReportService(kpiSvc)
	generatorSvc := service.NewGeneratorService(repos.Generator, repos.Department, repos.Template)
	departmentSvc := service.NewDepartmentService(repos.Department, repos.Generator)
	templateSvc := service.NewTemplateService(repos.Template)
	userSvc := service.NewUserService(repos.User)

	handlers := handler.NewHandlers(
		authSvc, inspectionSvc, dashboardSvc, kpiSvc, analyticsSvc,
		reportSvc, generatorSvc, departmentSvc, templateSvc, userSvc,
	)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server stopped")
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": Version})
	})

	api := r.Group("/api/v1")

	api.POST("/auth/login", h.Auth.Login)

	auth := api.Group("", middleware.JWTAuth(cfg.JWT.Secret))
	{
		auth.GET("/auth/me", h.Auth.Me)

		auth.GET("/inspections", h.Inspection.List)
		auth.GET("/inspections/:id", h.Inspection.Get)
		auth.GET("/generators/:id/inspection-form", h.Inspection.Form)

		auth.GET("/dashboard/monthly", h.Dashboard.MonthlyProgress)
		auth.GET("/dashboard/departments/:id/calendar", h.Dashboard.DepartmentCalendar)
		auth.GET("/dashboard/departments/:id/month", h.Dashboard.DepartmentMonth)

		auth.GET("/kpi", h.KPI.Organization)
		auth.GET("/kpi/departments/:id", h.KPI.Department)
		auth.GET("/kpi/export", h.KPI.Export)

		auth.GET("/analytics", h.Analytics.Report)

		auth.GET("/departments", h.Department.List)
		auth.GET("/departments/:id", h.Department.Get)
		auth.GET("/generators", h.Generator.List)
		auth.GET("/generators/:id", h.Generator.Get)
		auth.GET("/templates", h.Template.List)
		auth.GET("/templates/:id", h.Template.Get)
	}

	// Inspection writes need inspector or admin.
	writer := auth.Group("", middleware.RequireWriter())
	{
		writer.POST("/inspections", h.Inspection.Create)
		writer.PUT("/inspections/:id", h.Inspection.Update)
	}

	// Master data and accounts are admin-only.
	admin := auth.Group("", middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/departments", h.Department.Create)
		admin.PUT("/departments/:id", h.Department.Update)
		admin.DELETE("/departments/:id", h.Department.Delete)

		admin.POST("/generators", h.Generator.Create)
		admin.PUT("/generators/:id", h.Generator.Update)
		admin.DELETE("/generators/:id", h.Generator.Retire)

		admin.POST("/templates", h.Template.Create)
		admin.PUT("/templates/:id", h.Template.Update)
		admin.POST("/templates/:id/items", h.Template.AddItem)
		admin.PUT("/templates/:id/items/:itemId", h.Template.UpdateItem)
		admin.DELETE("/templates/:id/items/:itemId", h.Template.DeleteItem)

		admin.GET("/users", h.User.List)
		admin.GET("/users/:id", h.User.Get)
		admin.POST("/users", h.User.Create)
		admin.PUT("/users/:id", h.User.Update)
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique violations surface as gorm.ErrDuplicatedKey so the
		// period constraint maps to a clean conflict response.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
