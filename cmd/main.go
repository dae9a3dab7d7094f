package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/fala_cidadao/internal/config"
	"github.com/shenikar/fala_cidadao/internal/events"
	"github.com/shenikar/fala_cidadao/internal/evidence"
	"github.com/shenikar/fala_cidadao/internal/geocode"
	v1 "github.com/shenikar/fala_cidadao/internal/handler/http/v1"
	"github.com/shenikar/fala_cidadao/internal/metrics"
	"github.com/shenikar/fala_cidadao/internal/repository"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/shenikar/fala_cidadao/internal/stream"
	"github.com/shenikar/fala_cidadao/internal/webhook"
	"github.com/shenikar/fala_cidadao/pkg/logger"
	"github.com/shenikar/fala_cidadao/pkg/postgres"
	redisclient "github.com/shenikar/fala_cidadao/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/fala_cidadao/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Fala Cidadão API
// @version 1.0
// @description Civic problem reports with duplicate triage and geotagged photo evidence.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// corsConfig - пустой список разрешает все источники (локальная разработка)
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	c.AddAllowMethods("PATCH")
	c.AddAllowHeaders("Authorization", "X-API-Key", v1.ReporterHeader)
	c.AddExposeHeaders("X-Total-Count")
	return c
}

// originChecker проверяет Origin при подключении к ленте по тем же правилам, что и CORS
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	metrics.Register()

	// Лента изменений и подписчики событий
	hub := stream.NewHub(log, originChecker(cfg.CORSAllowedOrigins))
	go hub.Run(ctx)

	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)
	broker := events.NewBroker(log)
	broker.Subscribe(metrics.EventHandler())
	broker.Subscribe(hub.Handler())
	broker.Subscribe(webhook.NewEventHandler(webhookPublisher, log))

	if err := metrics.RegisterGauge("stream", "clients", "Number of connected live feed clients.", func() float64 {
		return float64(hub.ClientsCount())
	}); err != nil {
		log.WithError(err).Warn("Failed to register stream clients gauge")
	}

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	// Инициализация репозиториев
	reportRepo := repository.NewReportRepository(dbpool, redisClient, cfg.CacheTTL, log)
	locker := repository.NewRedisLocker(redisClient, cfg.LockTTL, log)

	pipeline := evidence.NewPipeline(
		evidence.NewEXIFReader(),
		evidence.NewJPEGEncoder(cfg.EvidenceMaxWidth, cfg.EvidenceMaxHeight, cfg.EvidenceJPEGQuality),
		log,
	)

	var geocoder service.Geocoder
	if cfg.GeocoderEnabled {
		geocoder = geocode.NewClient(geocode.Options{
			BaseURL:   cfg.GeocoderURL,
			UserAgent: cfg.GeocoderUserAgent,
			Timeout:   cfg.GeocoderTimeout,
			CacheTTL:  cfg.GeocoderCacheTTL,
		}, redisClient, log)
	}

	// Инициализация сервисов
	reportService := service.NewReportService(reportRepo, locker, pipeline, geocoder, broker, log, cfg)

	if err := reportService.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed reports: %v", err)
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(reportService, hub, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(metrics.GinMiddleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", metrics.Handler())

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// останавливаем воркер и ленту до закрытия соединений
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
