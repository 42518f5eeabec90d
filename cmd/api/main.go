package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/config"
	dbpkg "github.com/BruksfildServices01/chamados-pro/internal/db"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/cache"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/gcal"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/storage"
	"github.com/BruksfildServices01/chamados-pro/internal/logging"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
	"github.com/BruksfildServices01/chamados-pro/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger ainda não existe
		boot := logging.New(false, true)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.DebugEnabled, cfg.LogPretty)

	if !cfg.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🗄️ BANCO / CACHE
	// ======================================================
	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}

	rdb, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		// sem redis a agenda só perde o cache
		logger.Warn().Err(err).Msg("redis unavailable, calendar cache disabled")
		rdb = nil
	}

	// ======================================================
	// 🔌 INTEGRAÇÕES OPCIONAIS
	// ======================================================
	infra := routes.Infra{Log: logger}

	if cfg.GoogleEnabled() {
		infra.Calendar = gcal.NewClient(gcal.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}, logger)
		infra.CalendarCache = cache.NewCalendarCache(infra.Calendar, rdb, cfg.CalendarCacheTTL(), logger)
	} else {
		logger.Info().Msg("google calendar disabled (GOOGLE_CLIENT_ID/SECRET not set)")
	}

	if cfg.StorageEnabled() {
		infra.Logos = storage.NewLogoStore(storage.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	}

	infra.AuditLogger = audit.New(db)
	infra.Audit = audit.NewDispatcher(infra.AuditLogger, logger)

	if cfg.MetricsEnabled {
		metrics.Register()
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", healthHandler(db, rdb))

	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := infra.Audit.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("audit queue not drained")
	}
	closeResources(db, rdb, logger)
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unavailable"})
			return
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis_unavailable"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func closeResources(db *gorm.DB, rdb *redis.Client, logger zerolog.Logger) {
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn().Err(err).Msg("close db")
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
