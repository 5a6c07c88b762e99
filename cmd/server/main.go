package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/database"
	"github.com/tatami/academy-backend/internal/handler"
	"github.com/tatami/academy-backend/internal/logger"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/router"
	"github.com/tatami/academy-backend/internal/service"
	"github.com/tatami/academy-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Int("admin_allowlist", len(cfg.AdminAllowList)).
		Msg("Starting Academy Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	academyRepo := repository.NewAcademyRepository(pool)
	bindingRepo := repository.NewUserAcademyRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Access Resolution ─────────────────────────────────────────────
	resolverCfg := access.ResolverConfig{
		AdminAllowList: cfg.AdminAllowList,
		LookupTimeout:  cfg.AccessLookupTimeout,
	}
	if cfg.AccessCacheTTL > 0 {
		resolverCfg.Cache = access.NewRedisCache(rdb, cfg.AccessCacheTTL, log)
	}
	resolver := access.NewResolver(bindingRepo, academyRepo, resolverCfg, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	accessService := service.NewAccessService(resolver)
	academyService := service.NewAcademyService(academyRepo, bindingRepo, resolver, log)
	studentService := service.NewStudentService(studentRepo, log)
	classService := service.NewClassService(classRepo, log)
	attendanceService := service.NewAttendanceService(attendanceRepo, rdb, log)
	dashboardService := service.NewDashboardService(dashboardRepo)
	reportService := service.NewReportService(studentRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
		}),
		Access:     handler.NewAccessHandler(accessService),
		Academy:    handler.NewAcademyHandler(academyService),
		Student:    handler.NewStudentHandler(studentService),
		Class:      handler.NewClassHandler(classService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Report:     handler.NewReportHandler(reportService),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(router.Deps{
		Verifier:    authService,
		Resolver:    resolver,
		RateLimiter: limiter,
		Log:         log,
	}, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout). Hijacked WebSocket
	// connections end when Redis is closed below.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
