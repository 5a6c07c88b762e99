package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/handler"
	"github.com/tatami/academy-backend/internal/logger"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Access     *handler.AccessHandler
	Academy    *handler.AcademyHandler
	Student    *handler.StudentHandler
	Class      *handler.ClassHandler
	Attendance *handler.AttendanceHandler
	Dashboard  *handler.DashboardHandler
	Report     *handler.ReportHandler
	WS         *handler.WSHandler
}

// Deps are the request pipeline collaborators shared by every route group.
type Deps struct {
	Verifier    middleware.TokenVerifier
	Resolver    middleware.AccessResolver
	RateLimiter *middleware.RateLimiter
	Log         zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(deps Deps, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request logger and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.RequestLogger(deps.Log, response.ContextKeyRequestID))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)

	authenticated := []gin.HandlerFunc{
		middleware.RequireIdentity(deps.Verifier),
		deps.RateLimiter.Middleware(),
		middleware.ResolveAccess(deps.Resolver),
	}

	// ─── 1. API Group (identity + resolved access) ─────────────────────
	api := router.Group("/api/v1")
	api.Use(authenticated...)
	api.Use(middleware.NoStore())
	{
		api.GET("/me/access", handlers.Access.GetMyAccess)

		// Listings and reads never reject callers without an academy;
		// they answer with empty results.
		api.GET("/students", handlers.Student.ListStudents)
		api.GET("/students/:id", handlers.Student.GetStudent)
		api.GET("/students/:id/progression", handlers.Student.GetProgression)
		api.GET("/classes", handlers.Class.ListClasses)
		api.GET("/classes/:id", handlers.Class.GetClass)
		api.GET("/attendance", handlers.Attendance.ListAttendance)
		api.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		api.GET("/reports/belts", handlers.Report.BeltDistribution)
		api.GET("/reports/promotions", handlers.Report.Promotions)

		// Mutations require an academy (or platform admin).
		write := api.Group("")
		write.Use(middleware.RequireAcademy())
		{
			write.POST("/students", handlers.Student.CreateStudent)
			write.PUT("/students/:id", handlers.Student.UpdateStudent)
			write.DELETE("/students/:id", handlers.Student.DeleteStudent)

			write.POST("/classes", handlers.Class.CreateClass)
			write.PUT("/classes/:id", handlers.Class.UpdateClass)
			write.DELETE("/classes/:id", handlers.Class.DeleteClass)

			write.POST("/attendance", handlers.Attendance.RecordAttendance)
		}

		// ─── 2. Platform Admin Group ───────────────────────────────────
		admin := api.Group("/admin")
		admin.Use(middleware.RequirePlatformAdmin())
		{
			admin.GET("/academies", handlers.Academy.ListAcademies)
			admin.POST("/academies", handlers.Academy.CreateAcademy)
			admin.GET("/academies/:id", handlers.Academy.GetAcademy)
			admin.PUT("/academies/:id", handlers.Academy.UpdateAcademy)
			admin.DELETE("/academies/:id", handlers.Academy.DeleteAcademy)

			admin.GET("/academies/:id/members", handlers.Academy.ListMembers)
			admin.PUT("/academies/:id/members/:user_id", handlers.Academy.PutMember)
			admin.DELETE("/academies/:id/members/:user_id", handlers.Academy.DeleteMember)
		}
	}

	// ─── 3. WebSocket Group (query token) ──────────────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(authenticated...)
	{
		wsGroup.GET("/attendance/stream", handlers.WS.AttendanceStream)
	}

	return router
}
