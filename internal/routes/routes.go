package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	"github.com/BruksfildServices01/service-marketplace/internal/config"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/handlers"
	infraRepo "github.com/BruksfildServices01/service-marketplace/internal/infra/repository"
	"github.com/BruksfildServices01/service-marketplace/internal/metrics"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
	ucBooking "github.com/BruksfildServices01/service-marketplace/internal/usecase/booking"
	ucSchedule "github.com/BruksfildServices01/service-marketplace/internal/usecase/schedule"
)

// Dependencies são os singletons montados pelo comando serve.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Location *time.Location
	Cache    domain.SlotCache
	Uploader handlers.ImageUploader
	Audit    *audit.Dispatcher
}

// BookingUseCaseDeps monta as dependências dos casos de uso de reserva
// sobre o postgres; também usado pela CLI.
func BookingUseCaseDeps(deps Dependencies) (ucBooking.Deps, ucBooking.Config) {
	bookingRepo := infraRepo.NewBookingGormRepository(deps.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(deps.DB)
	serviceRepo := infraRepo.NewServiceGormRepository(deps.DB)

	return ucBooking.Deps{
			Bookings:  bookingRepo,
			Schedules: scheduleRepo,
			Services:  serviceRepo,
			Cache:     deps.Cache,
			Audit:     deps.Audit,
			Log:       deps.Logger,
		}, ucBooking.Config{
			Duration:        deps.Config.ServiceDuration,
			EnforceSchedule: deps.Config.EnforceSchedule,
			Location:        deps.Location,
		}
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, deps.Logger)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	bookingDeps, bookingCfg := BookingUseCaseDeps(deps)

	availabilityUC := ucBooking.NewGetAvailability(bookingDeps, bookingCfg)
	createBookingUC := ucBooking.NewCreateBooking(bookingDeps, bookingCfg)
	updateStatusUC := ucBooking.NewUpdateBookingStatus(bookingDeps, bookingCfg)
	listBookingsUC := ucBooking.NewListBookings(bookingDeps)

	getScheduleUC := ucSchedule.NewGetSchedule(bookingDeps.Schedules)
	replaceScheduleUC := ucSchedule.NewReplaceSchedule(bookingDeps.Schedules, deps.Cache, deps.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, cfg, deps.Audit, deps.Logger)
	meHandler := handlers.NewMeHandler(deps.DB)
	serviceHandler := handlers.NewServiceHandler(deps.DB, deps.Audit)
	scheduleHandler := handlers.NewScheduleHandler(getScheduleUC, replaceScheduleUC)
	bookingHandler := handlers.NewBookingHandler(
		availabilityUC,
		createBookingUC,
		updateStatusUC,
		listBookingsUC,
		deps.Location,
	)
	reviewHandler := handlers.NewReviewHandler(deps.DB, deps.Audit)
	adminHandler := handlers.NewAdminHandler(deps.DB, deps.Audit)
	uploadHandler := handlers.NewUploadHandler(deps.Uploader, cfg.UploadMaxBytes, deps.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, deps.Location)

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	r.GET("/health", health(deps.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PÚBLICO
		// ------------------------------
		api.POST("/signup", limiter.Middleware(), authHandler.Signup)
		api.POST("/login", limiter.Middleware(), authHandler.Login)

		api.GET("/services", serviceHandler.Search)
		api.GET("/availability/:provider_id/:date", bookingHandler.Availability)

		// ------------------------------
		// 🔐 AUTENTICADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/users/me", meHandler.GetMe)
			secured.PUT("/users/me", meHandler.UpdateMe)

			secured.POST("/upload", uploadHandler.Upload)

			secured.GET("/bookings",
				middleware.RequireRole(models.RoleCustomer, models.RoleProvider),
				bookingHandler.List,
			)
		}

		// ------------------------------
		// 👤 CLIENTE
		// ------------------------------
		customer := api.Group("/")
		customer.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleCustomer))
		{
			customer.POST("/bookings", limiter.Middleware(), bookingHandler.Create)
			customer.POST("/reviews", reviewHandler.Create)
		}

		// ------------------------------
		// 🛠️ PRESTADOR
		// ------------------------------
		provider := api.Group("/")
		provider.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleProvider))
		{
			provider.GET("/schedules", scheduleHandler.Get)
			provider.POST("/schedules", scheduleHandler.Replace)

			provider.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)

			provider.POST("/services", serviceHandler.Create)
			provider.PUT("/services/:id", serviceHandler.Update)
			provider.DELETE("/services/:id", serviceHandler.Delete)
		}

		// ------------------------------
		// 🔑 ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/admin/stats", adminHandler.Stats)
			admin.GET("/admin/services", adminHandler.ListServices)
			admin.PUT("/admin/services/:id/status", adminHandler.UpdateServiceStatus)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
