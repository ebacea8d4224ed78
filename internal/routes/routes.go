package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	"github.com/BruksfildServices01/estate-viewings/internal/config"
	"github.com/BruksfildServices01/estate-viewings/internal/handlers"
	infraRepo "github.com/BruksfildServices01/estate-viewings/internal/infra/repository"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	ucAvailability "github.com/BruksfildServices01/estate-viewings/internal/usecase/availability"
	ucRental "github.com/BruksfildServices01/estate-viewings/internal/usecase/rental"
	ucViewing "github.com/BruksfildServices01/estate-viewings/internal/usecase/viewing"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger

	Audit       *audit.Dispatcher
	Notifier    ucViewing.Notifier
	Idempotency middleware.IdempotencyStore
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg, log := d.DB, d.Config, d.Log

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	viewingRepo := infraRepo.NewViewingGormRepository(db)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(db)
	rentalRepo := infraRepo.NewRentalGormRepository(db)

	bookingLimiter := middleware.NewRateLimiter(cfg.BookingRateLimit, cfg.BookingRateBurst)

	// ======================================================
	// USE CASES: VIEWINGS
	// ======================================================
	bookViewingUC := ucViewing.NewBookViewing(
		viewingRepo,
		d.Audit,
		d.Notifier,
		log,
	)

	openSlotsUC := ucViewing.NewGetOpenSlots(viewingRepo)

	confirmViewingUC := ucViewing.NewConfirmViewing(viewingRepo, d.Audit)
	cancelViewingUC := ucViewing.NewCancelViewing(viewingRepo, d.Audit)
	completeViewingUC := ucViewing.NewCompleteViewing(viewingRepo, d.Audit)

	listViewingsByDateUC := ucViewing.NewListViewingsByDate(viewingRepo)

	// ======================================================
	// USE CASES: AVAILABILITY / RENTALS
	// ======================================================
	availabilityManager := ucAvailability.NewManager(availabilityRepo)

	bulkCalendarUC := ucRental.NewBulkUpdateCalendar(
		rentalRepo,
		d.Audit,
		log,
		cfg.MaxCalendarRangeDays,
	)
	getCalendarUC := ucRental.NewGetCalendar(rentalRepo, cfg.MaxCalendarRangeDays)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	propertyHandler := handlers.NewPropertyHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	viewingHandler := handlers.NewViewingHandler(
		bookViewingUC,
		openSlotsUC,
		confirmViewingUC,
		cancelViewingUC,
		completeViewingUC,
		listViewingsByDateUC,
		log,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityManager, log)
	rentalCalendarHandler := handlers.NewRentalCalendarHandler(bulkCalendarUC, getCalendarUC, log)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		api.GET("/properties/:propertyId", propertyHandler.GetProperty)
		api.GET("/properties/:propertyId/viewing-slots", viewingHandler.ViewingSlots)
		api.POST(
			"/properties/:propertyId/book-viewing",
			bookingLimiter.Middleware(),
			middleware.Idempotency(d.Idempotency, log),
			viewingHandler.BookViewing,
		)

		api.GET("/rentals/:listingId/calendar", rentalCalendarHandler.GetCalendar)

		// ------------------------------
		// BROKER
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/viewings", viewingHandler.ListMine)
			secured.PATCH("/me/viewings/:id/confirm", viewingHandler.Confirm)
			secured.PATCH("/me/viewings/:id/cancel", viewingHandler.Cancel)
			secured.PATCH("/me/viewings/:id/complete", viewingHandler.Complete)

			secured.GET("/me/availability-slots", availabilityHandler.ListSlots)
			secured.POST("/me/availability-slots", availabilityHandler.CreateSlot)
			secured.DELETE("/me/availability-slots/:id", availabilityHandler.DeleteSlot)

			secured.GET("/me/blocked-times", availabilityHandler.ListBlocked)
			secured.POST("/me/blocked-times", availabilityHandler.CreateBlocked)
			secured.DELETE("/me/blocked-times/:id", availabilityHandler.DeleteBlocked)

			secured.PUT("/rentals/:listingId/calendar", rentalCalendarHandler.BulkUpdate)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/brokers", adminHandler.CreateBroker)
			admin.POST("/properties", adminHandler.CreateProperty)
			admin.POST("/properties/:propertyId/brokers", adminHandler.AssignBroker)
			admin.POST("/rental-listings", adminHandler.CreateListing)
		}
	}
}
