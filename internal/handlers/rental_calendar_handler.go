package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/rental"
	"github.com/BruksfildServices01/estate-viewings/internal/httpresp"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	ucRental "github.com/BruksfildServices01/estate-viewings/internal/usecase/rental"
)

type calendarUpdater interface {
	Execute(ctx context.Context, in ucRental.BulkUpdateInput) (*ucRental.BulkUpdateResult, error)
}

type calendarReader interface {
	Execute(ctx context.Context, listingID uint, from, to string) ([]models.RentalCalendarDay, error)
}

type RentalCalendarHandler struct {
	update calendarUpdater
	get    calendarReader
	log    *zap.Logger
}

func NewRentalCalendarHandler(update calendarUpdater, get calendarReader, log *zap.Logger) *RentalCalendarHandler {
	return &RentalCalendarHandler{update: update, get: get, log: log}
}

// BulkCalendarRequest leaves unset fields untouched on existing days.
type BulkCalendarRequest struct {
	StartDate string `json:"start_date" binding:"required,isodate"`
	EndDate   string `json:"end_date" binding:"required,isodate"`

	IsAvailable          *bool    `json:"is_available"`
	NightlyRate          *float64 `json:"nightly_rate"`
	MinimumStay          *int     `json:"minimum_stay"`
	IsSpecialPricing     *bool    `json:"is_special_pricing"`
	SpecialPricingReason *string  `json:"special_pricing_reason" binding:"omitempty,max=255"`
}

func (h *RentalCalendarHandler) GetCalendar(c *gin.Context) {
	listingID, ok := uintParam(c, "listingId")
	if !ok {
		return
	}

	days, err := h.get.Execute(c.Request.Context(), listingID, c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, days)
}

func (h *RentalCalendarHandler) BulkUpdate(c *gin.Context) {
	listingID, ok := uintParam(c, "listingId")
	if !ok {
		return
	}

	var req BulkCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.update.Execute(c.Request.Context(), ucRental.BulkUpdateInput{
		ListingID: listingID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Patch: domain.Patch{
			IsAvailable:          req.IsAvailable,
			NightlyRate:          req.NightlyRate,
			MinimumStay:          req.MinimumStay,
			IsSpecialPricing:     req.IsSpecialPricing,
			SpecialPricingReason: req.SpecialPricingReason,
		},
		ActorID: middleware.BrokerID(c),
		IsAdmin: middleware.IsAdmin(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Success(c, "calendar", res)
}
