package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/httpresp"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type availabilityManager interface {
	ListSlots(ctx context.Context, brokerID uint, from, to string) ([]models.AvailabilitySlot, error)
	CreateSlot(ctx context.Context, brokerID uint, s models.AvailabilitySlot) (*models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, brokerID, id uint) error
	ListBlocked(ctx context.Context, brokerID uint, from, to string) ([]models.BlockedTime, error)
	CreateBlocked(ctx context.Context, brokerID uint, b models.BlockedTime) (*models.BlockedTime, error)
	DeleteBlocked(ctx context.Context, brokerID, id uint) error
}

type AvailabilityHandler struct {
	manager availabilityManager
	log     *zap.Logger
}

func NewAvailabilityHandler(manager availabilityManager, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{manager: manager, log: log}
}

// --------- Requests ---------

type CreateSlotRequest struct {
	Date                string `json:"date" binding:"required,isodate"`
	StartTime           string `json:"start_time" binding:"required,hhmm"`
	EndTime             string `json:"end_time" binding:"required,hhmm"`
	IsAvailable         *bool  `json:"is_available"`
	MaxBookings         int    `json:"max_bookings" binding:"omitempty,min=1,max=100"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" binding:"omitempty,min=5,max=480"`
}

type CreateBlockedRequest struct {
	StartDatetime time.Time `json:"start_datetime" binding:"required"`
	EndDatetime   time.Time `json:"end_datetime" binding:"required"`
	Reason        string    `json:"reason" binding:"max=255"`
}

// --------- Slots ---------

func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	slots, err := h.manager.ListSlots(
		c.Request.Context(),
		middleware.BrokerID(c),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, slots)
}

func (h *AvailabilityHandler) CreateSlot(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	slot, err := h.manager.CreateSlot(c.Request.Context(), middleware.BrokerID(c), models.AvailabilitySlot{
		Date:                req.Date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		IsAvailable:         available,
		MaxBookings:         req.MaxBookings,
		SlotDurationMinutes: req.SlotDurationMinutes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Success(c, "slot", slot)
}

func (h *AvailabilityHandler) DeleteSlot(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.manager.DeleteSlot(c.Request.Context(), middleware.BrokerID(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"success": true})
}

// --------- Blocked times ---------

func (h *AvailabilityHandler) ListBlocked(c *gin.Context) {
	blocked, err := h.manager.ListBlocked(
		c.Request.Context(),
		middleware.BrokerID(c),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, blocked)
}

func (h *AvailabilityHandler) CreateBlocked(c *gin.Context) {
	var req CreateBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.manager.CreateBlocked(c.Request.Context(), middleware.BrokerID(c), models.BlockedTime{
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Reason:        req.Reason,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Success(c, "blocked_time", b)
}

func (h *AvailabilityHandler) DeleteBlocked(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.manager.DeleteBlocked(c.Request.Context(), middleware.BrokerID(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"success": true})
}
