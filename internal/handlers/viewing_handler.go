package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/dto"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/httpresp"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	ucViewing "github.com/BruksfildServices01/estate-viewings/internal/usecase/viewing"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type viewingBooker interface {
	Execute(ctx context.Context, in ucViewing.BookViewingInput) (*models.PropertyViewing, error)
}

type openSlotsLister interface {
	Execute(ctx context.Context, in domain.OpenSlotsInput) ([]domain.OpenSlot, error)
}

type viewingTransition interface {
	Execute(ctx context.Context, brokerID uint, viewingID uint) (*models.PropertyViewing, error)
}

type viewingsByDateLister interface {
	Execute(ctx context.Context, brokerID uint, date string) ([]dto.ViewingListDTO, error)
}

// ======================================================
// HANDLER
// ======================================================

type ViewingHandler struct {
	book      viewingBooker
	openSlots openSlotsLister
	confirm   viewingTransition
	cancel    viewingTransition
	complete  viewingTransition
	listByDay viewingsByDateLister
	log       *zap.Logger
}

func NewViewingHandler(
	book viewingBooker,
	openSlots openSlotsLister,
	confirm viewingTransition,
	cancel viewingTransition,
	complete viewingTransition,
	listByDay viewingsByDateLister,
	log *zap.Logger,
) *ViewingHandler {
	return &ViewingHandler{
		book:      book,
		openSlots: openSlots,
		confirm:   confirm,
		cancel:    cancel,
		complete:  complete,
		listByDay: listByDay,
		log:       log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookViewingRequest struct {
	BrokerID        uint   `json:"broker_id" binding:"required"`
	ViewingDate     string `json:"viewing_date" binding:"required,isodate"`
	ViewingTime     string `json:"viewing_time" binding:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	VisitorName     string `json:"visitor_name" binding:"required,max=100"`
	VisitorEmail    string `json:"visitor_email" binding:"omitempty,email"`
	VisitorPhone    string `json:"visitor_phone" binding:"max=30"`
	PartySize       int    `json:"party_size" binding:"omitempty,min=1,max=50"`
	ViewingType     string `json:"viewing_type" binding:"max=30"`
	SpecialRequests string `json:"special_requests" binding:"max=500"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *ViewingHandler) BookViewing(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var req BookViewingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.book.Execute(c.Request.Context(), ucViewing.BookViewingInput{
		PropertyID:      propertyID,
		BrokerID:        req.BrokerID,
		ViewingDate:     req.ViewingDate,
		ViewingTime:     req.ViewingTime,
		DurationMinutes: req.DurationMinutes,
		VisitorName:     req.VisitorName,
		VisitorEmail:    req.VisitorEmail,
		VisitorPhone:    req.VisitorPhone,
		PartySize:       req.PartySize,
		ViewingType:     req.ViewingType,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Success(c, "viewing", v)
}

func (h *ViewingHandler) ViewingSlots(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	brokerID, err := strconv.ParseUint(c.Query("broker_id"), 10, 64)
	if err != nil || brokerID == 0 {
		httperr.BadRequest(c, domain.CodeInvalidRequest, "broker_id is required")
		return
	}
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, domain.CodeInvalidRequest, "date is required")
		return
	}

	slots, err := h.openSlots.Execute(c.Request.Context(), domain.OpenSlotsInput{
		PropertyID: propertyID,
		BrokerID:   uint(brokerID),
		Date:       date,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// BROKER
// ======================================================

func (h *ViewingHandler) ListMine(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, domain.CodeInvalidRequest, "date is required")
		return
	}

	out, err := h.listByDay.Execute(c.Request.Context(), middleware.BrokerID(c), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, out)
}

func (h *ViewingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.confirm)
}

func (h *ViewingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancel)
}

func (h *ViewingHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete)
}

func (h *ViewingHandler) transition(c *gin.Context, uc viewingTransition) {
	viewingID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	v, err := uc.Execute(c.Request.Context(), middleware.BrokerID(c), viewingID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Success(c, "viewing", v)
}
