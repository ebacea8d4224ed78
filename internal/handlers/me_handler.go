package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	brokerID := middleware.BrokerID(c)

	var broker models.Broker
	if err := h.db.First(&broker, brokerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "broker_not_found", "broker not found")
			return
		}
		httperr.Internal(c, "internal_error", "internal error")
		return
	}

	var assignments []models.PropertyBroker
	if err := h.db.
		Preload("Property").
		Where("broker_id = ? AND active = ?", brokerID, true).
		Find(&assignments).Error; err != nil {
		httperr.Internal(c, "internal_error", "internal error")
		return
	}

	properties := make([]models.Property, 0, len(assignments))
	for _, a := range assignments {
		properties = append(properties, a.Property)
	}

	c.JSON(http.StatusOK, gin.H{
		"broker":     brokerView(&broker),
		"properties": properties,
	})
}
