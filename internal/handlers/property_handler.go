package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type PropertyHandler struct {
	db *gorm.DB
}

func NewPropertyHandler(db *gorm.DB) *PropertyHandler {
	return &PropertyHandler{db: db}
}

// GetProperty returns the property with the brokers a visitor can book.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var property models.Property
	if err := h.db.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "property_not_found", "property not found")
			return
		}
		httperr.Internal(c, "failed_to_get_property", "could not load property")
		return
	}

	var assignments []models.PropertyBroker
	if err := h.db.
		Joins("Broker").
		Where("property_brokers.property_id = ? AND property_brokers.active = ? AND \"Broker\".active = ?", propertyID, true, true).
		Find(&assignments).Error; err != nil {
		httperr.Internal(c, "failed_to_get_property", "could not load brokers")
		return
	}

	brokers := make([]gin.H, 0, len(assignments))
	for _, a := range assignments {
		brokers = append(brokers, gin.H{
			"id":    a.Broker.ID,
			"name":  a.Broker.Name,
			"phone": a.Broker.Phone,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"property": property,
		"brokers":  brokers,
	})
}
