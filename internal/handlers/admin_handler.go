package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
	"github.com/BruksfildServices01/estate-viewings/internal/validators"
)

// AdminHandler manages brokers, properties and listings. Routes are
// restricted to the admin role.
type AdminHandler struct {
	db *gorm.DB

	checkEmailDomain func(ctx context.Context, email string) error
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, checkEmailDomain: validators.CheckEmailDomain}
}

// --------- Requests ---------

type CreateBrokerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"max=20"`
	Role     string `json:"role" binding:"omitempty,oneof=broker admin"`
}

type CreatePropertyRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Address  string `json:"address" binding:"max=255"`
	City     string `json:"city" binding:"max=100"`
	Timezone string `json:"timezone"`
}

type AssignBrokerRequest struct {
	BrokerID uint  `json:"broker_id" binding:"required"`
	Active   *bool `json:"active"`
}

type CreateListingRequest struct {
	BrokerID           uint    `json:"broker_id" binding:"required"`
	Title              string  `json:"title" binding:"required,max=200"`
	BaseNightlyRate    float64 `json:"base_nightly_rate" binding:"min=0"`
	DefaultMinimumStay int     `json:"default_minimum_stay" binding:"omitempty,min=1"`
}

// --------- Brokers ---------

func (h *AdminHandler) CreateBroker(c *gin.Context) {
	var req CreateBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.checkEmailDomain(c.Request.Context(), email); err != nil {
		be, _ := httperr.AsBusiness(err)
		httperr.WriteBusiness(c, http.StatusBadRequest, be)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "could not hash password")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleBroker
	}

	broker := models.Broker{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
		Active:       true,
	}

	if err := h.db.Create(&broker).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "a broker with this email exists")
			return
		}
		httperr.Internal(c, "failed_to_create_broker", "could not create broker")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"broker": brokerView(&broker)})
}

// --------- Properties ---------

func (h *AdminHandler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "unknown IANA time zone")
		return
	}

	property := models.Property{
		Title:    strings.TrimSpace(req.Title),
		Address:  req.Address,
		City:     req.City,
		Timezone: req.Timezone,
	}

	if err := h.db.Create(&property).Error; err != nil {
		httperr.Internal(c, "failed_to_create_property", "could not create property")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// AssignBroker creates or updates the property/broker assignment.
func (h *AdminHandler) AssignBroker(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var req AssignBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !h.exists(c, &models.Property{}, propertyID, "property_not_found") ||
		!h.exists(c, &models.Broker{}, req.BrokerID, "broker_not_found") {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	assignment := models.PropertyBroker{
		PropertyID: propertyID,
		BrokerID:   req.BrokerID,
		Active:     active,
	}

	if err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "broker_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"active", "updated_at"}),
	}).Create(&assignment).Error; err != nil {
		httperr.Internal(c, "failed_to_assign_broker", "could not assign broker")
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// --------- Rental listings ---------

func (h *AdminHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !h.exists(c, &models.Broker{}, req.BrokerID, "broker_not_found") {
		return
	}

	minStay := req.DefaultMinimumStay
	if minStay < 1 {
		minStay = 1
	}

	listing := models.RentalListing{
		BrokerID:           req.BrokerID,
		Title:              strings.TrimSpace(req.Title),
		BaseNightlyRate:    req.BaseNightlyRate,
		DefaultMinimumStay: minStay,
	}

	if err := h.db.Create(&listing).Error; err != nil {
		httperr.Internal(c, "failed_to_create_listing", "could not create listing")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

func (h *AdminHandler) exists(c *gin.Context, model any, id uint, code string) bool {
	err := h.db.Select("id").First(model, id).Error
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, code, strings.ReplaceAll(code, "_", " "))
		return false
	}
	httperr.Internal(c, "internal_error", "internal error")
	return false
}
