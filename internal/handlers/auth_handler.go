package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/estate-viewings/internal/config"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var broker models.Broker
	if err := h.db.Where("email = ?", email).First(&broker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
			return
		}
		httperr.Internal(c, "internal_error", "internal error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(broker.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
		return
	}

	if !broker.Active {
		httperr.Forbidden(c, "broker_inactive", "broker account is inactive")
		return
	}

	token, err := GenerateToken(&broker, h.config.JWTSecret, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"broker": brokerView(&broker),
		"token":  token,
	})
}

// --------- JWT ---------

// GenerateToken issues a 24h HS256 token carrying the broker id and role.
func GenerateToken(broker *models.Broker, secret string, now time.Time) (string, error) {
	role := broker.Role
	if role == "" {
		role = models.RoleBroker
	}

	claims := jwt.MapClaims{
		"sub":  broker.ID,
		"role": role,
		"exp":  now.Add(24 * time.Hour).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func brokerView(b *models.Broker) gin.H {
	return gin.H{
		"id":     b.ID,
		"name":   b.Name,
		"email":  b.Email,
		"phone":  b.Phone,
		"role":   b.Role,
		"active": b.Active,
	}
}
