package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/estate-viewings/internal/config"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

const (
	ContextBrokerID = "brokerID"
	ContextRole     = "brokerRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		brokerID, ok := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		if !ok || brokerID <= 0 {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}
		if role == "" {
			role = models.RoleBroker
		}

		c.Set(ContextBrokerID, uint(brokerID))
		c.Set(ContextRole, role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
				Code:    "forbidden",
				Message: "requires role " + role,
			})
			return
		}
		c.Next()
	}
}

func BrokerID(c *gin.Context) uint {
	return c.GetUint(ContextBrokerID)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == models.RoleAdmin
}

func abortUnauthorized(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
		Code:    code,
		Message: "unauthorized",
	})
}
