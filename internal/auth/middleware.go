package auth

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/aptis-platform/scoring-service/internal/config"
	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/utils"
)

// Middleware verifies Casdoor-issued bearer tokens and places the caller's
// identity in the Gin context as user_id, user_role and user.
type Middleware struct {
	client *casdoorsdk.Client
	logger utils.Logger
}

func NewMiddleware(cfg *config.Config, logger utils.Logger) *Middleware {
	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)

	return &Middleware{
		client: client,
		logger: logger,
	}
}

// Handler returns the Gin middleware function.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Missing bearer token",
			})
			return
		}

		claims, err := m.client.ParseJwtToken(token)
		if err != nil {
			m.logger.Warn("Token verification failed",
				"path", c.Request.URL.Path,
				"error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		user := models.User{
			ID:       claims.User.Id,
			FullName: claims.User.DisplayName,
			Email:    claims.User.Email,
			Role:     roleFromClaims(claims),
		}

		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Set("user", user)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// roleFromClaims maps the Casdoor account onto the platform's role set.
// Admin accounts come from Casdoor's admin flag; teachers are tagged in the
// organization; everyone else grades as a student.
func roleFromClaims(claims *casdoorsdk.Claims) models.UserRole {
	if claims.User.IsAdmin {
		return models.RoleAdmin
	}
	if strings.EqualFold(claims.User.Tag, string(models.RoleTeacher)) {
		return models.RoleTeacher
	}
	return models.RoleStudent
}
