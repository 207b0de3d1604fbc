package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/services"
)

const userKey = "currentUser"

type AuthMiddleware struct {
	tokens *services.TokenService
	db     *gorm.DB
}

func NewAuthMiddleware(tokens *services.TokenService, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, db: db}
}

// RequireAuth resolves the bearer token to a user and stores it on the
// request context. Banned accounts are rejected even with a live token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			httputil.Error(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := am.tokens.Validate(token)
		if err != nil {
			httputil.Error(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		var user models.User
		if err := am.db.First(&user, userID).Error; err != nil {
			httputil.Error(c, http.StatusUnauthorized, "unknown user")
			return
		}
		if !user.Enabled {
			httputil.Error(c, http.StatusUnauthorized, "account disabled")
			return
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// RequireAdmin gates a route group on the elevated role. Runs after
// RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsElevated() {
			httputil.Error(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
