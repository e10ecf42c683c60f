package middleware

import (
	"errors"
	"strings"

	"github.com/dkrasnov/project-tracker-api/internal/auth"
	"github.com/dkrasnov/project-tracker-api/internal/constants"
	apierrors "github.com/dkrasnov/project-tracker-api/internal/errors"
	"github.com/dkrasnov/project-tracker-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireAuth validates the bearer token and resolves its subject to a user.
// A token whose subject no longer resolves is rejected the same way as a
// malformed one.
func RequireAuth(jwtManager *auth.JWTManager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := jwtManager.Validate(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if _, err := userRepo.FindByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "Invalid or expired token")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
