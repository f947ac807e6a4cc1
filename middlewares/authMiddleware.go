package middlewares

import (
	"context"
	"errors"
	"strings"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/metrics"
	"civic-jharkhand-be/models"
	"civic-jharkhand-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const currentUserKey = "current_user"

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware resolves the bearer token to a stored user and puts it on the
// request context. Requests without a valid token stop here with 401.
func AuthMiddleware(tokens *utils.TokenManager, users UserFinder, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		user, err := authenticate(c, tokens, users)
		if err != nil {
			logger.Debug("authentication failed", zap.Error(err))
			utils.RespondError(c, logger, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *utils.TokenManager, users UserFinder) (*models.User, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		metrics.AuthFailure("missing_token")
		return nil, apperrors.Unauthorized("no authorization token provided", nil)
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	identity, err := tokens.Verify(tokenString)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			metrics.AuthFailure("expired_token")
			return nil, apperrors.Unauthorized("authorization token expired", err)
		}
		metrics.AuthFailure("invalid_token")
		return nil, apperrors.Unauthorized("invalid authorization token", err)
	}

	userID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token claims", err)
	}
	user, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("user no longer exists", nil)
		}
		return nil, err
	}
	if user.Role != identity.Role {
		return nil, apperrors.Unauthorized("invalid token claims", nil)
	}
	return user, nil
}

// RequireRole rejects authenticated users whose role is not listed with 403.
// It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, nil, apperrors.Unauthorized("user not authenticated", nil))
			return
		}
		if err := CheckRole(user, roles...); err != nil {
			metrics.AuthFailure("role_" + string(user.Role))
			utils.RespondError(c, nil, err)
			return
		}
		c.Next()
	}
}

func CheckRole(user *models.User, roles ...models.Role) error {
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden("your role is not allowed to perform this action")
}

// CurrentUser returns the user AuthMiddleware stored on the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
