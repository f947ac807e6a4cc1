package utils

import (
	"civic-jharkhand-be/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError writes err as {"error", "code"} with the status of its kind and
// aborts the chain. Causes of 5xx errors are logged, never returned.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	if kind.Status >= 500 && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(kind.Status, gin.H{
		"error": apperrors.PublicMessage(err),
		"code":  kind.Code,
	})
}
