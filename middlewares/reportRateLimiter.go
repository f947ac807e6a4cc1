package middlewares

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const reportLimitPrefix = "report_limit"

// ReportRateLimiter caps how many reports one citizen may submit per 24h.
// A slot is taken before the handler runs and given back when the handler
// rejects the submission, so only accepted reports count. It is a no-op when
// client is nil or limit is not positive. Redis failures let the request through.
func ReportRateLimiter(client *redis.Client, limit int, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}
		user, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, logger, apperrors.Unauthorized("user not authenticated", nil))
			return
		}

		userKey := reportLimitKey(user.ID.Hex())
		allowed, retryAfter, err := allowReport(c.Request.Context(), client, userKey, limit)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			utils.RespondError(c, logger, apperrors.RateLimited(
				fmt.Sprintf("you can submit at most %d reports per day", limit)))
			return
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			if err := client.Decr(context.WithoutCancel(c.Request.Context()), userKey).Err(); err != nil {
				logger.Warn("failed to release report slot", zap.String("user_id", user.ID.Hex()), zap.Error(err))
			}
		}
	}
}

func reportLimitKey(userID string) string {
	return reportLimitPrefix + ":" + userID
}

func allowReport(ctx context.Context, client *redis.Client, userKey string, limit int) (bool, time.Duration, error) {
	count, err := client.Incr(ctx, userKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis error incrementing count: %w", err)
	}

	// Set TTL only for the first increment
	if count == 1 {
		if err := client.Expire(ctx, userKey, 24*time.Hour).Err(); err != nil {
			return false, 0, fmt.Errorf("redis error setting TTL: %w", err)
		}
	}

	if count > int64(limit) {
		retryAfter, err := client.TTL(ctx, userKey).Result()
		if err != nil || retryAfter < 0 {
			retryAfter = 24 * time.Hour
		}
		return false, retryAfter, nil
	}
	return true, 0, nil
}
