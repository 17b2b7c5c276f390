package http

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/config"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

// Throttler is a fixed-window request limiter backed by Redis counters. Without a client it
// lets every request through, and Redis failures fail open.
type Throttler struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewThrottler builds a throttler. A nil client or a disabled config yields a pass-through.
func NewThrottler(client redis.Cmdable, cfg config.ThrottleConfig, logger *zap.Logger) *Throttler {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Throttler{
		limit:  cfg.Limit,
		window: cfg.Window(),
		logger: logger.Named("throttle"),
		now:    time.Now,
	}
	if cfg.Enabled && cfg.Limit > 0 && t.window > 0 {
		t.client = client
	}
	return t
}

// Limit returns middleware counting requests per caller under scope. It must run after
// authentication so callers are keyed by employee rather than address.
func (t *Throttler) Limit(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if t == nil || t.client == nil {
			return c.Next()
		}
		caller := c.IP()
		if principal, ok := auth.PrincipalFromContext(c); ok {
			caller = principal.Employee.ID
		}

		count, err := t.hit(c.UserContext(), t.key(scope, caller))
		if err != nil {
			t.logger.Warn("throttle unavailable", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}

		remaining := t.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(t.limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if int(count) > t.limit {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(t.window.Seconds())))
			return apperrors.NewRateLimited("too many requests")
		}
		return c.Next()
	}
}

func (t *Throttler) key(scope, caller string) string {
	bucket := t.now().Unix() / int64(t.window.Seconds())
	return fmt.Sprintf("throttle:%s:%s:%d", scope, caller, bucket)
}

// hit increments the window counter, setting its expiry on the first request of the window.
func (t *Throttler) hit(ctx context.Context, key string) (int64, error) {
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
