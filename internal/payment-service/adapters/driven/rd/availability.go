package rd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/payment-service/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	engagedKey = "walkers:engaged"
	availKey   = "walker:avail:%s"
)

// Control writes the post-settlement availability changes into the
// registry shared with walker-location-service.
type Control struct {
	rdb   *redis.Client
	mylog mylogger.Logger
}

func New(redisCfg *config.Redisconfig, mylog mylogger.Logger) ports.IAvailabilityControl {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
		Password: redisCfg.Password,
	})
	return &Control{
		rdb:   rdb,
		mylog: mylog,
	}
}

// ReopenWithCooldown makes the walker matchable again after the cooldown
// elapses. The eligibility scan reads cooldown_until on every pass, no
// timer fires here.
func (c *Control) ReopenWithCooldown(ctx context.Context, walkerID string, cooldownSeconds int) error {
	until := time.Now().Add(time.Duration(cooldownSeconds) * time.Second).Unix()
	return c.rdb.HSet(ctx, fmt.Sprintf(availKey, walkerID),
		"available", "1",
		"cooldown_until", strconv.FormatInt(until, 10),
	).Err()
}

func (c *Control) ClearEngaged(ctx context.Context, walkerID string) error {
	return c.rdb.SRem(ctx, engagedKey, walkerID).Err()
}
