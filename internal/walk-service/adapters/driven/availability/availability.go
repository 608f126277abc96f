package availability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/geo"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	geoKey     = "walkers:geo"
	engagedKey = "walkers:engaged"
	availKey   = "walker:avail:%s"
)

// View reads the availability registry maintained by
// walker-location-service and owns the engaged set.
type View struct {
	rdb   *redis.Client
	cfg   *config.Matchingconfig
	mylog mylogger.Logger
}

func New(redisCfg *config.Redisconfig, matchCfg *config.Matchingconfig, mylog mylogger.Logger) ports.IAvailabilityView {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
		Password: redisCfg.Password,
	})
	return &View{
		rdb:   rdb,
		cfg:   matchCfg,
		mylog: mylog,
	}
}

// SearchNearby returns walkers inside the radius, nearest first, with the
// distance rounded the way it is shown to wanderers.
func (v *View) SearchNearby(ctx context.Context, lat, lng, radiusKm float64) ([]model.Candidate, error) {
	locs, err := v.rdb.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lng,
			Latitude:   lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(locs))
	for _, loc := range locs {
		candidates = append(candidates, model.Candidate{
			WalkerID:   loc.Name,
			DistanceKm: geo.RoundKm(loc.Dist),
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
		})
	}
	return candidates, nil
}

// IsEligible applies the hash-level checks: the walker is online, not
// manually busy, heartbeating, and past any post-walk cooldown.
func (v *View) IsEligible(ctx context.Context, walkerID string) (bool, error) {
	fields, err := v.rdb.HGetAll(ctx, fmt.Sprintf(availKey, walkerID)).Result()
	if err != nil {
		return false, fmt.Errorf("read availability hash: %w", err)
	}
	if len(fields) == 0 {
		return false, nil
	}

	if fields["available"] != "1" || fields["manual_busy"] == "1" {
		return false, nil
	}

	heartbeat, err := strconv.ParseInt(fields["heartbeat_at"], 10, 64)
	if err != nil {
		return false, nil
	}
	if time.Since(time.Unix(heartbeat, 0)) > time.Duration(v.cfg.HeartbeatTTLSec)*time.Second {
		return false, nil
	}

	if raw := fields["cooldown_until"]; raw != "" {
		until, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && time.Now().Unix() < until {
			return false, nil
		}
	}
	return true, nil
}

func (v *View) IsEngaged(ctx context.Context, walkerID string) (bool, error) {
	return v.rdb.SIsMember(ctx, engagedKey, walkerID).Result()
}

func (v *View) MarkEngaged(ctx context.Context, walkerID string) error {
	return v.rdb.SAdd(ctx, engagedKey, walkerID).Err()
}

func (v *View) ClearEngaged(ctx context.Context, walkerID string) error {
	return v.rdb.SRem(ctx, engagedKey, walkerID).Err()
}
