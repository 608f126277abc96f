package rd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/walker-location-service/core/domain/model"
	"walk-companion/internal/walker-location-service/core/myerrors"
	"walk-companion/internal/walker-location-service/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	geoKey   = "walkers:geo"
	availKey = "walker:avail:%s"
)

// Store keeps the availability registry in Redis: one geo set shared by
// all walkers plus a hash per walker with the eligibility fields.
type Store struct {
	rdb   *redis.Client
	mylog mylogger.Logger
}

func New(redisCfg *config.Redisconfig, mylog mylogger.Logger) ports.IAvailabilityStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
		Password: redisCfg.Password,
	})
	return &Store{
		rdb:   rdb,
		mylog: mylog,
	}
}

func (s *Store) GoOnline(ctx context.Context, walkerID string, lat, lng float64) error {
	pipe := s.rdb.TxPipeline()
	pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{Name: walkerID, Latitude: lat, Longitude: lng})
	pipe.HSet(ctx, fmt.Sprintf(availKey, walkerID), map[string]any{
		"available":    "1",
		"manual_busy":  "0",
		"heartbeat_at": strconv.FormatInt(time.Now().Unix(), 10),
		"lat":          lat,
		"lng":          lng,
	})
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) GoOffline(ctx context.Context, walkerID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.ZRem(ctx, geoKey, walkerID)
	pipe.HSet(ctx, fmt.Sprintf(availKey, walkerID), "available", "0")
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Heartbeat(ctx context.Context, walkerID string, lat, lng float64) error {
	pipe := s.rdb.TxPipeline()
	pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{Name: walkerID, Latitude: lat, Longitude: lng})
	pipe.HSet(ctx, fmt.Sprintf(availKey, walkerID), map[string]any{
		"heartbeat_at": strconv.FormatInt(time.Now().Unix(), 10),
		"lat":          lat,
		"lng":          lng,
	})
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) SetBusy(ctx context.Context, walkerID string, busy bool) error {
	val := "0"
	if busy {
		val = "1"
	}
	return s.rdb.HSet(ctx, fmt.Sprintf(availKey, walkerID), "manual_busy", val).Err()
}

func (s *Store) Get(ctx context.Context, walkerID string) (model.AvailabilityEntry, error) {
	fields, err := s.rdb.HGetAll(ctx, fmt.Sprintf(availKey, walkerID)).Result()
	if err != nil {
		return model.AvailabilityEntry{}, err
	}
	if len(fields) == 0 {
		return model.AvailabilityEntry{}, myerrors.ErrNotFound
	}

	entry := model.AvailabilityEntry{
		WalkerID:   walkerID,
		Available:  fields["available"] == "1",
		ManualBusy: fields["manual_busy"] == "1",
	}
	if ts, err := strconv.ParseInt(fields["heartbeat_at"], 10, 64); err == nil {
		entry.LastHeartbeat = time.Unix(ts, 0)
	}
	if ts, err := strconv.ParseInt(fields["cooldown_until"], 10, 64); err == nil {
		entry.CooldownUntil = time.Unix(ts, 0)
	}
	if lat, err := strconv.ParseFloat(fields["lat"], 64); err == nil {
		entry.Latitude = lat
	}
	if lng, err := strconv.ParseFloat(fields["lng"], 64); err == nil {
		entry.Longitude = lng
	}
	return entry, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
