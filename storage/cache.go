package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ewintr.nl/videotime/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

const (
	latestKey = "videotime:latest"
	LatestTTL = 15 * time.Minute
)

// Cached puts a Redis cache-aside layer in front of the latest snapshot. A
// Cached without Redis client passes everything through.
type Cached struct {
	Repository
	rdb    *redis.Client
	logger *slog.Logger
}

// NewCached connects to redisURL. Caching is disabled when the url is empty
// or Redis cannot be reached.
func NewCached(repo Repository, redisURL string, logger *slog.Logger) *Cached {
	c := &Cached{Repository: repo, logger: logger}
	if redisURL == "" {
		logger.Info("redis: no url configured, caching disabled")
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("redis: invalid url, caching disabled", slog.String("error", err.Error()))
		return c
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis: connection failed, caching disabled", slog.String("error", err.Error()))
		return c
	}

	logger.Info("redis: connected, caching enabled")
	c.rdb = rdb
	return c
}

type cachedSnapshot struct {
	RunID       uuid.UUID          `json:"run_id"`
	Stats       model.Statistics   `json:"stats"`
	Facts       model.DerivedFacts `json:"facts"`
	Caption     string             `json:"caption"`
	LastUpdated time.Time          `json:"last_updated"`
}

func newCachedSnapshot(snap model.Snapshot) cachedSnapshot {
	return cachedSnapshot{
		RunID:       snap.RunID,
		Stats:       snap.Stats,
		Facts:       snap.Facts,
		Caption:     snap.Caption,
		LastUpdated: snap.LastUpdated,
	}
}

func (cs cachedSnapshot) snapshot() model.Snapshot {
	return model.Snapshot{
		RunID:       cs.RunID,
		Stats:       cs.Stats,
		Facts:       cs.Facts,
		Caption:     cs.Caption,
		LastUpdated: cs.LastUpdated,
	}
}

// ReplaceAll stores snap in the database, then overwrites the cached one.
func (c *Cached) ReplaceAll(ctx context.Context, snap model.Snapshot) error {
	if err := c.Repository.ReplaceAll(ctx, snap); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}

	body, err := json.Marshal(newCachedSnapshot(snap))
	if err == nil {
		err = c.rdb.Set(ctx, latestKey, body, LatestTTL).Err()
	}
	if err == nil {
		return nil
	}
	c.logger.Warn("redis: could not store latest snapshot", slog.String("error", err.Error()))
	if err := c.rdb.Del(ctx, latestKey).Err(); err != nil {
		c.logger.Error("redis: could not invalidate latest snapshot", slog.String("error", err.Error()))
	}

	return nil
}

func (c *Cached) Latest(ctx context.Context) (model.Snapshot, error) {
	if c.rdb == nil {
		return c.Repository.Latest(ctx)
	}

	data, err := c.rdb.Get(ctx, latestKey).Bytes()
	switch {
	case err == nil:
		var cs cachedSnapshot
		if err := json.Unmarshal(data, &cs); err == nil {
			return cs.snapshot(), nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("redis: could not read latest snapshot", slog.String("error", err.Error()))
	}

	snap, err := c.Repository.Latest(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	c.fill(ctx, snap)

	return snap, nil
}

// fill caches snap unless the key is already set. A writer always wins
// over a reader that looked at the database before the write.
func (c *Cached) fill(ctx context.Context, snap model.Snapshot) {
	body, err := json.Marshal(newCachedSnapshot(snap))
	if err != nil {
		return
	}
	if err := c.rdb.SetNX(ctx, latestKey, body, LatestTTL).Err(); err != nil {
		c.logger.Warn("redis: could not store latest snapshot", slog.String("error", err.Error()))
	}
}

func (c *Cached) Stats(ctx context.Context) (model.Statistics, error) {
	snap, err := c.Latest(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	return snap.Stats, nil
}

func (c *Cached) Facts(ctx context.Context) (model.DerivedFacts, error) {
	snap, err := c.Latest(ctx)
	if err != nil {
		return model.DerivedFacts{}, err
	}
	return snap.Facts, nil
}
