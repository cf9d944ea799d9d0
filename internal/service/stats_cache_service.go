package service

import (
	"context"
	"encoding/json"
	"time"

	"healthsure/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis key for the cached dashboard aggregates
const statsCacheKey = "policy:stats"

// StatsCache fronts the dashboard aggregates with a short-lived cache.
// The dashboard polls /policy-stats on every page load, so the hot read
// goes to Redis; every policy mutation invalidates the key. All cache
// failures degrade to the database and never fail a request.
type StatsCache interface {
	Get(ctx context.Context) (*entity.PolicyStatusCounts, bool)
	Set(ctx context.Context, counts *entity.PolicyStatusCounts)
	Invalidate(ctx context.Context)
}

type statsCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewStatsCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) StatsCache {
	return &statsCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func (s *statsCache) Get(ctx context.Context) (*entity.PolicyStatusCounts, bool) {
	payload, err := s.redisClient.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warnf("Failed to read stats cache: %+v", err)
		}
		return nil, false
	}

	var counts entity.PolicyStatusCounts
	if err := json.Unmarshal(payload, &counts); err != nil {
		s.log.Warnf("Corrupt stats cache payload, dropping: %+v", err)
		s.Invalidate(ctx)
		return nil, false
	}
	return &counts, true
}

func (s *statsCache) Set(ctx context.Context, counts *entity.PolicyStatusCounts) {
	payload, err := json.Marshal(counts)
	if err != nil {
		s.log.Warnf("Failed to marshal stats cache payload: %+v", err)
		return
	}
	if err := s.redisClient.Set(ctx, statsCacheKey, payload, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to write stats cache: %+v", err)
	}
}

func (s *statsCache) Invalidate(ctx context.Context) {
	if err := s.redisClient.Del(ctx, statsCacheKey).Err(); err != nil {
		s.log.Warnf("Failed to invalidate stats cache: %+v", err)
	}
}
