//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"timeclock/internal/attendance/cache"
	"timeclock/internal/attendance/models"

	"timeclock/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite

	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) entry(id int64) *models.Entry {
	return &models.Entry{
		ID:        id,
		Timestamp: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		Type:      models.PunchClockIn,
		Location:  "HQ",
		PersonID:  42,
	}
}

func (s *RedisCacheSuite) TestSetAndGet() {
	ctx := context.Background()
	s.cache.Set(ctx, s.entry(1))

	got, ok := s.cache.Get(ctx, 1)
	s.Require().True(ok)
	s.Equal(int64(1), got.ID)
	s.Equal(models.PunchClockIn, got.Type)
	s.Equal("HQ", got.Location)
	s.True(got.Timestamp.Equal(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)))
}

func (s *RedisCacheSuite) TestMiss() {
	_, ok := s.cache.Get(context.Background(), 999)
	s.False(ok)
}

func (s *RedisCacheSuite) TestOverwrite() {
	ctx := context.Background()
	s.cache.Set(ctx, s.entry(1))

	updated := s.entry(1)
	updated.Type = models.PunchClockOut
	s.cache.Set(ctx, updated)

	got, ok := s.cache.Get(ctx, 1)
	s.Require().True(ok)
	s.Equal(models.PunchClockOut, got.Type)
}

func (s *RedisCacheSuite) TestExpiry() {
	ctx := context.Background()
	short := cache.NewRedisCache(s.redis.Client, 50*time.Millisecond)
	short.Set(ctx, s.entry(1))

	_, ok := short.Get(ctx, 1)
	s.True(ok)

	time.Sleep(100 * time.Millisecond)
	_, ok = short.Get(ctx, 1)
	s.False(ok)
}
