//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"
	"nachlass/pkg/testutil/containers"

	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	"nachlass/internal/family/store"
)

type RedisGroupCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *store.RedisGroupCache
}

func TestRedisGroupCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisGroupCacheSuite))
}

func (s *RedisGroupCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = store.NewRedisGroupCache(s.redis.Client, time.Minute)
}

func (s *RedisGroupCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func sampleGroups(universeID id.UniverseID) []rules.Group {
	admin := models.NewFamilyMember(universeID, "Anna", "Beispiel", models.RelAdmin, time.Now().UTC().Truncate(time.Millisecond), "test")
	return []rules.Group{
		{
			Section: rules.SectionAdmin,
			Title:   "Me",
			Members: []*models.FamilyMember{admin},
		},
	}
}

func (s *RedisGroupCacheSuite) TestMissThenHit() {
	ctx := context.Background()
	universeID := id.NewUniverseID()

	_, err := s.cache.Get(ctx, universeID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	groups := sampleGroups(universeID)
	s.Require().NoError(s.cache.Set(ctx, universeID, groups))

	cached, err := s.cache.Get(ctx, universeID)
	s.Require().NoError(err)
	s.Require().Len(cached, 1)
	s.Equal(rules.SectionAdmin, cached[0].Section)
	s.Require().Len(cached[0].Members, 1)
	s.Equal(groups[0].Members[0].ID, cached[0].Members[0].ID)
}

func (s *RedisGroupCacheSuite) TestInvalidate() {
	ctx := context.Background()
	universeID := id.NewUniverseID()

	s.Require().NoError(s.cache.Set(ctx, universeID, sampleGroups(universeID)))
	s.Require().NoError(s.cache.Invalidate(ctx, universeID))

	_, err := s.cache.Get(ctx, universeID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Invalidating an absent key is not an error.
	s.Require().NoError(s.cache.Invalidate(ctx, universeID))
}

func (s *RedisGroupCacheSuite) TestUniversesDoNotShareEntries() {
	ctx := context.Background()
	first := id.NewUniverseID()
	second := id.NewUniverseID()

	s.Require().NoError(s.cache.Set(ctx, first, sampleGroups(first)))

	_, err := s.cache.Get(ctx, second)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
