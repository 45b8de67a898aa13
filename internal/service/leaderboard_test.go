package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/qa-forum/internal/repository"
)

func TestGetTopUsers_LimitAndDelta(t *testing.T) {
	db := setupTestDB(t)
	c, _ := setupTestCache(t)
	seedUser(t, db, "user1", 10)
	seedUser(t, db, "user2", 5)
	ctx := context.Background()
	require.NoError(t, NewRankService(db, nil).RecalculateRanks(ctx))

	lb := NewLeaderboard(repository.NewUserRepository(db), c, LeaderboardOptions{TTL: testTTL})
	top, err := lb.GetTopUsers(ctx, 1)
	require.NoError(t, err)

	require.Len(t, top, 1)
	assert.Equal(t, "user1", top[0].User.ID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 0, top[0].Delta)
}

func TestGetTopUsers_DeltaAgainstPersistedRank(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "user1", 10)
	seedUser(t, db, "user2", 5)
	ctx := context.Background()
	require.NoError(t, NewRankService(db, nil).RecalculateRanks(ctx))
	// user2 超过 user1，但名次尚未重算
	require.NoError(t, repository.NewUserRepository(db).IncrementRating(ctx, "user2", 10))

	lb := NewLeaderboard(repository.NewUserRepository(db), nil, LeaderboardOptions{TTL: testTTL})
	top, err := lb.GetTopUsers(ctx, 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "user2", top[0].User.ID)
	assert.Equal(t, 1, top[0].Delta)
	assert.Equal(t, "user1", top[1].User.ID)
	assert.Equal(t, -1, top[1].Delta)
}

func TestGetTopUsers_CachedUntilTTL(t *testing.T) {
	db := setupTestDB(t)
	c, mr := setupTestCache(t)
	seedUser(t, db, "user1", 10)
	seedUser(t, db, "user2", 5)
	ctx := context.Background()
	lb := NewLeaderboard(repository.NewUserRepository(db), c, LeaderboardOptions{TTL: testTTL})

	first, err := lb.GetTopUsers(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "user1", first[0].User.ID)

	require.NoError(t, repository.NewUserRepository(db).IncrementRating(ctx, "user2", 100))

	stale, err := lb.GetTopUsers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "user1", stale[0].User.ID)

	mr.FastForward(testTTL + time.Second)

	fresh, err := lb.GetTopUsers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "user2", fresh[0].User.ID)
	assert.Equal(t, int64(1), c.Counters().Hits)
}

func TestGetTopUsers_KeyedByLimit(t *testing.T) {
	db := setupTestDB(t)
	c, mr := setupTestCache(t)
	seedUser(t, db, "user1", 1)
	lb := NewLeaderboard(repository.NewUserRepository(db), c, LeaderboardOptions{TTL: testTTL, MaxLimit: 50})
	ctx := context.Background()

	_, err := lb.GetTopUsers(ctx, 3)
	require.NoError(t, err)
	_, err = lb.GetTopUsers(ctx, 500)
	require.NoError(t, err)

	assert.True(t, mr.Exists("leaderboard:top:3"))
	assert.True(t, mr.Exists("leaderboard:top:50"))
	assert.Equal(t, testTTL, mr.TTL("leaderboard:top:3"))

	empty, err := lb.GetTopUsers(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
