package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

const leaderboardKeyPrefix = "leaderboard:"

// LeaderboardOptions 排行榜缓存参数
type LeaderboardOptions struct {
	TTL                time.Duration
	MaxLimit           int
	InvalidateOnRecalc bool
}

// Leaderboard 前 K 名用户，按 limit 分键缓存，过期时间很短。
// 缓存内容相对持久化名次可能陈旧，陈旧窗口不超过 TTL。
type Leaderboard struct {
	users repository.UserRepository
	cache *cache.JSONCache
	opts  LeaderboardOptions
}

func NewLeaderboard(users repository.UserRepository, c *cache.JSONCache, opts LeaderboardOptions) *Leaderboard {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	return &Leaderboard{users: users, cache: c, opts: opts}
}

// GetTopUsers 返回前 limit 名用户及名次变化（正数表示上升）
func (l *Leaderboard) GetTopUsers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return []model.LeaderboardEntry{}, nil
	}
	if l.opts.MaxLimit > 0 && limit > l.opts.MaxLimit {
		limit = l.opts.MaxLimit
	}
	key := fmt.Sprintf("%stop:%d", leaderboardKeyPrefix, limit)
	return cache.GetOrLoad(ctx, l.cache, key, l.opts.TTL, func(ctx context.Context) ([]model.LeaderboardEntry, error) {
		return l.compute(ctx, limit)
	})
}

func (l *Leaderboard) compute(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	users, err := l.users.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, len(users))
	for i, u := range users {
		rank := i + 1
		delta := 0
		// 0 表示尚未参与过排名
		if u.Rank > 0 {
			delta = u.Rank - rank
		}
		entries[i] = model.LeaderboardEntry{User: u.Summary(), Rank: rank, Delta: delta}
	}
	return entries, nil
}

// Invalidate 清空所有 limit 的缓存
func (l *Leaderboard) Invalidate(ctx context.Context) error {
	_, err := l.cache.DeletePrefix(ctx, leaderboardKeyPrefix)
	return err
}

func (l *Leaderboard) afterRecalc(ctx context.Context) {
	if l == nil || !l.opts.InvalidateOnRecalc {
		return
	}
	if err := l.Invalidate(ctx); err != nil {
		logger.Warn("leaderboard invalidate failed", zap.Error(err))
	}
}
