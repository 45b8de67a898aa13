package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// RankService 全量重算用户名次
type RankService interface {
	RecalculateRanks(ctx context.Context) error
}

type rankService struct {
	db          *gorm.DB
	leaderboard *Leaderboard
}

// NewRankService leaderboard 非 nil 时，重算完成后按其配置决定是否清理排行榜缓存
func NewRankService(db *gorm.DB, leaderboard *Leaderboard) RankService {
	return &rankService{db: db, leaderboard: leaderboard}
}

func (s *rankService) RecalculateRanks(ctx context.Context) error {
	var changed int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = recalculateRanks(ctx, repository.NewUserRepository(tx))
		return err
	})
	if err != nil {
		return err
	}
	logger.Debug("ranks recalculated", zap.Int("changed", changed))
	s.leaderboard.afterRecalc(ctx)
	return nil
}

// recalculateRanks 按 (rating DESC, id ASC) 赋予 1..N 的稠密名次，只写发生变化的行。
// 调用方负责事务边界。
func recalculateRanks(ctx context.Context, users repository.UserRepository) (int, error) {
	rows, err := users.ListRanking(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i, row := range rows {
		rank := i + 1
		if row.Rank == rank {
			continue
		}
		if err := users.UpdateRank(ctx, row.ID, rank); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
