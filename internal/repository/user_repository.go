package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
)

// RankRow 重算名次时读取的最小字段集
type RankRow struct {
	ID     string
	Rating int
	Rank   int
}

// UserRepository 用户及评分账本
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// IncrementRating 原子地给用户评分加 delta
	IncrementRating(ctx context.Context, id string, delta int) error
	// DecrementRatingFloor 评分 > 0 时减 1，返回是否发生了扣减
	DecrementRatingFloor(ctx context.Context, id string) (bool, error)

	// ListRanking 按 (rating DESC, id ASC) 返回全部用户
	ListRanking(ctx context.Context) ([]RankRow, error)
	UpdateRank(ctx context.Context, id string, rank int) error
	// Top 按排名顺序返回前 limit 个用户
	Top(ctx context.Context, limit int) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) IncrementRating(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("rating", gorm.Expr("rating + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) DecrementRatingFloor(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND rating > 0", id).
		Update("rating", gorm.Expr("rating - 1"))
	return res.RowsAffected > 0, res.Error
}

func (r *userRepository) ListRanking(ctx context.Context) ([]RankRow, error) {
	var rows []RankRow
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("id", "rating", "rank").
		Order("rating DESC, id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *userRepository) UpdateRank(ctx context.Context, id string, rank int) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("rank", rank).Error
}

func (r *userRepository) Top(ctx context.Context, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("rating DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
