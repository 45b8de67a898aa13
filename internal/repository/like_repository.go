package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

// LikeRepository 点赞关系（问题 / 回答两张表，统一按 kind 路由）
type LikeRepository interface {
	// Create 插入点赞行；已存在（含并发插入被唯一键拦下）时返回 false, nil
	Create(ctx context.Context, kind model.TargetKind, authorID, targetID string) (bool, error)
	// Delete 删除点赞行；不存在时返回 false, nil
	Delete(ctx context.Context, kind model.TargetKind, authorID, targetID string) (bool, error)
	Exists(ctx context.Context, kind model.TargetKind, authorID, targetID string) (bool, error)
	CountByTarget(ctx context.Context, kind model.TargetKind, targetID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, kind model.TargetKind, authorID, targetID string) (bool, error) {
	var row interface{}
	switch kind {
	case model.TargetQuestion:
		row = &model.QuestionLike{ID: uuid.New().String(), AuthorID: authorID, QuestionID: targetID, IsLike: true}
	case model.TargetAnswer:
		row = &model.AnswerLike{ID: uuid.New().String(), AuthorID: authorID, AnswerID: targetID, IsLike: true}
	default:
		return false, fmt.Errorf("unknown like target kind %q", kind)
	}
	// 幂等：重复点赞不报错，RowsAffected=0 表示没有新行
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, kind model.TargetKind, authorID, targetID string) (bool, error) {
	var res *gorm.DB
	switch kind {
	case model.TargetQuestion:
		res = r.db.WithContext(ctx).
			Where("author_id = ? AND question_id = ?", authorID, targetID).
			Delete(&model.QuestionLike{})
	case model.TargetAnswer:
		res = r.db.WithContext(ctx).
			Where("author_id = ? AND answer_id = ?", authorID, targetID).
			Delete(&model.AnswerLike{})
	default:
		return false, fmt.Errorf("unknown like target kind %q", kind)
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, kind model.TargetKind, authorID, targetID string) (bool, error) {
	q, err := r.scope(ctx, kind, authorID, targetID)
	if err != nil {
		return false, err
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, kind model.TargetKind, targetID string) (int64, error) {
	var cnt int64
	var err error
	switch kind {
	case model.TargetQuestion:
		err = r.db.WithContext(ctx).Model(&model.QuestionLike{}).Where("question_id = ?", targetID).Count(&cnt).Error
	case model.TargetAnswer:
		err = r.db.WithContext(ctx).Model(&model.AnswerLike{}).Where("answer_id = ?", targetID).Count(&cnt).Error
	default:
		return 0, fmt.Errorf("unknown like target kind %q", kind)
	}
	return cnt, err
}

func (r *likeRepository) scope(ctx context.Context, kind model.TargetKind, authorID, targetID string) (*gorm.DB, error) {
	switch kind {
	case model.TargetQuestion:
		return r.db.WithContext(ctx).Model(&model.QuestionLike{}).
			Where("author_id = ? AND question_id = ?", authorID, targetID), nil
	case model.TargetAnswer:
		return r.db.WithContext(ctx).Model(&model.AnswerLike{}).
			Where("author_id = ? AND answer_id = ?", authorID, targetID), nil
	}
	return nil, fmt.Errorf("unknown like target kind %q", kind)
}
