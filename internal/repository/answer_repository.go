package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
)

// AnswerSort 回答排序：best = 采纳优先 + 评分；new = 采纳优先 + 时间
type AnswerSort string

const (
	AnswerSortBest AnswerSort = "best"
	AnswerSortNew  AnswerSort = "new"
)

type AnswerRepository interface {
	Create(ctx context.Context, a *model.Answer) error
	GetByID(ctx context.Context, id string) (*model.Answer, error)
	ListByQuestion(ctx context.Context, questionID string, sort AnswerSort) ([]*model.Answer, error)
	// FindCorrect 返回问题当前被采纳的回答；没有时返回 nil, nil
	FindCorrect(ctx context.Context, questionID string) (*model.Answer, error)
	// SetCorrect 仅在 is_correct 与目标值不同时更新，返回是否真的翻转了
	SetCorrect(ctx context.Context, id string, correct bool) (bool, error)
	AddRating(ctx context.Context, id string, delta int) (int, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository { return &answerRepository{db: db} }

func (r *answerRepository) Create(ctx context.Context, a *model.Answer) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *answerRepository) GetByID(ctx context.Context, id string) (*model.Answer, error) {
	var a model.Answer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID string, sort AnswerSort) ([]*model.Answer, error) {
	q := r.db.WithContext(ctx).Preload("Author").Where("question_id = ?", questionID)
	switch sort {
	case AnswerSortNew:
		q = q.Order("is_correct DESC, created_at DESC")
	default:
		q = q.Order("is_correct DESC, rating DESC, created_at DESC")
	}
	var res []*model.Answer
	err := q.Find(&res).Error
	return res, err
}

func (r *answerRepository) FindCorrect(ctx context.Context, questionID string) (*model.Answer, error) {
	var a model.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ? AND is_correct = ?", questionID, true).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *answerRepository) SetCorrect(ctx context.Context, id string, correct bool) (bool, error) {
	// 条件更新：并发事务中只有一个能翻转同一行
	res := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("id = ? AND is_correct = ?", id, !correct).
		Update("is_correct", correct)
	return res.RowsAffected > 0, res.Error
}

func (r *answerRepository) AddRating(ctx context.Context, id string, delta int) (int, error) {
	return addRating(ctx, r.db, &model.Answer{}, id, delta)
}
