package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
)

// QuestionSort 问题列表排序
type QuestionSort string

const (
	SortNew QuestionSort = "new"
	SortHot QuestionSort = "hot"
)

// QuestionFilter 问题列表查询条件
type QuestionFilter struct {
	Sort   QuestionSort
	Tag    string
	Offset int
	Limit  int
}

type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	List(ctx context.Context, f QuestionFilter) ([]*model.Question, int64, error)
	// AddRating 原子地调整冗余评分并返回新值
	AddRating(ctx context.Context, id string, delta int) (int, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository { return &questionRepository{db: db} }

func (r *questionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) List(ctx context.Context, f QuestionFilter) ([]*model.Question, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Question{}).Where("questions.is_active = ?", true)
	if f.Tag != "" {
		q = q.Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("tags.title = ?", f.Tag)
	}
	// 计数与分页共用同一组条件
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case SortHot:
		q = q.Order("questions.rating DESC, questions.created_at DESC")
	default:
		q = q.Order("questions.created_at DESC")
	}

	var res []*model.Question
	err := q.Preload("Author").Preload("Tags").
		Offset(f.Offset).Limit(f.Limit).
		Find(&res).Error
	return res, total, err
}

func (r *questionRepository) AddRating(ctx context.Context, id string, delta int) (int, error) {
	return addRating(ctx, r.db, &model.Question{}, id, delta)
}

// addRating 在同一连接/事务内执行 rating = rating + delta 并回读
func addRating(ctx context.Context, db *gorm.DB, m interface{}, id string, delta int) (int, error) {
	res := db.WithContext(ctx).Model(m).
		Where("id = ?", id).
		Update("rating", gorm.Expr("rating + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	var rating int
	if err := db.WithContext(ctx).Model(m).
		Select("rating").
		Where("id = ?", id).
		Scan(&rating).Error; err != nil {
		return 0, err
	}
	return rating, nil
}
