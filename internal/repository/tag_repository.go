package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

type TagRepository interface {
	// EnsureTitles 按标题查找标签，不存在的创建；返回标签及是否有新建
	EnsureTitles(ctx context.Context, titles []string) ([]model.Tag, bool, error)
	Popular(ctx context.Context, limit int) ([]model.PopularTag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) EnsureTitles(ctx context.Context, titles []string) ([]model.Tag, bool, error) {
	if len(titles) == 0 {
		return nil, false, nil
	}
	rows := make([]model.Tag, len(titles))
	for i, t := range titles {
		rows[i] = model.Tag{Title: t}
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "title"}}, DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return nil, false, res.Error
	}

	var tags []model.Tag
	if err := r.db.WithContext(ctx).Where("title IN ?", titles).Find(&tags).Error; err != nil {
		return nil, false, err
	}
	return tags, res.RowsAffected > 0, nil
}

func (r *tagRepository) Popular(ctx context.Context, limit int) ([]model.PopularTag, error) {
	var res []model.PopularTag
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.title, COUNT(question_tags.question_id) AS questions_count").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.title").
		Order("questions_count DESC, tags.id ASC").
		Limit(limit).
		Scan(&res).Error
	return res, err
}
