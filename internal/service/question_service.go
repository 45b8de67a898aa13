package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

const (
	popularTagsKey   = "tags:popular"
	popularTagsTTL   = 7 * 24 * time.Hour
	popularTagsLimit = 10
)

// QuestionDetail 问题详情及其回答
type QuestionDetail struct {
	Question *model.Question `json:"question"`
	Answers  []*model.Answer `json:"answers"`
}

// QuestionPage 分页结果
type QuestionPage struct {
	Items    []*model.Question `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type QuestionService interface {
	CreateQuestion(ctx context.Context, authorID, title, detailed string, tags []string) (*model.Question, error)
	GetQuestion(ctx context.Context, id string, sort repository.AnswerSort) (*QuestionDetail, error)
	ListQuestions(ctx context.Context, sort repository.QuestionSort, tag string, page, pageSize int) (*QuestionPage, error)
	PopularTags(ctx context.Context) ([]model.PopularTag, error)
}

type questionService struct {
	db    *gorm.DB
	tags  repository.TagRepository
	cache *cache.JSONCache
}

func NewQuestionService(db *gorm.DB, c *cache.JSONCache) QuestionService {
	return &questionService{db: db, tags: repository.NewTagRepository(db), cache: c}
}

func (s *questionService) CreateQuestion(ctx context.Context, authorID, title, detailed string, tags []string) (*model.Question, error) {
	now := time.Now()
	q := &model.Question{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(title),
		Detailed:  strings.TrimSpace(detailed),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	titles := normalizeTags(tags)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(titles) > 0 {
			found, _, err := repository.NewTagRepository(tx).EnsureTitles(ctx, titles)
			if err != nil {
				return err
			}
			q.Tags = found
		}
		return repository.NewQuestionRepository(tx).Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	if len(q.Tags) > 0 {
		if err := s.cache.Delete(ctx, popularTagsKey); err != nil {
			logger.Warn("popular tags cache invalidate failed", zap.Error(err))
		}
	}
	return q, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string, sort repository.AnswerSort) (*QuestionDetail, error) {
	q, err := repository.NewQuestionRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	answers, err := repository.NewAnswerRepository(s.db).ListByQuestion(ctx, id, sort)
	if err != nil {
		return nil, err
	}
	return &QuestionDetail{Question: q, Answers: answers}, nil
}

func (s *questionService) ListQuestions(ctx context.Context, sort repository.QuestionSort, tag string, page, pageSize int) (*QuestionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	items, total, err := repository.NewQuestionRepository(s.db).List(ctx, repository.QuestionFilter{
		Sort:   sort,
		Tag:    strings.ToLower(strings.TrimSpace(tag)),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *questionService) PopularTags(ctx context.Context) ([]model.PopularTag, error) {
	return cache.GetOrLoad(ctx, s.cache, popularTagsKey, popularTagsTTL, func(ctx context.Context) ([]model.PopularTag, error) {
		return s.tags.Popular(ctx, popularTagsLimit)
	})
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
