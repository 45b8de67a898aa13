package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/internal/repository"
)

// LikeService 点赞开关
type LikeService interface {
	// ToggleLike 把 (actor, target) 的点赞状态收敛到 wantLike，返回目标的最新评分。
	// 重放同一请求结果不变。
	ToggleLike(ctx context.Context, actorID string, kind model.TargetKind, targetID string, wantLike bool) (int, error)
}

type likeService struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewLikeService(db *gorm.DB, notifier notify.Notifier) LikeService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &likeService{db: db, notifier: notifier}
}

func (s *likeService) ToggleLike(ctx context.Context, actorID string, kind model.TargetKind, targetID string, wantLike bool) (int, error) {
	if !kind.Valid() {
		return 0, ErrInvalidTarget
	}

	var (
		rating     int
		questionID string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)
		addRating, authorID, current, qid, err := s.loadTarget(ctx, tx, kind, targetID)
		if err != nil {
			return err
		}
		if authorID == actorID {
			return ErrSelfLike
		}
		rating, questionID = current, qid

		if wantLike {
			created, err := likes.Create(ctx, kind, actorID, targetID)
			if err != nil || !created {
				return err
			}
			rating, err = addRating(ctx, targetID, 1)
			return err
		}

		deleted, err := likes.Delete(ctx, kind, actorID, targetID)
		if err != nil || !deleted {
			return err
		}
		rating, err = addRating(ctx, targetID, -1)
		return err
	})
	if err != nil {
		return 0, notFound(err)
	}

	eventType := notify.EventQuestionLike
	if kind == model.TargetAnswer {
		eventType = notify.EventAnswerLike
	}
	s.notifier.Notify(ctx, notify.LikesChannel(questionID), map[string]any{
		"type":    eventType,
		"id":      targetID,
		"rating":  rating,
		"user_id": actorID,
		"is_like": wantLike,
	})
	return rating, nil
}

type ratingAdder func(ctx context.Context, id string, delta int) (int, error)

// loadTarget 读取目标的作者、当前评分及所属问题
func (s *likeService) loadTarget(ctx context.Context, tx *gorm.DB, kind model.TargetKind, targetID string) (ratingAdder, string, int, string, error) {
	if kind == model.TargetQuestion {
		questions := repository.NewQuestionRepository(tx)
		q, err := questions.GetByID(ctx, targetID)
		if err != nil {
			return nil, "", 0, "", err
		}
		return questions.AddRating, q.AuthorID, q.Rating, q.ID, nil
	}
	answers := repository.NewAnswerRepository(tx)
	a, err := answers.GetByID(ctx, targetID)
	if err != nil {
		return nil, "", 0, "", err
	}
	return answers.AddRating, a.AuthorID, a.Rating, a.QuestionID, nil
}
