package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/internal/repository"
)

// AnswerService 回答与采纳
type AnswerService interface {
	CreateAnswer(ctx context.Context, authorID, questionID, text string) (*model.Answer, error)
	// MarkCorrect 由问题作者采纳回答：转移评分并重算名次。重复采纳同一回答不重复加分。
	// 只有问题作者能采纳（否则 ErrForbidden），且不能采纳自己的回答（ErrSelfMark）。
	MarkCorrect(ctx context.Context, actorID, answerID string) error
}

type answerService struct {
	db          *gorm.DB
	notifier    notify.Notifier
	leaderboard *Leaderboard
}

func NewAnswerService(db *gorm.DB, notifier notify.Notifier, leaderboard *Leaderboard) AnswerService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &answerService{db: db, notifier: notifier, leaderboard: leaderboard}
}

func (s *answerService) CreateAnswer(ctx context.Context, authorID, questionID, text string) (*model.Answer, error) {
	text = strings.TrimSpace(text)
	now := time.Now()
	answer := &model.Answer{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Text:       text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewQuestionRepository(tx).GetByID(ctx, questionID); err != nil {
			return err
		}
		return repository.NewAnswerRepository(tx).Create(ctx, answer)
	})
	if err != nil {
		return nil, notFound(err)
	}

	s.notifier.Notify(ctx, notify.QuestionChannel(questionID), map[string]any{
		"type": notify.EventNewAnswer,
		"answer": map[string]any{
			"id":         answer.ID,
			"text":       answer.Text,
			"author_id":  answer.AuthorID,
			"created_at": answer.CreatedAt,
		},
	})
	return answer, nil
}

func (s *answerService) MarkCorrect(ctx context.Context, actorID, answerID string) error {
	var (
		questionID string
		previousID string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := repository.NewAnswerRepository(tx)
		questions := repository.NewQuestionRepository(tx)
		users := repository.NewUserRepository(tx)

		answer, err := answers.GetByID(ctx, answerID)
		if err != nil {
			return err
		}
		question, err := questions.GetByID(ctx, answer.QuestionID)
		if err != nil {
			return err
		}
		if question.AuthorID != actorID {
			return ErrForbidden
		}
		if answer.AuthorID == actorID {
			return ErrSelfMark
		}
		questionID = question.ID
		if answer.IsCorrect {
			return errAlreadyCorrect
		}

		prev, err := answers.FindCorrect(ctx, question.ID)
		if err != nil {
			return err
		}
		if prev != nil && prev.ID != answer.ID {
			unset, err := answers.SetCorrect(ctx, prev.ID, false)
			if err != nil {
				return err
			}
			// 只有真正取消了采纳才扣分，评分不会因此变为负数
			if unset {
				previousID = prev.ID
				if _, err := users.DecrementRatingFloor(ctx, prev.AuthorID); err != nil {
					return err
				}
			}
		}

		set, err := answers.SetCorrect(ctx, answer.ID, true)
		if err != nil {
			return err
		}
		if !set {
			// 并发请求已采纳该回答；回滚本事务中的其它改动
			return errAlreadyCorrect
		}
		if err := users.IncrementRating(ctx, answer.AuthorID, 1); err != nil {
			return err
		}
		_, err = recalculateRanks(ctx, users)
		return err
	})
	if errors.Is(err, errAlreadyCorrect) {
		return nil
	}
	if err != nil {
		return notFound(err)
	}

	s.leaderboard.afterRecalc(ctx)
	s.notifier.Notify(ctx, notify.QuestionChannel(questionID), map[string]any{
		"type":               notify.EventCorrectAnswer,
		"answer_id":          answerID,
		"previous_answer_id": previousID,
		"user_id":            actorID,
	})
	return nil
}
