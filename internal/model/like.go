package model

import "time"

// TargetKind 点赞对象类型
type TargetKind string

const (
	TargetQuestion TargetKind = "question"
	TargetAnswer   TargetKind = "answer"
)

func (k TargetKind) Valid() bool { return k == TargetQuestion || k == TargetAnswer }

// QuestionLike 问题点赞（A 赞了问题 Q）
type QuestionLike struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID   string `gorm:"type:varchar(36);not null;index:idx_qlike_pair,unique"`
	QuestionID string `gorm:"type:varchar(36);not null;index:idx_qlike_pair,unique;index:idx_qlike_question"`
	// 复合唯一键，避免重复点赞
	// idx_qlike_pair = (author_id, question_id)
	IsLike    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (QuestionLike) TableName() string { return "question_likes" }

// AnswerLike 回答点赞
type AnswerLike struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID string `gorm:"type:varchar(36);not null;index:idx_alike_pair,unique"`
	AnswerID string `gorm:"type:varchar(36);not null;index:idx_alike_pair,unique;index:idx_alike_answer"`
	// idx_alike_pair = (author_id, answer_id)
	IsLike    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (AnswerLike) TableName() string { return "answer_likes" }
