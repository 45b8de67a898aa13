package model

import "time"

// Answer 回答；同一问题最多一个 IsCorrect=true
type Answer struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuestionID string `json:"question_id" gorm:"type:varchar(36);index:idx_answer_question;uniqueIndex:ux_answer_correct,where:is_correct = true;not null"`
	// ux_answer_correct = (question_id) WHERE is_correct，库层面兜底“唯一采纳”
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);index:idx_answer_author;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"not null;default:0"`
	IsCorrect bool      `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Answer) TableName() string { return "answers" }
