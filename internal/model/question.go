package model

import "time"

// Question 问题；Rating 为冗余计数，随点赞/取消点赞增减，可为负
type Question struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);index:idx_question_author;not null"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Detailed  string    `json:"detailed" gorm:"type:text"`
	Rating    int       `json:"rating" gorm:"not null;default:0;index:idx_question_hot"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_question_hot"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags   []Tag `json:"tags,omitempty" gorm:"many2many:question_tags"`
}

func (Question) TableName() string { return "questions" }
