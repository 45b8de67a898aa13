package model

// Tag 标签
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title string `json:"title" gorm:"type:varchar(200);uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }

// PopularTag 热门标签（按问题数）
type PopularTag struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	QuestionsCount int64  `json:"questions_count"`
}
