package model

import "time"

// User 用户；Rating/Rank 只由评分核心写入
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(254)"`
	Password  string    `json:"-" gorm:"type:varchar(100);not null"`
	Rating    int       `json:"rating" gorm:"not null;default:0;index:idx_user_rating"`
	Rank      int       `json:"rank" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 对外展示用的用户信息
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Rank     int    `json:"rank"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Rating: u.Rating, Rank: u.Rank}
}
