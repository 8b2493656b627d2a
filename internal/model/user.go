package model

import (
	"time"
)

type User struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string    `gorm:"size:255" json:"-"`
	AvatarURL    string     `gorm:"size:500" json:"avatar_url"`
	GithubID     *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Plan         string     `gorm:"size:20;default:free" json:"plan"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"` // 注册时间
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
