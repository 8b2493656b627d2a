package model

import (
	"time"
)

// Summary 一次成功的摘要记录，写入后不再修改
type Summary struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index:idx_summaries_user_created" json:"user_id"`
	InputPreview string    `gorm:"size:255;not null" json:"input_preview"` // 原文截断前缀
	Output       string    `gorm:"type:text;not null" json:"output"`
	Style        string    `gorm:"size:20" json:"style,omitempty"`
	Length       string    `gorm:"size:20" json:"length,omitempty"`
	Language     string    `gorm:"size:20" json:"language,omitempty"`
	ModelName    string    `gorm:"size:50" json:"model_name,omitempty"`
	CreatedAt    time.Time `gorm:"index:idx_summaries_user_created" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Summary) TableName() string {
	return "summaries"
}

// PreviewLimit 入库原文前缀的最大长度
const PreviewLimit = 200

// TruncateMarker 原文被截断时追加的标记
const TruncateMarker = "..."

// MakePreview 按 PreviewLimit 截断原文（按 rune 截断，避免切坏多字节字符）
func MakePreview(input string) string {
	runes := []rune(input)
	if len(runes) <= PreviewLimit {
		return input
	}
	return string(runes[:PreviewLimit]) + TruncateMarker
}
