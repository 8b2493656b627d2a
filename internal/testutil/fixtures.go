package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/sumr_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", time.Now().UnixNano()%100000),
		Email:        &email,
		PasswordHash: &passwordHash,
		Plan:         "free",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPlan 设置套餐
func WithPlan(plan string) func(*model.User) {
	return func(u *model.User) {
		u.Plan = plan
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = &hash
	}
}

// WithGithubID 设置 GitHub 绑定
func WithGithubID(githubID string) func(*model.User) {
	return func(u *model.User) {
		u.GithubID = &githubID
	}
}

// TestSummary 创建测试摘要记录
func TestSummary(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Summary)) *model.Summary {
	t.Helper()

	summary := &model.Summary{
		UserID:       userID,
		InputPreview: "some input text",
		Output:       "a short summary",
		Style:        "plain",
		Length:       "medium",
		Language:     "en",
		ModelName:    "gpt-4o-mini",
	}

	for _, opt := range opts {
		opt(summary)
	}

	if err := db.Create(summary).Error; err != nil {
		t.Fatalf("Failed to create test summary: %v", err)
	}

	return summary
}

// WithCreatedAt 设置创建时间（配额窗口测试用）
func WithCreatedAt(at time.Time) func(*model.Summary) {
	return func(s *model.Summary) {
		s.CreatedAt = at
	}
}

// WithOutput 设置摘要内容
func WithOutput(output string) func(*model.Summary) {
	return func(s *model.Summary) {
		s.Output = output
	}
}

// WithModelName 设置模型名
func WithModelName(name string) func(*model.Summary) {
	return func(s *model.Summary) {
		s.ModelName = name
	}
}
