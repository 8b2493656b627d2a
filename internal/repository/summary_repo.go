package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/sumr_go_server/internal/model"
)

type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) Create(summary *model.Summary) error {
	return r.db.Create(summary).Error
}

func (r *SummaryRepository) GetByID(id int64) (*model.Summary, error) {
	var summary model.Summary
	err := r.db.Where("id = ?", id).First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CountSince 统计用户自 since 以来的摘要次数（配额窗口计数）
func (r *SummaryRepository) CountSince(userID int64, since time.Time) (int, error) {
	var count int64
	err := r.db.Model(&model.Summary{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return int(count), err
}

// ListByUserID 按创建时间倒序分页
func (r *SummaryRepository) ListByUserID(userID int64, page, pageSize int) ([]*model.Summary, int64, error) {
	var total int64
	if err := r.db.Model(&model.Summary{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var summaries []*model.Summary
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&summaries).Error
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}
