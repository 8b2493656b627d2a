package service

import (
	"fmt"
	"time"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/repository"
)

// QuotaExceededError 配额不足，带上已用次数和上限，供前端渲染升级提示
type QuotaExceededError struct {
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("配额已用完（%d/%d）", e.Used, e.Limit)
}

type QuotaService struct {
	userRepo    *repository.UserRepository
	summaryRepo *repository.SummaryRepository
	cfg         *config.Config
}

func NewQuotaService(userRepo *repository.UserRepository, summaryRepo *repository.SummaryRepository, cfg *config.Config) *QuotaService {
	return &QuotaService{
		userRepo:    userRepo,
		summaryRepo: summaryRepo,
		cfg:         cfg,
	}
}

// Check 检查配额：统计滚动窗口内的摘要次数并与套餐上限比较。
// 超限时返回 *QuotaExceededError。该检查本身不占位，检查与落库之间的
// 并发竞争由 SummaryService 的按用户加锁来消除。
func (s *QuotaService) Check(userID int64) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	plan := s.GetPlan(user.Plan)

	used, err := s.summaryRepo.CountSince(userID, s.windowStart())
	if err != nil {
		return err
	}

	if used >= plan.MonthlyLimit {
		return &QuotaExceededError{Used: used, Limit: plan.MonthlyLimit}
	}
	return nil
}

// GetPlan 按名字取套餐，未知名字回落到 free
func (s *QuotaService) GetPlan(name string) config.Plan {
	if plan, ok := s.cfg.Plan.Plans[name]; ok {
		return plan
	}
	return s.cfg.Plan.Plans["free"]
}

// IsValidPlan 套餐名是否存在于套餐表
func (s *QuotaService) IsValidPlan(name string) bool {
	_, ok := s.cfg.Plan.Plans[name]
	return ok
}

// GetQuotaInfo 获取用户配额信息
func (s *QuotaService) GetQuotaInfo(userID int64) (*dto.QuotaInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	plan := s.GetPlan(user.Plan)

	used, err := s.summaryRepo.CountSince(userID, s.windowStart())
	if err != nil {
		return nil, err
	}

	remaining := plan.MonthlyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &dto.QuotaInfo{
		Plan:       user.Plan,
		Limit:      plan.MonthlyLimit,
		Used:       used,
		Remaining:  remaining,
		WindowDays: s.windowDays(),
	}, nil
}

// ListPlans 套餐表（公开接口用）
func (s *QuotaService) ListPlans() []*dto.PlanInfo {
	// 固定顺序输出
	order := []string{"free", "pro", "enterprise"}
	plans := make([]*dto.PlanInfo, 0, len(order))
	for _, name := range order {
		plan, ok := s.cfg.Plan.Plans[name]
		if !ok {
			continue
		}
		plans = append(plans, &dto.PlanInfo{
			Name:         name,
			MonthlyLimit: plan.MonthlyLimit,
			Model:        plan.Model,
			Price:        plan.Price,
		})
	}
	return plans
}

func (s *QuotaService) windowDays() int {
	if s.cfg.Plan.WindowDays > 0 {
		return s.cfg.Plan.WindowDays
	}
	return 30
}

func (s *QuotaService) windowStart() time.Time {
	return time.Now().AddDate(0, 0, -s.windowDays())
}
