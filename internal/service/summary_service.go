package service

import (
	"context"
	"sync"
	"time"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/model"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/pubsub"
	"github.com/qs3c/sumr_go_server/internal/pkg/summarizer"
	"github.com/qs3c/sumr_go_server/internal/repository"
)

// Gateway 外部摘要服务边界，只关心文本进、文本出
type Gateway interface {
	Summarize(ctx context.Context, text, modelName string, opts summarizer.Options) (string, error)
}

type SummaryService struct {
	summaryRepo  *repository.SummaryRepository
	userRepo     *repository.UserRepository
	quotaService *QuotaService
	gateway      Gateway
	publisher    *pubsub.Publisher
	cfg          *config.Config

	// 按用户串行化「配额检查 -> 网关调用 -> 落库」，
	// 两个并发请求不会同时通过最后一个名额的检查
	userLocks map[int64]*sync.Mutex
	mu        sync.Mutex
}

func NewSummaryService(
	summaryRepo *repository.SummaryRepository,
	userRepo *repository.UserRepository,
	quotaService *QuotaService,
	gateway Gateway,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *SummaryService {
	return &SummaryService{
		summaryRepo:  summaryRepo,
		userRepo:     userRepo,
		quotaService: quotaService,
		gateway:      gateway,
		publisher:    publisher,
		cfg:          cfg,
		userLocks:    make(map[int64]*sync.Mutex),
	}
}

// Summarize 执行一次摘要：检查配额、调用网关、落库。
// 网关失败时不写任何记录，会话可以直接重试。
func (s *SummaryService) Summarize(ctx context.Context, userID int64, req *dto.SummarizeRequest) (*dto.SummarizeResponse, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.quotaService.Check(userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	// 模型由套餐决定
	plan := s.quotaService.GetPlan(user.Plan)

	output, err := s.gateway.Summarize(ctx, req.Text, plan.Model, summarizer.Options{
		Style:    req.Style,
		Length:   req.Length,
		Language: req.Language,
	})
	if err != nil {
		s.publishEvent(ctx, &pubsub.SummaryEvent{
			Type:   pubsub.EventSummaryFailed,
			UserID: userID,
			Error:  err.Error(),
		})
		return nil, err
	}

	summary := &model.Summary{
		UserID:       userID,
		InputPreview: model.MakePreview(req.Text),
		Output:       output,
		Style:        req.Style,
		Length:       req.Length,
		Language:     req.Language,
		ModelName:    plan.Model,
	}

	if err := s.summaryRepo.Create(summary); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, &pubsub.SummaryEvent{
		Type:      pubsub.EventSummaryCreated,
		UserID:    userID,
		SummaryID: summary.ID,
		Preview:   summary.InputPreview,
	})

	return &dto.SummarizeResponse{
		SummaryID: summary.ID,
		Output:    output,
		ModelName: plan.Model,
	}, nil
}

// List 摘要档案，按创建时间倒序分页
func (s *SummaryService) List(userID int64, page, pageSize int) ([]*dto.SummaryListItem, int64, error) {
	summaries, total, err := s.summaryRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.SummaryListItem, len(summaries))
	for i, sum := range summaries {
		items[i] = &dto.SummaryListItem{
			ID:           sum.ID,
			InputPreview: sum.InputPreview,
			Output:       sum.Output,
			ModelName:    sum.ModelName,
			CreatedAt:    sum.CreatedAt.Format(time.RFC3339),
		}
	}

	return items, total, nil
}

func (s *SummaryService) lockFor(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

func (s *SummaryService) publishEvent(ctx context.Context, event *pubsub.SummaryEvent) {
	if s.publisher == nil {
		return
	}
	// 事件推送失败不影响主流程
	_ = s.publisher.PublishEvent(ctx, event)
}
