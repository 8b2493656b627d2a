package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/internal/api/middleware"
	"github.com/qs3c/sumr_go_server/internal/model"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/response"
	"github.com/qs3c/sumr_go_server/internal/pkg/summarizer"
	"github.com/qs3c/sumr_go_server/internal/repository"
	"github.com/qs3c/sumr_go_server/internal/service"
	"github.com/qs3c/sumr_go_server/internal/session"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
	userRepo       *repository.UserRepository
	sessions       *session.Manager
}

func NewSummaryHandler(summaryService *service.SummaryService, userRepo *repository.UserRepository, sessions *session.Manager) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		userRepo:       userRepo,
		sessions:       sessions,
	}
}

// Create 生成摘要
// POST /api/v1/summaries
func (h *SummaryHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.summaryService.Summarize(c.Request.Context(), userID, &req)
	if err != nil {
		var quotaErr *service.QuotaExceededError
		var gatewayErr *summarizer.GatewayError
		switch {
		case errors.As(err, &quotaErr):
			response.QuotaError(c, quotaErr.Error())
		case errors.As(err, &gatewayErr):
			response.GatewayError(c, gatewayErr.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	// 成功后追加到会话历史
	if sess := h.session(userID); sess != nil {
		sess.History().Append(session.Entry{
			CreatedAt:    time.Now(),
			InputPreview: model.MakePreview(req.Text),
			Output:       resp.Output,
		})
	}

	response.Success(c, resp)
}

// List 摘要档案列表
// GET /api/v1/summaries?page=1&page_size=20
func (h *SummaryHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.summaryService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// session 取当前会话，Token 有效但服务重启过时惰性重建
func (h *SummaryHandler) session(userID int64) *session.Session {
	if sess := h.sessions.Get(userID); sess != nil {
		return sess
	}
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		return nil
	}
	return h.sessions.GetOrStart(user)
}
