package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/internal/api/middleware"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/response"
	"github.com/qs3c/sumr_go_server/internal/repository"
	"github.com/qs3c/sumr_go_server/internal/session"
)

type HistoryHandler struct {
	userRepo *repository.UserRepository
	sessions *session.Manager
}

func NewHistoryHandler(userRepo *repository.UserRepository, sessions *session.Manager) *HistoryHandler {
	return &HistoryHandler{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// List 当前会话的历史列表，按追加顺序输出
// GET /api/v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sess := h.session(userID)
	if sess == nil {
		response.ServerError(c, "")
		return
	}

	entries := sess.History().List()
	items := make([]*dto.HistoryItem, len(entries))
	for i, entry := range entries {
		items[i] = &dto.HistoryItem{
			Index:        i,
			InputPreview: entry.InputPreview,
			Output:       entry.Output,
			CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
		}
	}

	response.Success(c, items)
}

// Delete 按下标删除一条历史
// DELETE /api/v1/history/:index
func (h *HistoryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.ParamError(c, "下标格式错误")
		return
	}

	sess := h.session(userID)
	if sess == nil {
		response.ServerError(c, "")
		return
	}

	if err := sess.History().DeleteAt(index); err != nil {
		if errors.Is(err, session.ErrIndexOutOfRange) {
			response.ParamError(c, err.Error())
		} else {
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, nil)
}

// Logout 登出并销毁会话（历史随之丢弃）
// POST /api/v1/logout
func (h *HistoryHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	h.sessions.End(userID)
	response.SuccessWithMessage(c, "已登出", nil)
}

func (h *HistoryHandler) session(userID int64) *session.Session {
	if sess := h.sessions.Get(userID); sess != nil {
		return sess
	}
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		return nil
	}
	return h.sessions.GetOrStart(user)
}
