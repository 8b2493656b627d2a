package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/internal/api/middleware"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/response"
	"github.com/qs3c/sumr_go_server/internal/repository"
	"github.com/qs3c/sumr_go_server/internal/service"
	"github.com/qs3c/sumr_go_server/internal/session"
)

type UserHandler struct {
	userService *service.UserService
	userRepo    *repository.UserRepository
	sessions    *session.Manager
}

func NewUserHandler(userService *service.UserService, userRepo *repository.UserRepository, sessions *session.Manager) *UserHandler {
	return &UserHandler{
		userService: userService,
		userRepo:    userRepo,
		sessions:    sessions,
	}
}

// GetProfile 获取当前用户信息（含配额）
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// UpdateProfile 更新用户信息
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// UploadAvatar 上传头像
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传文件")
		return
	}
	defer file.Close()

	avatarURL, err := h.userService.UploadAvatar(userID, file, header.Filename)
	if err != nil {
		response.ServerError(c, "头像上传失败")
		return
	}

	response.Success(c, gin.H{"avatar_url": avatarURL})
}

// UpgradePlan 套餐变更，变更后本会话立即生效
// PUT /api/v1/user/plan
func (h *UserHandler) UpgradePlan(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpgradePlan(userID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlan):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	// 刷新会话缓存的用户，新套餐对后续摘要立即可见
	if sess := h.sessions.Get(userID); sess != nil {
		if user, err := h.userRepo.GetByID(userID); err == nil {
			_ = sess.SetUser(user)
		}
	}

	response.Success(c, info)
}
