package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/oauth"
	"github.com/qs3c/sumr_go_server/internal/pkg/response"
	"github.com/qs3c/sumr_go_server/internal/service"
	"github.com/qs3c/sumr_go_server/internal/session"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	stateStore  *oauth.StateStore
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager, stateStore *oauth.StateStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		stateStore:  stateStore,
	}
}

// Register 用户注册，成功后直接进入登录态
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists), errors.Is(err, service.ErrEmailExists):
			// 账号重复单独给码，前端据此提示换个用户名/邮箱
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	user, err := h.authService.GetUserByID(resp.User.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	h.sessions.StartSignup(user)

	response.SuccessWithMessage(c, "注册成功", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	user, err := h.authService.GetUserByID(resp.User.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	h.sessions.Start(user)

	response.SuccessWithMessage(c, "登录成功", resp)
}

// GithubAuth 跳转 GitHub 授权页
// GET /api/v1/auth/github
func (h *AuthHandler) GithubAuth(c *gin.Context) {
	redirectURI := c.DefaultQuery("redirect", "/")

	state, err := h.stateStore.GenerateState(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"auth_url": h.authService.GetGithubAuthURL(state),
	})
}

// GithubCallback GitHub OAuth 回调
// GET /api/v1/auth/github/callback?code=xxx&state=xxx
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.ParamError(c, "缺少 code 或 state 参数")
		return
	}

	// state 一次性校验，防 CSRF
	redirectURI, err := h.stateStore.ValidateState(c.Request.Context(), state)
	if err != nil {
		response.AuthError(c, "state 校验失败")
		return
	}

	resp, err := h.authService.GithubCallback(c.Request.Context(), code)
	if err != nil {
		response.ServerError(c, "GitHub 登录失败")
		return
	}

	user, err := h.authService.GetUserByID(resp.User.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	h.sessions.Start(user)

	response.SuccessWithMessage(c, "登录成功", gin.H{
		"token":    resp.Token,
		"user":     resp.User,
		"redirect": redirectURI,
	})
}
