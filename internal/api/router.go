package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/api/handler"
	"github.com/qs3c/sumr_go_server/internal/api/middleware"
	"github.com/qs3c/sumr_go_server/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	summaryHandler   *handler.SummaryHandler
	quotaHandler     *handler.QuotaHandler
	historyHandler   *handler.HistoryHandler
	uploadHandler    *handler.UploadHandler
	websocketHandler *handler.WebSocketHandler
	quotaService     *service.QuotaService
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	summaryHandler *handler.SummaryHandler,
	quotaHandler *handler.QuotaHandler,
	historyHandler *handler.HistoryHandler,
	uploadHandler *handler.UploadHandler,
	websocketHandler *handler.WebSocketHandler,
	quotaService *service.QuotaService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		summaryHandler:   summaryHandler,
		quotaHandler:     quotaHandler,
		historyHandler:   historyHandler,
		uploadHandler:    uploadHandler,
		websocketHandler: websocketHandler,
		quotaService:     quotaService,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 套餐表
		api.GET("/plans", r.quotaHandler.ListPlans)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/quota", r.quotaHandler.GetQuota)
				user.PUT("/plan", r.userHandler.UpgradePlan)
			}

			// 摘要
			summaries := authenticated.Group("/summaries")
			{
				// 配额预检查只做提前拒绝，权威检查在 Service 内持锁执行
				summaries.POST("", middleware.QuotaCheck(r.quotaService), r.summaryHandler.Create)
				summaries.GET("", r.summaryHandler.List)
				summaries.POST("/extract", r.uploadHandler.Extract)
			}

			// 会话历史
			authenticated.GET("/history", r.historyHandler.List)
			authenticated.DELETE("/history/:index", r.historyHandler.Delete)
			authenticated.POST("/logout", r.historyHandler.Logout)
		}
	}

	return engine
}
