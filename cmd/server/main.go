package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/api"
	"github.com/qs3c/sumr_go_server/internal/api/handler"
	"github.com/qs3c/sumr_go_server/internal/database"
	"github.com/qs3c/sumr_go_server/internal/pkg/cron"
	"github.com/qs3c/sumr_go_server/internal/pkg/extractor"
	"github.com/qs3c/sumr_go_server/internal/pkg/oauth"
	"github.com/qs3c/sumr_go_server/internal/pkg/oss"
	"github.com/qs3c/sumr_go_server/internal/pkg/pubsub"
	"github.com/qs3c/sumr_go_server/internal/pkg/summarizer"
	"github.com/qs3c/sumr_go_server/internal/pkg/ws"
	"github.com/qs3c/sumr_go_server/internal/repository"
	"github.com/qs3c/sumr_go_server/internal/service"
	"github.com/qs3c/sumr_go_server/internal/session"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 WebSocket Hub，并把 Redis 摘要事件桥接到在线连接
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.SummaryEvent) {
			_ = wsHub.SendToUser(event.UserID, &ws.Message{
				Type: event.Type,
				Data: event,
			})
		})
		if err != nil {
			log.Printf("Summary event subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// OSS 客户端（未配置时跳过，头像上传不可用）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	// 初始化外部服务客户端
	gateway := summarizer.NewClient(&cfg.Summarizer)
	extractClient := extractor.NewClient(&cfg.Extractor)
	publisher := pubsub.NewPublisher(rdb)
	stateStore := oauth.NewStateStore(rdb)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	quotaService := service.NewQuotaService(userRepo, summaryRepo, cfg)
	userService := service.NewUserService(userRepo, quotaService, ossClient, cfg)
	summaryService := service.NewSummaryService(summaryRepo, userRepo, quotaService, gateway, publisher, cfg)
	extractService := service.NewExtractService(extractClient, cfg)

	// 会话管理
	sessions := session.NewManager()

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, sessions, stateStore)
	userHandler := handler.NewUserHandler(userService, userRepo, sessions)
	summaryHandler := handler.NewSummaryHandler(summaryService, userRepo, sessions)
	quotaHandler := handler.NewQuotaHandler(quotaService)
	historyHandler := handler.NewHistoryHandler(userRepo, sessions)
	uploadHandler := handler.NewUploadHandler(extractService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 后台清理
	cronService := cron.NewService(cfg.Upload.TempDir, cfg.Upload.ExpireHours)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		summaryHandler,
		quotaHandler,
		historyHandler,
		uploadHandler,
		websocketHandler,
		quotaService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
