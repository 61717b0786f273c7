package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vibecap/internal/config"
	"vibecap/internal/handler"
	captionHandler "vibecap/internal/handler/caption"
	"vibecap/internal/pkg/cache"
	"vibecap/internal/pkg/captionapi"
	"vibecap/internal/server/middleware"
	"vibecap/internal/service"
	"vibecap/internal/session"
)

// Server HTTP 服务器
type Server struct {
	cfg          *config.Config
	engine       *gin.Engine
	redis        *cache.RedisCache
	captionSvc   service.CaptionService
	sessionStore string
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	api, err := captionapi.NewClient(&captionapi.Config{BaseURL: cfg.Caption.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("create caption api client: %w", err)
	}

	// 初始化 Redis (可选)
	var (
		redisCache   *cache.RedisCache
		store        session.Store
		sessionStore = "memory"
	)
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing with in-memory sessions")
		} else {
			redisCache = rc
			store = session.NewRedisStore(rc, cfg.Session.TTL)
			sessionStore = "redis"
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}
	if store == nil {
		store = session.NewMemoryStore(cfg.Session.MaxSessions, cfg.Session.TTL)
	}

	captionSvc := service.NewCaptionService(service.Options{
		API:             api,
		Store:           store,
		FallbackMessage: cfg.Caption.FallbackMessage,
		CopyAckDelay:    cfg.Caption.CopyAckDelay,
	})

	srv := newServer(cfg, captionSvc, redisCache, sessionStore)

	log.Info().
		Str("caption_api", api.BaseURL()).
		Str("session_store", sessionStore).
		Msg("caption server initialized")

	return srv, nil
}

// NewWithService 使用已有的文案服务创建服务器（测试时注入）
func NewWithService(cfg *config.Config, captionSvc service.CaptionService) *Server {
	return newServer(cfg, captionSvc, nil, "memory")
}

func newServer(cfg *config.Config, captionSvc service.CaptionService, redisCache *cache.RedisCache, sessionStore string) *Server {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:          cfg,
		engine:       gin.New(),
		redis:        redisCache,
		captionSvc:   captionSvc,
		sessionStore: sessionStore,
	}

	// 设置路由
	srv.setupRoutes()

	return srv
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.CORSOrigins))

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.sessionStore)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		captionHdl := captionHandler.NewHandler(s.captionSvc, s.cfg.Caption.MaxUploadBytes)

		v1.GET("/vibes", captionHdl.ListVibes)

		v1.POST("/sessions", captionHdl.CreateSession)
		sessions := v1.Group("/sessions/:id")
		{
			sessions.GET("", captionHdl.GetSession)
			sessions.DELETE("", captionHdl.DeleteSession)

			// 用户输入
			sessions.PUT("/method", captionHdl.SelectMethod)
			sessions.PUT("/vibe", captionHdl.SelectVibe)
			sessions.PUT("/description", captionHdl.SetDescription)
			sessions.PUT("/url", captionHdl.SetImageURL)
			sessions.POST("/file", captionHdl.UploadFile)

			// 操作
			sessions.POST("/generate", captionHdl.Generate)
			sessions.POST("/refresh", captionHdl.Refresh)
			sessions.POST("/copy", captionHdl.Copy)
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		err := srv.Shutdown(context.Background())
		s.Close()
		return err
	case err := <-errCh:
		s.Close()
		return err
	}
}

// Close 释放计时器与 Redis 连接
func (s *Server) Close() {
	s.captionSvc.Close()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
