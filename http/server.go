// Package http serves the interactive allocator: upload page, result
// download, CSV/JSON API and a websocket session.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"slicealloc/monitoring"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	MaxUploadBytes int64
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8501,
		Timeout:        30 * time.Second,
		MaxUploadBytes: 200 << 20,
	}
}

// NewServer 创建HTTP服务器，路由挂在中间件链之后
func NewServer(config ServerConfig, handlers *Handlers, metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	RegisterHandlers(mux, handlers)

	chain := Chain(
		RecoveryMiddleware(logger),
		LoggerMiddleware(logger),
		MetricsMiddleware(metrics),
		SecurityHeadersMiddleware,
		RequestSizeMiddleware(config.MaxUploadBytes),
		GzipMiddleware,
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      chain(mux),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
		logger: logger,
	}
}

// Start 启动服务器，阻塞直到 Stop 被调用
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop 优雅关闭，等待进行中的请求完成
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler 返回包装后的处理器（测试用）
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
