package http

import (
	"VillageWars/internal/shared/transport"
	"VillageWars/internal/shared/transport/http/middleware"
	"VillageWars/modules/kit/errx"
	"VillageWars/modules/kit/logx"
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

// NewHttpServer 挂上 access 日志、CORS 与 panic 恢复，业务路由注册在 Group() 下。
func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	engine.Use(middleware.AccessLog(logger))
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := errx.ErrInternal.WithData("panic", fmt.Sprint(recovered))
		logx.ReportSysError(c.Request.Context(), logger, logx.NewSysLog("http panic", err))
		c.AbortWithStatusJSON(nethttp.StatusOK, gin.H{
			"code": int(transport.SystemError),
			"msg":  "系统繁忙，请稍后重试",
		})
	}))
	engine.Use(middleware.Cors())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		group:  engine.Group(apiPrefix),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start 阻塞直到关闭，关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
