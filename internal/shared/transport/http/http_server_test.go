package http

import (
	"VillageWars/internal/shared/transport/http/middleware"
	"VillageWars/internal/shared/security"
	"VillageWars/modules/kit/logx"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestAccessLog_从响应体提取业务码(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/reject", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"code": 422, "msg": "rejected"})
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/v1/reject", nil))

	entries := logs.FilterField(zap.String("log_type", "access")).All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条 access 日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("业务拒绝应为 WARN, got=%v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["biz_code"]; got != int64(422) {
		t.Fatalf("biz_code 不符: %v", got)
	}
}

func TestAuth_缺少或伪造Token返回401(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "http-test-secret")

	s := NewHttpServer(":0", gin.New(), logx.Nop())
	s.Group().GET("/me", middleware.Auth(), func(c *gin.Context) {
		pid, _ := middleware.PlayerID(c)
		c.JSON(nethttp.StatusOK, gin.H{"code": 0, "data": pid})
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/v1/me", nil))
	if w.Code != nethttp.StatusUnauthorized {
		t.Fatalf("无 token 应 401, got=%d", w.Code)
	}

	token, err := security.Award(7)
	if err != nil {
		t.Fatalf("award err=%v", err)
	}
	req := httptest.NewRequest(nethttp.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("合法 token 应 200, got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAccessLog_记录发令玩家(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "http-test-secret")
	core, logs := observer.New(zapcore.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/me", middleware.Auth(), func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"code": 0})
	})

	token, err := security.Award(42)
	if err != nil {
		t.Fatalf("award err=%v", err)
	}
	req := httptest.NewRequest(nethttp.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterField(zap.String("log_type", "access")).All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条 access 日志, got=%d", len(entries))
	}
	if got := entries[0].ContextMap()["player_id"]; got != int64(42) {
		t.Fatalf("player_id 不符: %v", got)
	}
	if got := entries[0].ContextMap()["action"]; got != "GET /api/v1/me" {
		t.Fatalf("action 不符: %v", got)
	}
}

func TestRecovery_panic返回统一错误体(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/v1/boom", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("panic 也应返回 200 + 错误码, got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":500`) {
		t.Fatalf("响应体应带 500 业务码: %s", w.Body.String())
	}
	access := logs.FilterField(zap.String("log_type", "access")).All()
	if len(access) != 1 || access[0].ContextMap()["biz_code"] != int64(500) {
		t.Fatalf("access 日志应记录 500: %+v", access)
	}
}
