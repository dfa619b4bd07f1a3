package middleware

import (
	"VillageWars/internal/shared/transport"
	"VillageWars/modules/kit/logx"
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// envelope 对应统一响应体 {"code":..,"msg":..,"reason":..,"data":..}。
type envelope struct {
	Code   *int   `json:"code"`
	Reason string `json:"reason"`
}

// AccessLog 每个请求写一条 access 日志，业务码优先取响应体的 code。
// websocket 升级请求不截获响应体。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		if isUpgrade(c.Request) {
			transport.SetBizCode(ctx, transport.OK)
			transport.WriteAccessLog(ctx, log)
			c.Next()
			return
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()

		env, ok := parseEnvelope(bw.body.Bytes())
		switch {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(*env.Code))
			transport.SetErrorReason(ctx, env.Reason)
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(c.Writer.Status()))
		default:
			transport.SetBizCode(ctx, transport.OK)
		}
		if len(c.Errors) > 0 {
			transport.SetErrorReason(ctx, c.Errors.Last().Error())
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func parseEnvelope(body []byte) (envelope, bool) {
	var env envelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil || env.Code == nil {
		return envelope{}, false
	}
	return env, true
}
