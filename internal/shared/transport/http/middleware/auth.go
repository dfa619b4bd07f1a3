package middleware

import (
	"VillageWars/internal/shared/security"
	"VillageWars/internal/shared/transport"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxKeyPlayerID = "player_id"

// Auth 从 Authorization: Bearer <token> 解析发令玩家，失败直接 401。
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := security.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		c.Set(ctxKeyPlayerID, claims.PlayerID)
		transport.SetPlayerID(c.Request.Context(), claims.PlayerID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	transport.SetErrorReason(c.Request.Context(), reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": int(transport.Unauthorized),
		"msg":  "未登录或登录已过期",
	})
}

// PlayerID 读取 Auth 中间件写入的玩家 id。
func PlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxKeyPlayerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
