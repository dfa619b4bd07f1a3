package transport

import (
	"VillageWars/modules/kit/logx"
	"VillageWars/modules/kit/tracex"
	"context"
	"time"

	"go.uber.org/zap"
)

// AccessLog 是一次 HTTP 请求或 gRPC 调用的访问日志上下文。
type AccessLog struct {
	Action      string
	BizCode     BizCode
	ErrorReason string
	PlayerID    int64
	start       time.Time
}

type accessLogKey struct{}

// NewContextWithParent 挂上 AccessLog。上游已带 trace_id 时沿用，否则新生成。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.Ensure(parent, "api")
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		Action:  action,
		BizCode: SystemError,
		start:   time.Now(),
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 只在失败时有意义，空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetPlayerID 由鉴权中间件写入发令玩家。
func SetPlayerID(ctx context.Context, playerID int64) {
	if al := FromContext(ctx); al != nil {
		al.PlayerID = playerID
	}
}

// WriteAccessLog 在请求结束时调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{zap.Duration("latency", time.Since(al.start))}
	if al.PlayerID > 0 {
		fields = append(fields, zap.Int64("player_id", al.PlayerID))
	}
	if al.BizCode != OK && al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	logx.ReportAccess(ctx, log, al.Action, int(al.BizCode), fields...)
}
