package logx

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BizLog 描述一次玩家指令被拒：动作、reason 码与展示给玩家的文案。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 描述一次技术故障，Err 一般是 errx 系统错误。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// AccessLevel 按业务码分级：0 为 INFO，1~499 业务拒绝为 WARN，>=500 为 ERROR。
func AccessLevel(bizCode int) zapcore.Level {
	switch {
	case bizCode == 0:
		return zapcore.InfoLevel
	case bizCode >= 500:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// ReportAccess 写一条访问日志，HTTP 与 gRPC 共用。
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	fields = append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)
	at(l.WithContext(ctx), AccessLevel(bizCode))("access", fields...)
}

// ReportBiz 记录玩家指令被拒。拒绝是正常流程，只打 INFO，不带栈。
func ReportBiz(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	if biz.Action == "" {
		biz.Action = "command rejected"
	}
	head := []zap.Field{zap.String("err_type", "biz"), zap.String("action", biz.Action)}
	if biz.Reason != "" {
		head = append(head, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		head = append(head, zap.String("biz_message", biz.Message))
	}
	l.WithContext(ctx).Info(biz.Action, append(head, fields...)...)
}

// ReportSysError 记录技术故障：ERROR 级别，error_code 平铺便于检索，明细放在 "error" 对象里。
func ReportSysError(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	if sys.Action == "" {
		sys.Action = "sys error"
	}
	d := DescribeError(sys.Err)
	head := []zap.Field{zap.String("err_type", "sys"), zap.String("action", sys.Action)}
	if d.Code != "" {
		head = append(head, zap.String("error_code", d.Code))
	}
	if d.Reason != "" {
		head = append(head, zap.String("reason", d.Reason))
	}
	head = append(head, zap.Object("error", d))
	l.WithContext(ctx).Error(sys.Action+": "+d.Text, append(head, fields...)...)
}

func at(l Logger, lvl zapcore.Level) func(string, ...zap.Field) {
	switch lvl {
	case zapcore.InfoLevel:
		return l.Info
	case zapcore.WarnLevel:
		return l.Warn
	default:
		return l.Error
	}
}
