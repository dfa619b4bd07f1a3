package logx

import (
	"context"

	"VillageWars/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 把 zap 适配成 logx.Logger。
type ZapLogger struct {
	z *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{z: l}
}

// WithContext 带上 ctx 里的 trace_id / span_id，没有时返回自身。
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	if l == nil {
		return NewZapLogger(nil)
	}
	fields := TraceFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{z: l.z.With(fields...)}
}

// TraceFields 取出 ctx 上的链路字段，其他直接用 zap 的组件（如 gorm 日志）也用它。
func TraceFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	return fields
}

func (l *ZapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *ZapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *ZapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *ZapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
