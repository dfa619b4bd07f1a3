package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ErrorDetail 是一次系统错误写进日志的明细，以 zap 对象 "error" 输出。
// 只依赖方法集，不直接引用 errx，其他错误类型实现同名方法也能被识别。
type ErrorDetail struct {
	Text   string
	Code   string
	Msg    string
	Reason string
	Data   map[string]any
	Causes []string
	// Origin 是错误第一次被转换的位置，Frames 为其后的调用栈。
	Origin string
	Frames []string
}

const (
	maxCauseDepth = 16
	maxFrames     = 24
)

// DescribeError 从错误链上提取错误码、reason、定位字段、cause 链与栈。
func DescribeError(err error) ErrorDetail {
	if err == nil {
		return ErrorDetail{}
	}
	d := ErrorDetail{Text: err.Error()}

	var coded interface{ CodeText() string }
	if errors.As(err, &coded) {
		d.Code = coded.CodeText()
	}
	var msg interface{ Msg() string }
	if errors.As(err, &msg) {
		d.Msg = msg.Msg()
	}
	var reason interface{ Reason() string }
	if errors.As(err, &reason) {
		d.Reason = reason.Reason()
	}
	var data interface{ Data() map[string]any }
	if errors.As(err, &data) {
		d.Data = data.Data()
	}
	for cur, i := errors.Unwrap(err), 0; cur != nil && i < maxCauseDepth; cur, i = errors.Unwrap(cur), i+1 {
		d.Causes = append(d.Causes, fmt.Sprintf("%T: %v", cur, cur))
	}
	// 取链上最深的栈，那里离故障现场最近。
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if sp, ok := cur.(interface{ Stack() []uintptr }); ok {
			if pcs := sp.Stack(); len(pcs) != 0 {
				d.Origin, d.Frames = symbolize(pcs)
			}
		}
	}
	return d
}

func (d ErrorDetail) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("text", d.Text)
	if d.Code != "" {
		enc.AddString("code", d.Code)
	}
	if d.Reason != "" {
		enc.AddString("reason", d.Reason)
	}
	if d.Msg != "" {
		enc.AddString("msg", d.Msg)
	}
	if len(d.Data) != 0 {
		if err := enc.AddReflected("data", d.Data); err != nil {
			return err
		}
	}
	if len(d.Causes) != 0 {
		if err := enc.AddArray("causes", stringArray(d.Causes)); err != nil {
			return err
		}
	}
	if d.Origin != "" {
		enc.AddString("origin", d.Origin)
		return enc.AddArray("frames", stringArray(d.Frames))
	}
	return nil
}

type stringArray []string

func (a stringArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, s := range a {
		enc.AppendString(s)
	}
	return nil
}

func symbolize(pcs []uintptr) (origin string, out []string) {
	frames := runtime.CallersFrames(pcs)
	for len(out) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" {
			break
		}
		line := fmt.Sprintf("%s %s:%d", trimModule(f.Function), f.File, f.Line)
		if origin == "" {
			origin = line
		}
		out = append(out, line)
		if !more {
			break
		}
	}
	return origin, out
}

// trimModule 去掉函数名里的模块前缀，栈更短。
func trimModule(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
