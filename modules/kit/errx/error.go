package errx

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// Code 是错误码（对外语义的稳定标识）。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Reason 只暴露 reason code，由各服务自行枚举。
type Reason interface {
	ReasonCode() string
}

// Error 是玩家指令与结算共用的错误模型。
//
// code/msg 决定对外语义；reason 细分同一 code 下的拒绝原因（例如 TOO_LATE 下
// 的 ALREADY_DUE 与 ALREADY_RESOLVED）；data 记录 village_id、entry_id 等定位字段；
// cause 只用于溯源。派生总是返回新对象，包级哨兵不会被改写。
type Error struct {
	code   Code
	msg    string
	kind   kind
	reason string
	data   map[string]any
	cause  error
	stack  []uintptr
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

// Error 形如 "TOO_LATE[ALREADY_DUE]: 已被结算: cause"，缺省部分省略。
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := string(e.code)
	if e.reason != "" {
		head += "[" + e.reason + "]"
	}
	switch {
	case e.msg != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", head, e.msg, e.cause)
	case e.msg != "":
		return head + ": " + e.msg
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", head, e.cause)
	default:
		return head
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只比较 code：ErrTooLate.WithReason(..) 仍然 Is ErrTooLate。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

// CodeText 供日志侧按接口取码，避免 logx 依赖本包。
func (e *Error) CodeText() string { return string(e.Code()) }

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	return e.reason
}

// IsBiz 表示这是一个业务拒绝（玩家可见），而不是技术故障。
func (e *Error) IsBiz() bool {
	return e != nil && e.kind == kindBiz
}

// Data 返回 data 的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil || len(e.data) == 0 {
		return nil
	}
	out := make(map[string]any, len(e.data))
	for k, v := range e.data {
		out[k] = v
	}
	return out
}

// Stack 返回系统错误第一次挂上 cause 时的调用栈。
func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return append([]uintptr(nil), e.stack...)
}

func (e *Error) clone() *Error {
	next := *e
	next.data = e.Data()
	next.stack = e.Stack()
	return &next
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.clone()
	if next.data == nil {
		next.data = make(map[string]any, 2)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithReason(reason Reason) *Error {
	next := e.clone()
	next.reason = ""
	if reason != nil {
		next.reason = reason.ReasonCode()
	}
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	// 下层已经有栈就不重复捕获。
	if next.kind == kindSys && cause != nil && next.stack == nil && !stackInChain(cause) {
		next.stack = callers(3)
	}
	return next
}

// As 把任意 error 解析成 *Error，解析不到返回 nil。
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsBiz 判断错误链上是否有业务拒绝。
func IsBiz(err error) bool {
	return As(err).IsBiz()
}

// ReasonOf 取错误链上的 reason，没有返回空串。
func ReasonOf(err error) string {
	return As(err).Reason()
}

// Retryable 判断调用方稍后重试是否可能成功：依赖不可用、超时或并发写冲突。
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrConflict)
}

// Wrap 保证出边界的错误都是 *Error：已是 *Error 原样返回，
// ctx 取消或超时归为 ErrTimeout，其余归为 ErrInternal 并保留 cause。
func Wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case As(err) != nil:
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.WithCause(err)
	default:
		return ErrInternal.WithCause(err)
	}
}

func callers(skip int) []uintptr {
	var pcs [64]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}
	return append([]uintptr(nil), pcs[:n]...)
}

func stackInChain(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
