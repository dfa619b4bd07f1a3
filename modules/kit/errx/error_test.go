package errx

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type reasonCode string

func (r reasonCode) ReasonCode() string { return string(r) }

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("INSUFFICIENT_RESOURCES", "资源不足").WithData("wood", 10).WithCause(errors.New("c1"))
	e2 := NewBiz("INSUFFICIENT_RESOURCES", "x").WithReason(reasonCode("COST_UNAFFORDABLE"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true, e1=%v e2=%v", e1, e2)
	}
	if !errors.Is(fmt.Errorf("wrap: %w", e1), e2) {
		t.Fatalf("期望包装后仍能按 code 匹配")
	}
}

func TestError_文案带上reason(t *testing.T) {
	err := NewBiz("TOO_LATE", "已被结算").WithReason(reasonCode("ALREADY_DUE"))
	if got := err.Error(); got != "TOO_LATE[ALREADY_DUE]: 已被结算" {
		t.Fatalf("got=%q", got)
	}
	if got := NewSys("X", "").WithCause(errors.New("boom")).Error(); got != "X: boom" {
		t.Fatalf("got=%q", got)
	}
	if got := err.WithReason(nil).Reason(); got != "" {
		t.Fatalf("WithReason(nil) 应清空, got=%q", got)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("row locked")
	err := NewBiz("TOO_LATE", "已被结算").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
	if !IsBiz(fmt.Errorf("cmd: %w", err)) {
		t.Fatalf("期望 IsBiz==true")
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := ErrUnavailable.WithCause(errors.New("dial tcp: i/o timeout"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	sys2 := ErrInternal.WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层不重复捕获栈，got=%v", got)
	}
	if ErrUnavailable.Stack() != nil {
		t.Fatalf("期望哨兵错误不被污染")
	}
}

func TestError_派生不影响原对象(t *testing.T) {
	base := NewBiz("X", "").WithData("village_id", int64(7))
	next := base.WithData("village_id", int64(8))
	if got := base.Data()["village_id"]; got != int64(7) {
		t.Fatalf("原对象被改写，got=%v", got)
	}
	base.Data()["village_id"] = int64(9)
	if got := next.Data()["village_id"]; got != int64(8) {
		t.Fatalf("Data 应返回拷贝，got=%v", got)
	}
}

func TestAs_能从包装链中取出Error(t *testing.T) {
	base := NewBiz("NOT_OWNER", "").WithReason(reasonCode("VILLAGE_NOT_OWNED"))
	wrapped := fmt.Errorf("cmd: %w", base)
	got := As(wrapped)
	if got == nil || got.Code() != "NOT_OWNER" || ReasonOf(wrapped) != "VILLAGE_NOT_OWNED" {
		t.Fatalf("期望 As 取出原始错误，got=%v", got)
	}
	if As(errors.New("plain")) != nil || ReasonOf(errors.New("plain")) != "" || IsBiz(nil) {
		t.Fatalf("普通错误不应被识别")
	}
}

func TestWrap_出边界统一成Error(t *testing.T) {
	biz := NewBiz("TOO_LATE", "")
	if Wrap(biz) != error(biz) {
		t.Fatalf("已是 *Error 应原样返回")
	}
	if err := Wrap(context.DeadlineExceeded); !errors.Is(err, ErrTimeout) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v", err)
	}
	plain := errors.New("boom")
	if err := Wrap(plain); !errors.Is(err, ErrInternal) || !errors.Is(err, plain) {
		t.Fatalf("err=%v", err)
	}
	if Wrap(nil) != nil {
		t.Fatalf("nil 应保持 nil")
	}
}

func TestRetryable(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"不可用":  {ErrUnavailable.WithCause(errors.New("dial")), true},
		"超时":   {ErrTimeout, true},
		"锁冲突":  {ErrConflict.WithData("mysql_errno", 1213), true},
		"内部错误": {ErrInternal, false},
		"业务拒绝": {NewBiz("TOO_LATE", ""), false},
	}
	for name, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("%s: got=%v", name, got)
		}
	}
}
