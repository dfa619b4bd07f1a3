package actors

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/app"
	"VillageWars/modules/kit/logx"
	"VillageWars/modules/kit/tracex"
	"context"
	"sync/atomic"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Online
	Stopping
)

// TickRunner 由 app.TickService 实现。
type TickRunner interface {
	RunTick(ctx context.Context, now time.Time) (app.TickSummary, error)
}

// RunTickRequest 请求立即结算一次，Now 为零值时用 actor 自己的时钟。
type RunTickRequest struct {
	Now time.Time
}

type RunTickResponse struct {
	Summary app.TickSummary
	Err     error
}

type scheduledTick struct{}

func (scheduledTick) NotInfluenceReceiveTimeout() {}

type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

// TickActor 串行执行结算。定时结算与外部请求共用同一个 mailbox，
// 任意时刻至多一次结算在执行。
type TickActor struct {
	state    State
	runner   TickRunner
	clock    clock.Clock
	opts     Options
	log      logx.Logger
	pending  atomic.Bool
	loopStop chan struct{}
	ticks    int64
}

func NewTickActor(runner TickRunner, clk clock.Clock, opts Options, log logx.Logger) *TickActor {
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logx.Nop()
	}
	return &TickActor{state: None, runner: runner, clock: clk, opts: opts, log: log}
}

func (a *TickActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.state = Online
		a.startLoop(ctx)
	case *actor.Stopping:
		a.state = Stopping
		a.stopLoop()
	case *actor.Stopped, *actor.Restarting:
		a.stopLoop()
	case scheduledTick:
		a.pending.Store(false)
		if a.state != Online {
			return
		}
		_, _ = a.run(a.clock.Now())
	case *RunTickRequest:
		if msg == nil {
			ctx.Respond(&RunTickResponse{Err: app.ErrReqParamERR.WithData("detail", "nil request")})
			return
		}
		if a.state != Online {
			ctx.Respond(&RunTickResponse{Err: app.ErrUnavailable.WithData("detail", "tick actor not online")})
			return
		}
		now := msg.Now
		if now.IsZero() {
			now = a.clock.Now()
		}
		sum, err := a.run(now)
		ctx.Respond(&RunTickResponse{Summary: sum, Err: err})
	}
}

func (a *TickActor) run(now time.Time) (app.TickSummary, error) {
	a.ticks++
	ctx := tracex.Ensure(context.Background(), "tick")
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	sum, err := a.runner.RunTick(ctx, now)
	if err != nil {
		// 致命错误只中止本轮，下一轮从存储里重新取到期项
		logx.ReportSysError(ctx, a.log, logx.NewSysLog("tick aborted", err),
			zap.Int64("tick_seq", a.ticks), zap.Bool("fatal", app.IsFatal(err)))
	}
	return sum, err
}

func (a *TickActor) startLoop(ctx actor.Context) {
	if a.loopStop != nil || a.opts.Interval <= 0 {
		return
	}
	a.loopStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// 上一轮还没轮到处理时不再叠加
				if a.pending.CompareAndSwap(false, true) {
					root.Send(self, scheduledTick{})
				}
			case <-stop:
				return
			}
		}
	}(a.loopStop, a.opts.Interval)
}

func (a *TickActor) stopLoop() {
	if a.loopStop == nil {
		return
	}
	close(a.loopStop)
	a.loopStop = nil
}
