package actor

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/actors"
	"VillageWars/internal/simulation/app"
	"VillageWars/modules/kit/logx"
	"context"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 30 * time.Second

// Runtime 持有结算 actor，对外提供与 TickService 相同的 RunTick。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	tick    *protoactor.PID
	timeout time.Duration
}

func NewRuntime(runner actors.TickRunner, clk clock.Clock, opts actors.Options, log logx.Logger) *Runtime {
	timeout := defaultAskTimeout
	if opts.Timeout > 0 {
		// 结算本身的超时加上排队等待
		timeout = 2 * opts.Timeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewTickActor(runner, clk, opts, log)
	})
	pid := root.Spawn(props)

	return &Runtime{
		system:  system,
		root:    root,
		tick:    pid,
		timeout: timeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.tick != nil {
		_ = r.root.StopFuture(r.tick).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// RunTick 排队等待 actor 执行一次结算。
func (r *Runtime) RunTick(ctx context.Context, now time.Time) (app.TickSummary, error) {
	if r == nil || r.root == nil || r.tick == nil {
		return app.TickSummary{}, app.ErrUnavailable.WithData("detail", "actor runtime 未初始化")
	}
	if err := ctx.Err(); err != nil {
		return app.TickSummary{}, app.ErrTimeout.WithCause(err)
	}

	res, err := r.root.RequestFuture(r.tick, &actors.RunTickRequest{Now: now}, r.timeoutFromContext(ctx)).Result()
	if err != nil {
		return app.TickSummary{}, app.ErrTimeout.WithData("op", "actor.RunTick").WithCause(err)
	}
	resp, ok := res.(*actors.RunTickResponse)
	if !ok || resp == nil {
		return app.TickSummary{}, app.ErrInternalServer.WithData("op", "actor.RunTick")
	}
	return resp.Summary, resp.Err
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}
