package actor_test

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/actor"
	"VillageWars/internal/simulation/actors"
	"VillageWars/internal/simulation/app"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	calls    atomic.Int64
	inFlight atomic.Int64
	maxSeen  atomic.Int64
	delay    time.Duration
	err      error

	mu   sync.Mutex
	seen []time.Time
}

func (r *countingRunner) RunTick(ctx context.Context, now time.Time) (app.TickSummary, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		old := r.maxSeen.Load()
		if n <= old || r.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}
	r.calls.Add(1)
	r.mu.Lock()
	r.seen = append(r.seen, now)
	r.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return app.TickSummary{}, ctx.Err()
		}
	}
	return app.TickSummary{Now: now, QueuesCompleted: 1}, r.err
}

func TestRuntime_并发请求串行执行(t *testing.T) {
	runner := &countingRunner{delay: 5 * time.Millisecond}
	rt := actor.NewRuntime(runner, clock.NewManual(time.Unix(1700000000, 0)), actors.Options{Timeout: time.Second}, nil)
	defer rt.Shutdown()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rt.RunTick(context.Background(), time.Time{}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("RunTick: %v", err)
	}

	if got := runner.calls.Load(); got != 8 {
		t.Fatalf("应执行 8 次，得到 %d", got)
	}
	if got := runner.maxSeen.Load(); got != 1 {
		t.Fatalf("同一时刻最多一次结算，观察到 %d", got)
	}
}

func TestRuntime_零时间使用actor时钟(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	runner := &countingRunner{}
	rt := actor.NewRuntime(runner, clock.NewManual(now), actors.Options{}, nil)
	defer rt.Shutdown()

	sum, err := rt.RunTick(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if !sum.Now.Equal(now) {
		t.Fatalf("期望 %v，得到 %v", now, sum.Now)
	}

	at := now.Add(time.Hour)
	sum, err = rt.RunTick(context.Background(), at)
	if err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if !sum.Now.Equal(at) {
		t.Fatalf("期望 %v，得到 %v", at, sum.Now)
	}
}

func TestRuntime_结算错误原样返回(t *testing.T) {
	runner := &countingRunner{err: app.ErrUnavailable.WithData("op", "test")}
	rt := actor.NewRuntime(runner, nil, actors.Options{}, nil)
	defer rt.Shutdown()

	_, err := rt.RunTick(context.Background(), time.Now())
	if !errors.Is(err, app.ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable，得到 %v", err)
	}
	if !app.IsFatal(err) {
		t.Fatalf("存储不可用应视为致命")
	}
}

func TestRuntime_定时结算(t *testing.T) {
	runner := &countingRunner{}
	rt := actor.NewRuntime(runner, nil, actors.Options{Interval: 10 * time.Millisecond, Timeout: time.Second}, nil)
	defer rt.Shutdown()

	deadline := time.Now().Add(2 * time.Second)
	for runner.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("2 秒内定时结算不足 3 次，得到 %d", runner.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := runner.maxSeen.Load(); got != 1 {
		t.Fatalf("定时结算不应重叠，观察到 %d", got)
	}
}

func TestRuntime_已取消的上下文直接返回(t *testing.T) {
	runner := &countingRunner{}
	rt := actor.NewRuntime(runner, nil, actors.Options{}, nil)
	defer rt.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := rt.RunTick(ctx, time.Now())
	if !errors.Is(err, app.ErrTimeout) {
		t.Fatalf("期望 ErrTimeout，得到 %v", err)
	}
	if runner.calls.Load() != 0 {
		t.Fatalf("不应触发结算")
	}
}
