package app

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"VillageWars/modules/kit/logx"
	"VillageWars/modules/kit/tracex"
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type TickSummary struct {
	Now               time.Time
	ResourcesUpdated  int
	QueuesCompleted   int
	MovementsResolved int
	BattlesResolved   int
	Failures          int
	Duration          time.Duration
}

// TickService 执行一次完整结算：资源推进 -> 队列完成 -> 行军到达。
type TickService struct {
	uow       UnitOfWork
	clock     engine.ResourceClock
	queues    *QueueResolver
	movements *MovementResolver
	publisher EventPublisher
	settings  Settings
	log       Logger
}

func NewTickService(uow UnitOfWork, queues *QueueResolver, movements *MovementResolver,
	publisher EventPublisher, settings Settings, log Logger) *TickService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if log == nil {
		log = logx.Nop()
	}
	return &TickService{
		uow:       uow,
		clock:     engine.NewResourceClock(settings.WorldSpeed),
		queues:    queues,
		movements: movements,
		publisher: publisher,
		settings:  settings,
		log:       log,
	}
}

// RunTick 以 now 为基准推进世界。单个实体失败计入 Failures 后继续；
// 存储不可用时返回错误，已提交的部分保持，未处理的留给下一次 tick。
func (s *TickService) RunTick(ctx context.Context, now time.Time) (TickSummary, error) {
	ctx = tracex.Ensure(ctx, "tick")
	start := time.Now()
	sum := TickSummary{Now: now}

	updated, failed, err := s.advanceResources(ctx, now)
	sum.ResourcesUpdated = updated
	sum.Failures += failed
	if err != nil {
		return s.finish(ctx, sum, start, err)
	}

	completions, qFailures, err := s.queues.ResolvePending(ctx, now)
	sum.QueuesCompleted = len(completions)
	sum.Failures += len(qFailures)
	s.publisher.Publish(ctx, completionEvents(completions))
	if err != nil {
		return s.finish(ctx, sum, start, err)
	}

	arrivals, mFailures, err := s.movements.ResolveArrivals(ctx, now)
	sum.MovementsResolved = len(arrivals)
	sum.Failures += len(mFailures)
	for _, a := range arrivals {
		if a.Battle != nil {
			sum.BattlesResolved++
		}
	}
	s.publisher.Publish(ctx, arrivalEvents(arrivals))
	return s.finish(ctx, sum, start, err)
}

func (s *TickService) finish(ctx context.Context, sum TickSummary, start time.Time, err error) (TickSummary, error) {
	sum.Duration = time.Since(start)
	fields := []zap.Field{
		zap.Time("now", sum.Now),
		zap.Int("resources_updated", sum.ResourcesUpdated),
		zap.Int("queues_completed", sum.QueuesCompleted),
		zap.Int("movements_resolved", sum.MovementsResolved),
		zap.Int("battles_resolved", sum.BattlesResolved),
		zap.Int("failures", sum.Failures),
		zap.Duration("duration", sum.Duration),
	}
	if err != nil {
		return sum, err
	}
	s.log.WithContext(ctx).Info("tick done", fields...)
	return sum, nil
}

// advanceResources 分页并行推进村庄库存，村庄之间互不共享状态。
func (s *TickService) advanceResources(ctx context.Context, now time.Time) (int, int, error) {
	var updated, failed atomic.Int64
	batch := s.settings.BatchSize
	if batch <= 0 {
		batch = 200
	}
	workers := s.settings.Workers
	if workers <= 0 {
		workers = 1
	}

	after := int64(0)
	for {
		var ids []int64
		err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
			var err error
			ids, err = repos.Villages.ListIDs(ctx, after, batch)
			return err
		})
		if err != nil {
			return int(updated.Load()), int(failed.Load()), toSys(err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, id := range ids {
			g.Go(func() error {
				n, rejected, err := s.advanceVillage(gctx, id, now)
				updated.Add(int64(n))
				failed.Add(int64(rejected))
				if err == nil {
					return nil
				}
				if IsFatal(err) {
					return err
				}
				failed.Add(1)
				logx.ReportSysError(gctx, s.log, logx.NewSysLog("resource advance failed", err),
					zap.String("reason", ReasonResourcePassFail.Code),
					zap.Int64("village_id", id),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(updated.Load()), int(failed.Load()), toSys(err)
		}

		if len(ids) < batch {
			return int(updated.Load()), int(failed.Load()), nil
		}
		after = ids[len(ids)-1]
	}
}

// advanceVillage 返回改写的资源行数与被拒绝的资源行数。
func (s *TickService) advanceVillage(ctx context.Context, id int64, now time.Time) (int, int, error) {
	var res engine.UpdatedResources
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		v, err := repos.Villages.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before := v.Stock
		res = s.clock.Advance(v, now)
		for _, rej := range res.Rejected {
			st := before[rej.Type]
			logx.ReportSysError(ctx, s.log, logx.NewSysLog("resource row rejected", rej.Err),
				zap.String("reason", ReasonResourceRejected.Code),
				zap.Int64("village_id", id),
				zap.String("resource", rej.Type.String()),
				zap.Float64("amount", st.Amount),
				zap.Float64("capacity", st.Capacity),
				zap.Float64("production_rate", st.ProductionRate),
				zap.Time("last_updated", st.LastUpdated),
			)
		}
		if !res.Changed() {
			return nil
		}
		changed := make([]domain.Stockpile, 0, len(res.Updates))
		for _, u := range res.Updates {
			changed = append(changed, v.Stock[u.Type])
		}
		return repos.Villages.SaveStockpiles(ctx, id, changed)
	})
	if err != nil {
		return 0, len(res.Rejected), err
	}
	return len(res.Updates), len(res.Rejected), nil
}

func completionEvents(in []domain.CompletionEvent) []domain.Event {
	out := make([]domain.Event, 0, len(in))
	for _, e := range in {
		out = append(out, e)
	}
	return out
}

func arrivalEvents(in []domain.ArrivalEvent) []domain.Event {
	out := make([]domain.Event, 0, len(in))
	for _, e := range in {
		out = append(out, e)
	}
	return out
}
