package app

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"VillageWars/modules/kit/logx"
	"context"
	"time"

	"go.uber.org/zap"
)

// QueueResolver 完成到期的建筑与训练队列。
// 每个条目在同一事务内先做 in_progress -> completed 条件更新再应用效果，应用失败则整体回滚。
type QueueResolver struct {
	uow     UnitOfWork
	catalog domain.Catalog
	clock   engine.ResourceClock
	batch   int
	log     Logger
}

func NewQueueResolver(uow UnitOfWork, catalog domain.Catalog, settings Settings, log Logger) *QueueResolver {
	if log == nil {
		log = logx.Nop()
	}
	return &QueueResolver{
		uow:     uow,
		catalog: catalog,
		clock:   engine.NewResourceClock(settings.WorldSpeed),
		batch:   settings.BatchSize,
		log:     log,
	}
}

// ResolvePending 完成所有 completed_at <= now 的条目，返回完成事件与失败列表。
func (r *QueueResolver) ResolvePending(ctx context.Context, now time.Time) ([]domain.CompletionEvent, []Failure, error) {
	var events []domain.CompletionEvent
	var failures []Failure

	err := forEachDue(ctx, r.batch,
		func(ctx context.Context, after int64, limit int) ([]domain.BuildingQueueEntry, error) {
			var page []domain.BuildingQueueEntry
			err := r.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
				var err error
				page, err = repos.Queues.DueBuilding(ctx, now, after, limit)
				return err
			})
			return page, err
		},
		func(e domain.BuildingQueueEntry) int64 { return e.ID },
		func(ctx context.Context, e domain.BuildingQueueEntry) error {
			ev, err := r.completeBuilding(ctx, e.ID, now)
			if err == nil {
				events = append(events, ev)
			}
			return err
		},
		func(e domain.BuildingQueueEntry, err error) {
			failures = append(failures, Failure{Entity: string(domain.QueueBuilding), ID: e.ID, Err: err})
			r.reportFailure(ctx, err, zap.String("queue", string(domain.QueueBuilding)), zap.Int64("entry_id", e.ID),
				zap.Int64("village_id", e.VillageID), zap.Int64("building_id", e.BuildingID), zap.Int("target_level", e.TargetLevel))
		},
	)
	if err != nil {
		return events, failures, err
	}

	err = forEachDue(ctx, r.batch,
		func(ctx context.Context, after int64, limit int) ([]domain.TrainingQueueEntry, error) {
			var page []domain.TrainingQueueEntry
			err := r.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
				var err error
				page, err = repos.Queues.DueTraining(ctx, now, after, limit)
				return err
			})
			return page, err
		},
		func(e domain.TrainingQueueEntry) int64 { return e.ID },
		func(ctx context.Context, e domain.TrainingQueueEntry) error {
			ev, err := r.completeTraining(ctx, e.ID, now)
			if err == nil {
				events = append(events, ev)
			}
			return err
		},
		func(e domain.TrainingQueueEntry, err error) {
			failures = append(failures, Failure{Entity: string(domain.QueueTraining), ID: e.ID, Err: err})
			r.reportFailure(ctx, err, zap.String("queue", string(domain.QueueTraining)), zap.Int64("entry_id", e.ID),
				zap.Int64("village_id", e.VillageID), zap.String("unit", string(e.Unit)), zap.Int("quantity", e.Quantity))
		},
	)
	return events, failures, err
}

func (r *QueueResolver) completeBuilding(ctx context.Context, id int64, now time.Time) (domain.CompletionEvent, error) {
	var ev domain.CompletionEvent
	err := r.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		e, err := repos.Queues.GetBuilding(ctx, id)
		if err != nil {
			return err
		}
		if !e.Due(now) {
			return domain.ErrAlreadyClaimed
		}
		ok, err := repos.Queues.TransitionBuilding(ctx, id, domain.QueueInProgress, domain.QueueCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyClaimed
		}

		v, err := repos.Villages.GetForUpdate(ctx, e.VillageID)
		if err != nil {
			return err
		}
		b, found := v.Building(e.BuildingID)
		if !found {
			return domain.ErrBuildingNotFound.WithData("building_id", e.BuildingID).WithData("village_id", v.ID)
		}
		if err := r.clock.Settle(v, now); err != nil {
			return err
		}
		if b.Level < e.TargetLevel {
			b.Level = e.TargetLevel
		}
		if err := engine.DeriveEffects(v, r.catalog); err != nil {
			return err
		}
		if err := repos.Villages.Save(ctx, v); err != nil {
			return err
		}

		ev = domain.CompletionEvent{
			Kind:        domain.QueueBuilding,
			EntryID:     e.ID,
			VillageID:   v.ID,
			PlayerID:    v.PlayerID,
			Name:        string(b.Kind),
			Level:       b.Level,
			CompletedAt: e.CompletedAt,
		}
		return nil
	})
	return ev, err
}

func (r *QueueResolver) completeTraining(ctx context.Context, id int64, now time.Time) (domain.CompletionEvent, error) {
	var ev domain.CompletionEvent
	err := r.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		e, err := repos.Queues.GetTraining(ctx, id)
		if err != nil {
			return err
		}
		if !e.Due(now) {
			return domain.ErrAlreadyClaimed
		}
		if e.Quantity <= 0 {
			return domain.ErrInvariantViolation.WithData("entry_id", e.ID).WithData("quantity", e.Quantity)
		}
		ok, err := repos.Queues.TransitionTraining(ctx, id, domain.QueueInProgress, domain.QueueCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyClaimed
		}

		v, err := repos.Villages.GetForUpdate(ctx, e.VillageID)
		if err != nil {
			return err
		}
		troop := v.Troop(e.Unit)
		troop.InVillage += e.Quantity
		if err := repos.Villages.Save(ctx, v); err != nil {
			return err
		}

		ev = domain.CompletionEvent{
			Kind:        domain.QueueTraining,
			EntryID:     e.ID,
			VillageID:   v.ID,
			PlayerID:    v.PlayerID,
			Name:        string(e.Unit),
			Quantity:    e.Quantity,
			Total:       troop.InVillage,
			CompletedAt: e.CompletedAt,
		}
		return nil
	})
	return ev, err
}

func (r *QueueResolver) reportFailure(ctx context.Context, err error, fields ...zap.Field) {
	logx.ReportSysError(ctx, r.log, logx.NewSysLog("queue resolve failed", err),
		append(fields, zap.String("reason", ReasonQueueApplyFail.Code))...)
}
