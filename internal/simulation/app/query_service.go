package app

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"context"
	"time"
)

// VillageView 是按当前时间推进后的村庄只读视图，不落库。
type VillageView struct {
	Village   *domain.Village
	Buildings []domain.BuildingQueueEntry
	Training  []domain.TrainingQueueEntry
	Movements []domain.Movement
	AsOf      time.Time
}

type QueryService struct {
	uow     UnitOfWork
	reports ReportRepo
	battle  *engine.BattleResolver
	clock   clock.Clock
	rc      engine.ResourceClock
}

func NewQueryService(uow UnitOfWork, reports ReportRepo, battle *engine.BattleResolver, clk clock.Clock, settings Settings) *QueryService {
	if clk == nil {
		clk = clock.System{}
	}
	return &QueryService{
		uow:     uow,
		reports: reports,
		battle:  battle,
		clock:   clk,
		rc:      engine.NewResourceClock(settings.WorldSpeed),
	}
}

func (q *QueryService) Village(ctx context.Context, villageID int64) (*VillageView, error) {
	now := q.clock.Now()
	view := &VillageView{AsOf: now}

	err := q.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		v, err := repos.Villages.Get(ctx, villageID)
		if err != nil {
			return err
		}
		v = v.Clone()
		// 只读视图，非法资源行保持原值
		q.rc.Advance(v, now)
		view.Village = v

		if view.Buildings, err = repos.Queues.PendingBuilding(ctx, villageID); err != nil {
			return err
		}
		if view.Training, err = repos.Queues.PendingTraining(ctx, villageID); err != nil {
			return err
		}
		view.Movements, err = repos.Movements.Active(ctx, villageID)
		return err
	})
	if err != nil {
		return nil, toSys(err)
	}
	return view, nil
}

func (q *QueryService) Report(ctx context.Context, id int64) (*domain.Report, error) {
	r, err := q.reports.Get(ctx, id)
	if err != nil {
		return nil, toSys(err)
	}
	return r, nil
}

// SimulateBattle 只计算不落库。
func (q *QueryService) SimulateBattle(attacker, defender domain.Roster, defenseBonus float64) (domain.BattleOutcome, error) {
	return q.battle.Resolve(attacker, defender, defenseBonus)
}
