package app

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"VillageWars/modules/kit/logx"
	"context"
	"time"

	"go.uber.org/zap"
)

// MovementResolver 结算到达的行军。
// 每条行军先做 travelling -> processing 条件更新，结算完成后 processing -> completed，两步在同一事务内。
type MovementResolver struct {
	uow      UnitOfWork
	reports  ReportRepo
	catalog  domain.Catalog
	battle   *engine.BattleResolver
	clock    engine.ResourceClock
	ids      IDGenerator
	settings Settings
	log      Logger
}

func NewMovementResolver(uow UnitOfWork, reports ReportRepo, catalog domain.Catalog, battle *engine.BattleResolver,
	ids IDGenerator, settings Settings, log Logger) *MovementResolver {
	if log == nil {
		log = logx.Nop()
	}
	return &MovementResolver{
		uow:      uow,
		reports:  reports,
		catalog:  catalog,
		battle:   battle,
		clock:    engine.NewResourceClock(settings.WorldSpeed),
		ids:      ids,
		settings: settings,
		log:      log,
	}
}

// ResolveArrivals 结算所有 arrives_at <= now 的在途行军。
func (r *MovementResolver) ResolveArrivals(ctx context.Context, now time.Time) ([]domain.ArrivalEvent, []Failure, error) {
	var events []domain.ArrivalEvent
	var failures []Failure

	err := forEachDue(ctx, r.settings.BatchSize,
		func(ctx context.Context, after int64, limit int) ([]domain.Movement, error) {
			var page []domain.Movement
			err := r.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
				var err error
				page, err = repos.Movements.Due(ctx, now, after, limit)
				return err
			})
			return page, err
		},
		func(m domain.Movement) int64 { return m.ID },
		func(ctx context.Context, m domain.Movement) error {
			ev, err := r.resolveOne(ctx, m.ID, now)
			if err == nil {
				events = append(events, ev)
			}
			return err
		},
		func(m domain.Movement, err error) {
			failures = append(failures, Failure{Entity: "movement", ID: m.ID, Err: err})
			logx.ReportSysError(ctx, r.log, logx.NewSysLog("movement resolve failed", err),
				zap.String("reason", ReasonMovementApplyFail.Code),
				zap.Int64("movement_id", m.ID),
				zap.String("kind", string(m.Kind)),
				zap.Int64("origin_id", m.OriginID),
				zap.Int64("dest_id", m.DestID),
				zap.Any("roster", m.Roster.Map()),
			)
		},
	)
	return events, failures, err
}

func (r *MovementResolver) resolveOne(ctx context.Context, id int64, now time.Time) (domain.ArrivalEvent, error) {
	var ev domain.ArrivalEvent
	var report *domain.Report

	err := r.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		m, err := repos.Movements.Get(ctx, id)
		if err != nil {
			return err
		}
		if !m.Due(now) {
			return domain.ErrAlreadyClaimed
		}
		ok, err := repos.Movements.Transition(ctx, id, domain.MovementTravelling, domain.MovementProcessing)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyClaimed
		}

		ev = domain.ArrivalEvent{
			MovementID: m.ID,
			Kind:       m.Kind,
			PlayerID:   m.PlayerID,
			OriginID:   m.OriginID,
			DestID:     m.DestID,
			Roster:     m.Roster.Clone(),
			Loot:       m.Loot,
			ArrivedAt:  m.ArrivesAt,
		}

		switch m.Kind {
		case domain.MovementAttack:
			report, err = r.resolveAttack(ctx, repos, m, now, &ev)
		case domain.MovementReinforce, domain.MovementSupport:
			err = r.resolveReinforce(ctx, repos, m, &ev)
		case domain.MovementReturn:
			err = r.resolveReturn(ctx, repos, m, now)
		default:
			err = domain.ErrInvariantViolation.WithData("movement_id", m.ID).WithData("kind", string(m.Kind))
		}
		if err != nil {
			return err
		}

		ok, err = repos.Movements.Transition(ctx, id, domain.MovementProcessing, domain.MovementCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvariantViolation.WithData("movement_id", m.ID).WithData("status", "lost processing claim")
		}
		return nil
	})
	if err != nil {
		return domain.ArrivalEvent{}, err
	}

	if report != nil {
		if err := r.reports.Save(ctx, report); err != nil {
			// 结算已提交，战报丢失只记录。
			logx.ReportSysError(ctx, r.log, logx.NewSysLog("battle report save failed", err),
				zap.String("reason", ReasonReportWriteFail.Code),
				zap.Int64("report_id", report.ID),
				zap.Int64("movement_id", report.MovementID),
			)
		}
	}
	return ev, nil
}

func (r *MovementResolver) resolveAttack(ctx context.Context, repos Repos, m *domain.Movement, now time.Time, ev *domain.ArrivalEvent) (*domain.Report, error) {
	villages, err := lockVillages(ctx, repos.Villages, m.OriginID, m.DestID)
	if err != nil {
		return nil, err
	}
	origin, dest := villages[m.OriginID], villages[m.DestID]
	ev.DestPlayerID = dest.PlayerID

	// 掠夺前先把守方资源推进到当前
	if err := r.clock.Settle(dest, now); err != nil {
		return nil, err
	}

	defender := dest.HomeRoster()
	outcome, err := r.battle.Resolve(m.Roster, defender, dest.DefenseBonus)
	if err != nil {
		return nil, err
	}

	for unit, lost := range outcome.DefenderLosses {
		t := dest.Troop(unit)
		if lost > t.InVillage {
			return nil, domain.ErrInvariantViolation.WithData("village_id", dest.ID).WithData("unit", string(unit)).
				WithData("lost", lost).WithData("in_village", t.InVillage)
		}
		t.InVillage -= lost
	}
	for unit, lost := range outcome.AttackerLosses {
		t := origin.Troop(unit)
		if lost > t.InMovement {
			return nil, domain.ErrInvariantViolation.WithData("village_id", origin.ID).WithData("unit", string(unit)).
				WithData("lost", lost).WithData("in_movement", t.InMovement)
		}
		t.InMovement -= lost
	}

	survivors := m.Roster.Minus(outcome.AttackerLosses)
	if !survivors.IsEmpty() {
		carry, err := engine.CarryCapacity(survivors, r.catalog)
		if err != nil {
			return nil, err
		}
		loot := engine.ComputeLoot(dest.Amounts(), carry, r.settings.LootFraction)
		if err := engine.Spend(dest, loot); err != nil {
			return nil, err
		}
		outcome.Loot = loot

		speed, err := engine.SlowestSpeed(survivors, r.catalog)
		if err != nil {
			return nil, err
		}
		travel := engine.TravelDuration(engine.Distance(origin.X, origin.Y, dest.X, dest.Y), speed, r.settings.WorldSpeed)
		back := &domain.Movement{
			ID:        r.ids.NextID(),
			PlayerID:  m.PlayerID,
			OriginID:  m.OriginID,
			DestID:    m.DestID,
			Kind:      domain.MovementReturn,
			Roster:    survivors,
			Loot:      loot,
			ParentID:  m.ID,
			StartedAt: m.ArrivesAt,
			ArrivesAt: m.ArrivesAt.Add(travel),
			Status:    domain.MovementTravelling,
		}
		if err := repos.Movements.Create(ctx, back); err != nil {
			return nil, err
		}
		ev.ReturnID = back.ID
		ev.ReturnArrival = back.ArrivesAt
	}

	if err := repos.Villages.Save(ctx, dest); err != nil {
		return nil, err
	}
	if err := repos.Villages.Save(ctx, origin); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:                r.ids.NextID(),
		MovementID:        m.ID,
		AttackerPlayerID:  m.PlayerID,
		DefenderPlayerID:  dest.PlayerID,
		AttackerVillageID: origin.ID,
		DefenderVillageID: dest.ID,
		AttackerRoster:    m.Roster.Clone(),
		DefenderRoster:    defender,
		DefenseBonus:      dest.DefenseBonus,
		Outcome:           outcome,
		OccurredAt:        m.ArrivesAt,
	}
	ev.Battle = &report.Outcome
	ev.Loot = outcome.Loot
	ev.ReportID = report.ID
	return report, nil
}

func (r *MovementResolver) resolveReinforce(ctx context.Context, repos Repos, m *domain.Movement, ev *domain.ArrivalEvent) error {
	villages, err := lockVillages(ctx, repos.Villages, m.OriginID, m.DestID)
	if err != nil {
		return err
	}
	origin, dest := villages[m.OriginID], villages[m.DestID]
	ev.DestPlayerID = dest.PlayerID

	for unit, n := range m.Roster {
		from := origin.Troop(unit)
		if n > from.InMovement {
			return domain.ErrInvariantViolation.WithData("village_id", origin.ID).WithData("unit", string(unit)).
				WithData("count", n).WithData("in_movement", from.InMovement)
		}
		from.InMovement -= n
		dest.Troop(unit).InVillage += n
	}
	if err := repos.Villages.Save(ctx, origin); err != nil {
		return err
	}
	return repos.Villages.Save(ctx, dest)
}

func (r *MovementResolver) resolveReturn(ctx context.Context, repos Repos, m *domain.Movement, now time.Time) error {
	home, err := repos.Villages.GetForUpdate(ctx, m.OriginID)
	if err != nil {
		return err
	}
	for unit, n := range m.Roster {
		t := home.Troop(unit)
		if n > t.InMovement {
			return domain.ErrInvariantViolation.WithData("village_id", home.ID).WithData("unit", string(unit)).
				WithData("count", n).WithData("in_movement", t.InMovement)
		}
		t.InMovement -= n
		t.InVillage += n
	}
	if !m.Loot.IsZero() {
		if err := r.clock.Settle(home, now); err != nil {
			return err
		}
		engine.Deposit(home, m.Loot)
	}
	return repos.Villages.Save(ctx, home)
}
