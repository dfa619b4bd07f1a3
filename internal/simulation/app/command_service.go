package app

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"VillageWars/modules/kit/errx"
	"context"
	"errors"
	"time"
)

type CreateMovementCmd struct {
	PlayerID int64
	OriginID int64
	DestID   int64
	Kind     domain.MovementKind
	Roster   domain.Roster
}

type FoundVillageCmd struct {
	PlayerID int64
	WorldID  int64
	Name     string
	X        int
	Y        int
}

type CancelResult struct {
	Kind   domain.QueueKind
	Refund domain.Resources
}

// CommandService 处理玩家指令。业务拒绝以 domain 错误返回，存储错误包成 ErrUnavailable。
type CommandService struct {
	uow      UnitOfWork
	catalog  domain.Catalog
	clock    clock.Clock
	rc       engine.ResourceClock
	ids      IDGenerator
	settings Settings
}

func NewCommandService(uow UnitOfWork, catalog domain.Catalog, clk clock.Clock, ids IDGenerator, settings Settings) *CommandService {
	if clk == nil {
		clk = clock.System{}
	}
	return &CommandService{
		uow:      uow,
		catalog:  catalog,
		clock:    clk,
		rc:       engine.NewResourceClock(settings.WorldSpeed),
		ids:      ids,
		settings: settings,
	}
}

const initialStock = 750

// FoundVillage 建立新村庄：资源田 1 级，其余建筑 0 级。
func (s *CommandService) FoundVillage(ctx context.Context, cmd FoundVillageCmd) (int64, error) {
	if cmd.PlayerID <= 0 {
		return 0, ErrReqParamERR.WithData("player_id", cmd.PlayerID)
	}
	now := s.clock.Now()
	v := &domain.Village{
		ID:        s.ids.NextID(),
		PlayerID:  cmd.PlayerID,
		WorldID:   cmd.WorldID,
		Name:      cmd.Name,
		X:         cmd.X,
		Y:         cmd.Y,
		Troops:    make(map[domain.UnitKind]*domain.Troop),
		CreatedAt: now,
	}
	for _, t := range domain.ResourceTypes {
		v.Stock[t] = domain.Stockpile{Type: t, Amount: initialStock, LastUpdated: now}
	}
	for i, spec := range s.catalog.BuildingSpecs() {
		level := 0
		if spec.Effect == domain.EffectProduction {
			level = 1
		}
		v.Buildings = append(v.Buildings, domain.Building{
			ID:        s.ids.NextID(),
			VillageID: v.ID,
			Slot:      i + 1,
			Kind:      spec.Kind,
			Level:     level,
		})
	}
	if err := engine.DeriveEffects(v, s.catalog); err != nil {
		return 0, err
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		return repos.Villages.Create(ctx, v)
	})
	if err != nil {
		return 0, toSys(err)
	}
	return v.ID, nil
}

// EnqueueBuildingUpgrade 扣费并排入下一等级的升级。同一建筑同时只能有一条进行中的升级。
func (s *CommandService) EnqueueBuildingUpgrade(ctx context.Context, playerID, villageID, buildingID int64) (int64, error) {
	now := s.clock.Now()
	var entry *domain.BuildingQueueEntry

	err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		v, err := repos.Villages.GetForUpdate(ctx, villageID)
		if err != nil {
			return err
		}
		if err := checkOwner(v, playerID); err != nil {
			return err
		}
		b, ok := v.Building(buildingID)
		if !ok {
			return domain.ErrBuildingNotFound.WithData("village_id", villageID).WithData("building_id", buildingID)
		}
		busy, err := repos.Queues.BuildingInProgress(ctx, buildingID)
		if err != nil {
			return err
		}
		if busy {
			return domain.ErrSlotBusy.WithData("building_id", buildingID)
		}

		spec, ok := s.catalog.Building(b.Kind)
		if !ok {
			return domain.ErrBuildingNotFound.WithData("kind", string(b.Kind))
		}
		target := b.Level + 1
		lv, ok := spec.Level(target)
		if !ok {
			return domain.ErrMaxLevel.WithData("building_id", buildingID).WithData("level", b.Level)
		}

		if err := s.rc.Settle(v, now); err != nil {
			return err
		}
		if err := engine.Spend(v, lv.Cost); err != nil {
			return withReason(err, ReasonCostUnaffordable)
		}
		if err := repos.Villages.Save(ctx, v); err != nil {
			return err
		}

		entry = &domain.BuildingQueueEntry{
			ID:          s.ids.NextID(),
			VillageID:   v.ID,
			BuildingID:  b.ID,
			Kind:        b.Kind,
			TargetLevel: target,
			StartedAt:   now,
			CompletedAt: now.Add(engine.ScaleDuration(lv.BuildTime, s.settings.WorldSpeed)),
			Cost:        lv.Cost,
			Status:      domain.QueueInProgress,
		}
		return repos.Queues.CreateBuilding(ctx, entry)
	})
	if err != nil {
		return 0, toSys(err)
	}
	return entry.ID, nil
}

// EnqueueTraining 扣费并排入训练。同村训练串行：新批次从上一批结束时开始。
func (s *CommandService) EnqueueTraining(ctx context.Context, playerID, villageID int64, unit domain.UnitKind, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity.WithData("quantity", quantity)
	}
	spec, ok := s.catalog.Unit(unit)
	if !ok {
		return 0, domain.ErrUnitTypeUnknown.WithData("unit", string(unit))
	}
	now := s.clock.Now()
	var entry *domain.TrainingQueueEntry

	err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		v, err := repos.Villages.GetForUpdate(ctx, villageID)
		if err != nil {
			return err
		}
		if err := checkOwner(v, playerID); err != nil {
			return err
		}
		if spec.Building != "" && v.MaxLevelOf(spec.Building) < spec.BuildingLevel {
			return domain.ErrRequirementNotMet.
				WithData("building", string(spec.Building)).
				WithData("need_level", spec.BuildingLevel).
				WithData("have_level", v.MaxLevelOf(spec.Building))
		}

		cost := spec.Cost.Scale(float64(quantity))
		if err := s.rc.Settle(v, now); err != nil {
			return err
		}
		if err := engine.Spend(v, cost); err != nil {
			return withReason(err, ReasonCostUnaffordable)
		}
		if err := repos.Villages.Save(ctx, v); err != nil {
			return err
		}

		start := now
		last, err := repos.Queues.LastTrainingEnd(ctx, v.ID)
		if err != nil {
			return err
		}
		if last.After(start) {
			start = last
		}
		per := engine.ScaleDuration(spec.TrainTime, s.settings.WorldSpeed)
		entry = &domain.TrainingQueueEntry{
			ID:          s.ids.NextID(),
			VillageID:   v.ID,
			Unit:        unit,
			Quantity:    quantity,
			StartedAt:   start,
			CompletedAt: start.Add(per * time.Duration(quantity)),
			Cost:        cost,
			Status:      domain.QueueInProgress,
		}
		return repos.Queues.CreateTraining(ctx, entry)
	})
	if err != nil {
		return 0, toSys(err)
	}
	return entry.ID, nil
}

// CreateMovement 扣出在家兵力并出发。部队在途期间只计入出发村的在途数。
func (s *CommandService) CreateMovement(ctx context.Context, cmd CreateMovementCmd) (int64, error) {
	issuable, err := cmd.Kind.PlayerIssuable()
	if err != nil {
		return 0, domain.ErrInvalidMovementKind.WithData("kind", string(cmd.Kind))
	}
	if !issuable {
		return 0, domain.ErrInvalidMovementKind.WithData("kind", string(cmd.Kind))
	}
	if err := cmd.Roster.Validate(); err != nil {
		return 0, err
	}
	if cmd.OriginID == cmd.DestID {
		return 0, domain.ErrInvalidTarget.WithReason(ReasonTargetSelf).WithData("village_id", cmd.OriginID)
	}
	speed, err := engine.SlowestSpeed(cmd.Roster, s.catalog)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	var m *domain.Movement
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		dest, err := repos.Villages.Get(ctx, cmd.DestID)
		if err != nil {
			if errors.Is(err, domain.ErrVillageNotFound) {
				return domain.ErrInvalidTarget.WithData("dest_id", cmd.DestID)
			}
			return err
		}
		origin, err := repos.Villages.GetForUpdate(ctx, cmd.OriginID)
		if err != nil {
			return err
		}
		if err := checkOwner(origin, cmd.PlayerID); err != nil {
			return err
		}
		if cmd.Kind == domain.MovementAttack && dest.PlayerID == origin.PlayerID {
			return domain.ErrInvalidTarget.WithReason(ReasonTargetOwnVillage).WithData("dest_id", dest.ID)
		}

		for unit, n := range cmd.Roster {
			t := origin.Troop(unit)
			if t.InVillage < n {
				return domain.ErrTroopsUnavailable.WithReason(ReasonTroopsCommitted).
					WithData("unit", string(unit)).WithData("want", n).WithData("have", t.InVillage)
			}
		}
		for unit, n := range cmd.Roster {
			t := origin.Troop(unit)
			t.InVillage -= n
			t.InMovement += n
		}
		if err := repos.Villages.Save(ctx, origin); err != nil {
			return err
		}

		travel := engine.TravelDuration(engine.Distance(origin.X, origin.Y, dest.X, dest.Y), speed, s.settings.WorldSpeed)
		m = &domain.Movement{
			ID:        s.ids.NextID(),
			PlayerID:  origin.PlayerID,
			OriginID:  origin.ID,
			DestID:    dest.ID,
			Kind:      cmd.Kind,
			Roster:    cmd.Roster.Clone(),
			StartedAt: now,
			ArrivesAt: now.Add(travel),
			Status:    domain.MovementTravelling,
		}
		return repos.Movements.Create(ctx, m)
	})
	if err != nil {
		return 0, toSys(err)
	}
	return m.ID, nil
}

// CancelQueueEntry 取消进行中的建筑或训练条目，按比例退款。已被结算抢占时返回 ErrTooLate。
func (s *CommandService) CancelQueueEntry(ctx context.Context, playerID, entryID int64) (CancelResult, error) {
	now := s.clock.Now()
	var res CancelResult

	err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		var (
			villageID int64
			cost      domain.Resources
			due       bool
			claim     func() (bool, error)
			training  *domain.TrainingQueueEntry
		)
		b, err := repos.Queues.GetBuilding(ctx, entryID)
		switch {
		case err == nil:
			res.Kind = domain.QueueBuilding
			villageID, cost, due = b.VillageID, b.Cost, !b.CompletedAt.After(now)
			claim = func() (bool, error) {
				return repos.Queues.TransitionBuilding(ctx, entryID, domain.QueueInProgress, domain.QueueCancelled)
			}
		case errors.Is(err, domain.ErrQueueEntryNotFound):
			t, err := repos.Queues.GetTraining(ctx, entryID)
			if err != nil {
				return err
			}
			res.Kind = domain.QueueTraining
			training = t
			villageID, cost, due = t.VillageID, t.Cost, !t.CompletedAt.After(now)
			claim = func() (bool, error) {
				return repos.Queues.TransitionTraining(ctx, entryID, domain.QueueInProgress, domain.QueueCancelled)
			}
		default:
			return err
		}

		owner, err := repos.Villages.Get(ctx, villageID)
		if err != nil {
			return err
		}
		if err := checkOwner(owner, playerID); err != nil {
			return err
		}
		if due {
			return domain.ErrTooLate.WithReason(ReasonAlreadyDue).WithData("entry_id", entryID)
		}
		ok, err := claim()
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTooLate.WithReason(ReasonAlreadyResolved).WithData("entry_id", entryID)
		}

		v, err := repos.Villages.GetForUpdate(ctx, villageID)
		if err != nil {
			return err
		}
		if training != nil {
			if err := pullTrainingForward(ctx, repos.Queues, training, now); err != nil {
				return err
			}
		}
		if err := s.rc.Settle(v, now); err != nil {
			return err
		}
		res.Refund = engine.Deposit(v, cost.Scale(s.settings.CancelRefundRatio).Floor())
		return repos.Villages.Save(ctx, v)
	})
	if err != nil {
		return CancelResult{}, toSys(err)
	}
	return res, nil
}

// pullTrainingForward 把排在被取消条目之后的训练整体前移，空出的时长为
// 被取消条目尚未消耗的部分。训练按村串行，调用方须已锁住村庄。
func pullTrainingForward(ctx context.Context, queues QueueRepo, cancelled *domain.TrainingQueueEntry, now time.Time) error {
	from := cancelled.StartedAt
	if now.After(from) {
		from = now
	}
	gap := cancelled.CompletedAt.Sub(from)
	if gap <= 0 {
		return nil
	}
	pending, err := queues.PendingTraining(ctx, cancelled.VillageID)
	if err != nil {
		return err
	}
	for _, e := range pending {
		if e.StartedAt.Before(cancelled.CompletedAt) {
			continue
		}
		ok, err := queues.RescheduleTraining(ctx, e.ID, e.StartedAt.Add(-gap), e.CompletedAt.Add(-gap))
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvariantViolation.WithData("entry_id", e.ID).WithData("village_id", cancelled.VillageID)
		}
	}
	return nil
}

// CancelMovement 取消在途行军，部队立即回到出发村。
func (s *CommandService) CancelMovement(ctx context.Context, playerID, movementID int64) error {
	now := s.clock.Now()

	err := s.uow.Do(ctx, func(ctx context.Context, repos Repos) error {
		m, err := repos.Movements.Get(ctx, movementID)
		if err != nil {
			return err
		}
		if playerID != m.PlayerID {
			return domain.ErrNotOwner.WithData("movement_id", movementID)
		}
		issuable, err := m.Kind.PlayerIssuable()
		if err != nil {
			return domain.ErrInvariantViolation.WithData("movement_id", movementID).WithData("kind", string(m.Kind))
		}
		if !issuable {
			return domain.ErrNotCancellable.WithReason(ReasonReturnNotCancelled).WithData("movement_id", movementID)
		}
		if m.Status != domain.MovementTravelling || !m.ArrivesAt.After(now) {
			return domain.ErrTooLate.WithReason(ReasonAlreadyResolved).WithData("movement_id", movementID)
		}
		if w := s.settings.MovementCancelWindow; w > 0 && now.Sub(m.StartedAt) > w {
			return domain.ErrCancelWindowPassed.WithData("movement_id", movementID).WithData("window", w.String())
		}

		ok, err := repos.Movements.Transition(ctx, movementID, domain.MovementTravelling, domain.MovementCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTooLate.WithReason(ReasonAlreadyResolved).WithData("movement_id", movementID)
		}

		origin, err := repos.Villages.GetForUpdate(ctx, m.OriginID)
		if err != nil {
			return err
		}
		for unit, n := range m.Roster {
			t := origin.Troop(unit)
			if n > t.InMovement {
				return domain.ErrInvariantViolation.WithData("village_id", origin.ID).WithData("unit", string(unit)).
					WithData("count", n).WithData("in_movement", t.InMovement)
			}
			t.InMovement -= n
			t.InVillage += n
		}
		return repos.Villages.Save(ctx, origin)
	})
	return toSys(err)
}

func checkOwner(v *domain.Village, playerID int64) error {
	if v.PlayerID != playerID {
		return domain.ErrNotOwner.WithData("village_id", v.ID).WithData("player_id", playerID)
	}
	return nil
}

func withReason(err error, reason Reason) error {
	if e := errx.As(err); e != nil {
		return e.WithReason(reason)
	}
	return err
}
