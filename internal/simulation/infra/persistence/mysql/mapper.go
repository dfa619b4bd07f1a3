package mysql

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
	"sort"
)

func villageToModel(v *domain.Village) *model.Village {
	return &model.Village{
		ID:           v.ID,
		PlayerID:     v.PlayerID,
		WorldID:      v.WorldID,
		Name:         v.Name,
		X:            v.X,
		Y:            v.Y,
		Population:   v.Population,
		DefenseBonus: v.DefenseBonus,
		CreatedAt:    v.CreatedAt,
	}
}

func stockToModels(villageID int64, stock []domain.Stockpile) []model.Stockpile {
	out := make([]model.Stockpile, 0, len(stock))
	for _, s := range stock {
		out = append(out, model.Stockpile{
			VillageID:      villageID,
			Resource:       s.Type.String(),
			Amount:         s.Amount,
			ProductionRate: s.ProductionRate,
			Capacity:       s.Capacity,
			LastUpdated:    s.LastUpdated,
		})
	}
	return out
}

func buildingsToModels(bs []domain.Building) []model.Building {
	out := make([]model.Building, 0, len(bs))
	for _, b := range bs {
		out = append(out, model.Building{ID: b.ID, VillageID: b.VillageID, Slot: b.Slot, Kind: string(b.Kind), Level: b.Level})
	}
	return out
}

func troopsToModels(v *domain.Village) []model.Troop {
	out := make([]model.Troop, 0, len(v.Troops))
	for unit, t := range v.Troops {
		out = append(out, model.Troop{VillageID: v.ID, Unit: string(unit), InVillage: t.InVillage, InMovement: t.InMovement})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out
}

// villageFromModels 组装聚合。资源行缺失或类型非法都视为数据损坏。
func villageFromModels(m *model.Village, stock []model.Stockpile, buildings []model.Building, troops []model.Troop) (*domain.Village, error) {
	v := &domain.Village{
		ID:           m.ID,
		PlayerID:     m.PlayerID,
		WorldID:      m.WorldID,
		Name:         m.Name,
		X:            m.X,
		Y:            m.Y,
		Population:   m.Population,
		DefenseBonus: m.DefenseBonus,
		CreatedAt:    m.CreatedAt.UTC(),
		Troops:       make(map[domain.UnitKind]*domain.Troop, len(troops)),
	}
	var seen [len(domain.ResourceTypes)]bool
	for _, s := range stock {
		t, err := domain.ParseResourceType(s.Resource)
		if err != nil {
			return nil, domain.ErrInvariantViolation.WithData("village_id", m.ID).WithData("resource", s.Resource)
		}
		v.Stock[t] = domain.Stockpile{
			Type:           t,
			Amount:         s.Amount,
			ProductionRate: s.ProductionRate,
			Capacity:       s.Capacity,
			LastUpdated:    s.LastUpdated.UTC(),
		}
		seen[t] = true
	}
	for _, t := range domain.ResourceTypes {
		if !seen[t] {
			return nil, domain.ErrInvariantViolation.WithData("village_id", m.ID).WithData("missing_resource", t.String())
		}
	}
	for _, b := range buildings {
		v.Buildings = append(v.Buildings, domain.Building{
			ID: b.ID, VillageID: b.VillageID, Slot: b.Slot, Kind: domain.BuildingKind(b.Kind), Level: b.Level,
		})
	}
	for _, t := range troops {
		unit := domain.UnitKind(t.Unit)
		v.Troops[unit] = &domain.Troop{Unit: unit, InVillage: t.InVillage, InMovement: t.InMovement}
	}
	return v, nil
}

func costOf(wood, clay, iron, crop float64) domain.Resources {
	return domain.NewResources(wood, clay, iron, crop)
}

func buildingQueueToModel(e *domain.BuildingQueueEntry) *model.BuildingQueue {
	return &model.BuildingQueue{
		ID:          e.ID,
		VillageID:   e.VillageID,
		BuildingID:  e.BuildingID,
		Kind:        string(e.Kind),
		TargetLevel: e.TargetLevel,
		StartedAt:   e.StartedAt,
		CompletedAt: e.CompletedAt,
		CostWood:    e.Cost[domain.Wood],
		CostClay:    e.Cost[domain.Clay],
		CostIron:    e.Cost[domain.Iron],
		CostCrop:    e.Cost[domain.Crop],
		Status:      string(e.Status),
	}
}

func buildingQueueFromModel(m *model.BuildingQueue) (domain.BuildingQueueEntry, error) {
	status, err := domain.ParseQueueStatus(m.Status)
	if err != nil {
		return domain.BuildingQueueEntry{}, domain.ErrInvariantViolation.WithData("entry_id", m.ID).WithData("status", m.Status)
	}
	return domain.BuildingQueueEntry{
		ID:          m.ID,
		VillageID:   m.VillageID,
		BuildingID:  m.BuildingID,
		Kind:        domain.BuildingKind(m.Kind),
		TargetLevel: m.TargetLevel,
		StartedAt:   m.StartedAt.UTC(),
		CompletedAt: m.CompletedAt.UTC(),
		Cost:        costOf(m.CostWood, m.CostClay, m.CostIron, m.CostCrop),
		Status:      status,
	}, nil
}

func trainingQueueToModel(e *domain.TrainingQueueEntry) *model.TrainingQueue {
	return &model.TrainingQueue{
		ID:          e.ID,
		VillageID:   e.VillageID,
		Unit:        string(e.Unit),
		Quantity:    e.Quantity,
		StartedAt:   e.StartedAt,
		CompletedAt: e.CompletedAt,
		CostWood:    e.Cost[domain.Wood],
		CostClay:    e.Cost[domain.Clay],
		CostIron:    e.Cost[domain.Iron],
		CostCrop:    e.Cost[domain.Crop],
		Status:      string(e.Status),
	}
}

func trainingQueueFromModel(m *model.TrainingQueue) (domain.TrainingQueueEntry, error) {
	status, err := domain.ParseQueueStatus(m.Status)
	if err != nil {
		return domain.TrainingQueueEntry{}, domain.ErrInvariantViolation.WithData("entry_id", m.ID).WithData("status", m.Status)
	}
	return domain.TrainingQueueEntry{
		ID:          m.ID,
		VillageID:   m.VillageID,
		Unit:        domain.UnitKind(m.Unit),
		Quantity:    m.Quantity,
		StartedAt:   m.StartedAt.UTC(),
		CompletedAt: m.CompletedAt.UTC(),
		Cost:        costOf(m.CostWood, m.CostClay, m.CostIron, m.CostCrop),
		Status:      status,
	}, nil
}

func movementToModel(mv *domain.Movement) *model.Movement {
	return &model.Movement{
		ID:        mv.ID,
		PlayerID:  mv.PlayerID,
		OriginID:  mv.OriginID,
		DestID:    mv.DestID,
		Kind:      string(mv.Kind),
		Roster:    mv.Roster.Map(),
		LootWood:  mv.Loot[domain.Wood],
		LootClay:  mv.Loot[domain.Clay],
		LootIron:  mv.Loot[domain.Iron],
		LootCrop:  mv.Loot[domain.Crop],
		ParentID:  mv.ParentID,
		StartedAt: mv.StartedAt,
		ArrivesAt: mv.ArrivesAt,
		Status:    string(mv.Status),
	}
}

func movementFromModel(m *model.Movement) (domain.Movement, error) {
	kind, err := domain.ParseMovementKind(m.Kind)
	if err != nil {
		return domain.Movement{}, domain.ErrInvariantViolation.WithData("movement_id", m.ID).WithData("kind", m.Kind)
	}
	status, err := domain.ParseMovementStatus(m.Status)
	if err != nil {
		return domain.Movement{}, domain.ErrInvariantViolation.WithData("movement_id", m.ID).WithData("status", m.Status)
	}
	return domain.Movement{
		ID:        m.ID,
		PlayerID:  m.PlayerID,
		OriginID:  m.OriginID,
		DestID:    m.DestID,
		Kind:      kind,
		Roster:    rosterFromMap(m.Roster),
		Loot:      costOf(m.LootWood, m.LootClay, m.LootIron, m.LootCrop),
		ParentID:  m.ParentID,
		StartedAt: m.StartedAt.UTC(),
		ArrivesAt: m.ArrivesAt.UTC(),
		Status:    status,
	}, nil
}

func rosterFromMap(in map[string]int) domain.Roster {
	out := make(domain.Roster, len(in))
	for k, n := range in {
		out[domain.UnitKind(k)] = n
	}
	return out
}

func reportToModel(r *domain.Report) *model.BattleReport {
	o := r.Outcome
	return &model.BattleReport{
		ID:                r.ID,
		MovementID:        r.MovementID,
		AttackerPlayerID:  r.AttackerPlayerID,
		DefenderPlayerID:  r.DefenderPlayerID,
		AttackerVillageID: r.AttackerVillageID,
		DefenderVillageID: r.DefenderVillageID,
		AttackerRoster:    r.AttackerRoster.Map(),
		DefenderRoster:    r.DefenderRoster.Map(),
		DefenseBonus:      r.DefenseBonus,
		Outcome: model.BattleOutcome{
			AttackerPower:    o.AttackerPower,
			DefenderPower:    o.DefenderPower,
			AttackerVariance: o.AttackerVariance,
			DefenderVariance: o.DefenderVariance,
			Winner:           string(o.Winner),
			AttackerLosses:   o.AttackerLosses.Map(),
			DefenderLosses:   o.DefenderLosses.Map(),
			Loot:             [4]float64(o.Loot),
		},
		OccurredAt: r.OccurredAt,
	}
}

func reportFromModel(m *model.BattleReport) *domain.Report {
	o := m.Outcome
	return &domain.Report{
		ID:                m.ID,
		MovementID:        m.MovementID,
		AttackerPlayerID:  m.AttackerPlayerID,
		DefenderPlayerID:  m.DefenderPlayerID,
		AttackerVillageID: m.AttackerVillageID,
		DefenderVillageID: m.DefenderVillageID,
		AttackerRoster:    rosterFromMap(m.AttackerRoster),
		DefenderRoster:    rosterFromMap(m.DefenderRoster),
		DefenseBonus:      m.DefenseBonus,
		Outcome: domain.BattleOutcome{
			AttackerPower:    o.AttackerPower,
			DefenderPower:    o.DefenderPower,
			AttackerVariance: o.AttackerVariance,
			DefenderVariance: o.DefenderVariance,
			Winner:           domain.Winner(o.Winner),
			AttackerLosses:   rosterFromMap(o.AttackerLosses),
			DefenderLosses:   rosterFromMap(o.DefenderLosses),
			Loot:             domain.Resources(o.Loot),
		},
		OccurredAt: m.OccurredAt.UTC(),
	}
}
