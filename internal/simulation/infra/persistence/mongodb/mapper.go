package mongodb

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
)

func ReportToDoc(r *domain.Report) *model.ReportDoc {
	o := r.Outcome
	return &model.ReportDoc{
		ID:                r.ID,
		MovementID:        r.MovementID,
		AttackerPlayerID:  r.AttackerPlayerID,
		DefenderPlayerID:  r.DefenderPlayerID,
		AttackerVillageID: r.AttackerVillageID,
		DefenderVillageID: r.DefenderVillageID,
		AttackerRoster:    r.AttackerRoster.Map(),
		DefenderRoster:    r.DefenderRoster.Map(),
		DefenseBonus:      r.DefenseBonus,
		Outcome: model.OutcomeDoc{
			AttackerPower:    o.AttackerPower,
			DefenderPower:    o.DefenderPower,
			AttackerVariance: o.AttackerVariance,
			DefenderVariance: o.DefenderVariance,
			Winner:           string(o.Winner),
			AttackerLosses:   o.AttackerLosses.Map(),
			DefenderLosses:   o.DefenderLosses.Map(),
			Loot:             o.Loot[:],
		},
		OccurredAt: r.OccurredAt,
	}
}

func ReportFromDoc(d *model.ReportDoc) *domain.Report {
	o := d.Outcome
	var loot domain.Resources
	copy(loot[:], o.Loot)
	return &domain.Report{
		ID:                d.ID,
		MovementID:        d.MovementID,
		AttackerPlayerID:  d.AttackerPlayerID,
		DefenderPlayerID:  d.DefenderPlayerID,
		AttackerVillageID: d.AttackerVillageID,
		DefenderVillageID: d.DefenderVillageID,
		AttackerRoster:    rosterOf(d.AttackerRoster),
		DefenderRoster:    rosterOf(d.DefenderRoster),
		DefenseBonus:      d.DefenseBonus,
		Outcome: domain.BattleOutcome{
			AttackerPower:    o.AttackerPower,
			DefenderPower:    o.DefenderPower,
			AttackerVariance: o.AttackerVariance,
			DefenderVariance: o.DefenderVariance,
			Winner:           domain.Winner(o.Winner),
			AttackerLosses:   rosterOf(o.AttackerLosses),
			DefenderLosses:   rosterOf(o.DefenderLosses),
			Loot:             loot,
		},
		OccurredAt: d.OccurredAt.UTC(),
	}
}

func rosterOf(in map[string]int) domain.Roster {
	out := make(domain.Roster, len(in))
	for k, n := range in {
		out[domain.UnitKind(k)] = n
	}
	return out
}
