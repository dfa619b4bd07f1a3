package dto

import (
	"VillageWars/internal/simulation/domain"
	"time"
)

type SimulateBattleReq struct {
	Attacker     map[string]int `json:"attacker" binding:"required"`
	Defender     map[string]int `json:"defender"`
	DefenseBonus float64        `json:"defense_bonus" binding:"min=0"`
}

type OutcomeResp struct {
	Winner           string             `json:"winner"`
	AttackerPower    float64            `json:"attacker_power"`
	DefenderPower    float64            `json:"defender_power"`
	AttackerVariance float64            `json:"attacker_variance"`
	DefenderVariance float64            `json:"defender_variance"`
	AttackerLosses   map[string]int     `json:"attacker_losses"`
	DefenderLosses   map[string]int     `json:"defender_losses"`
	Loot             map[string]float64 `json:"loot"`
}

func NewOutcomeResp(o domain.BattleOutcome) OutcomeResp {
	return OutcomeResp{
		Winner:           string(o.Winner),
		AttackerPower:    o.AttackerPower,
		DefenderPower:    o.DefenderPower,
		AttackerVariance: o.AttackerVariance,
		DefenderVariance: o.DefenderVariance,
		AttackerLosses:   o.AttackerLosses.Map(),
		DefenderLosses:   o.DefenderLosses.Map(),
		Loot:             o.Loot.Map(),
	}
}

type ReportResp struct {
	ID                int64          `json:"id,string"`
	MovementID        int64          `json:"movement_id,string"`
	AttackerPlayerID  int64          `json:"attacker_player_id,string"`
	DefenderPlayerID  int64          `json:"defender_player_id,string"`
	AttackerVillageID int64          `json:"attacker_village_id,string"`
	DefenderVillageID int64          `json:"defender_village_id,string"`
	AttackerRoster    map[string]int `json:"attacker_roster"`
	DefenderRoster    map[string]int `json:"defender_roster"`
	DefenseBonus      float64        `json:"defense_bonus"`
	Outcome           OutcomeResp    `json:"outcome"`
	OccurredAt        time.Time      `json:"occurred_at"`
}

func NewReportResp(r *domain.Report) ReportResp {
	return ReportResp{
		ID:                r.ID,
		MovementID:        r.MovementID,
		AttackerPlayerID:  r.AttackerPlayerID,
		DefenderPlayerID:  r.DefenderPlayerID,
		AttackerVillageID: r.AttackerVillageID,
		DefenderVillageID: r.DefenderVillageID,
		AttackerRoster:    r.AttackerRoster.Map(),
		DefenderRoster:    r.DefenderRoster.Map(),
		DefenseBonus:      r.DefenseBonus,
		Outcome:           NewOutcomeResp(r.Outcome),
		OccurredAt:        r.OccurredAt,
	}
}
