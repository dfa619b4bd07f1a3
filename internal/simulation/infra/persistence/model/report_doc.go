package model

import "time"

// ReportDoc 是战报在 mongodb 中的文档形态，_id 即战报 id。
type ReportDoc struct {
	ID                int64          `bson:"_id"`
	MovementID        int64          `bson:"movement_id"`
	AttackerPlayerID  int64          `bson:"attacker_player_id"`
	DefenderPlayerID  int64          `bson:"defender_player_id"`
	AttackerVillageID int64          `bson:"attacker_village_id"`
	DefenderVillageID int64          `bson:"defender_village_id"`
	AttackerRoster    map[string]int `bson:"attacker_roster"`
	DefenderRoster    map[string]int `bson:"defender_roster"`
	DefenseBonus      float64        `bson:"defense_bonus"`
	Outcome           OutcomeDoc     `bson:"outcome"`
	OccurredAt        time.Time      `bson:"occurred_at"`
}

type OutcomeDoc struct {
	AttackerPower    float64        `bson:"attacker_power"`
	DefenderPower    float64        `bson:"defender_power"`
	AttackerVariance float64        `bson:"attacker_variance"`
	DefenderVariance float64        `bson:"defender_variance"`
	Winner           string         `bson:"winner"`
	AttackerLosses   map[string]int `bson:"attacker_losses"`
	DefenderLosses   map[string]int `bson:"defender_losses"`
	Loot             []float64      `bson:"loot"`
}
