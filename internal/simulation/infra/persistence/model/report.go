package model

import "time"

// BattleOutcome 以 json 列整体存储。
type BattleOutcome struct {
	AttackerPower    float64        `json:"attacker_power"`
	DefenderPower    float64        `json:"defender_power"`
	AttackerVariance float64        `json:"attacker_variance"`
	DefenderVariance float64        `json:"defender_variance"`
	Winner           string         `json:"winner"`
	AttackerLosses   map[string]int `json:"attacker_losses"`
	DefenderLosses   map[string]int `json:"defender_losses"`
	Loot             [4]float64     `json:"loot"`
}

type BattleReport struct {
	ID                int64          `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	MovementID        int64          `gorm:"column:movement_id;type:bigint;not null;uniqueIndex:uk_report_movement" json:"movement_id"`
	AttackerPlayerID  int64          `gorm:"column:attacker_player_id;type:bigint;not null;index:idx_report_attacker" json:"attacker_player_id"`
	DefenderPlayerID  int64          `gorm:"column:defender_player_id;type:bigint;not null;index:idx_report_defender" json:"defender_player_id"`
	AttackerVillageID int64          `gorm:"column:attacker_village_id;type:bigint;not null" json:"attacker_village_id"`
	DefenderVillageID int64          `gorm:"column:defender_village_id;type:bigint;not null" json:"defender_village_id"`
	AttackerRoster    map[string]int `gorm:"column:attacker_roster;type:json;serializer:json" json:"attacker_roster"`
	DefenderRoster    map[string]int `gorm:"column:defender_roster;type:json;serializer:json" json:"defender_roster"`
	DefenseBonus      float64        `gorm:"column:defense_bonus;type:double;not null;default:0" json:"defense_bonus"`
	Outcome           BattleOutcome  `gorm:"column:outcome;type:json;serializer:json" json:"outcome"`
	OccurredAt        time.Time      `gorm:"column:occurred_at;type:datetime(3);not null" json:"occurred_at"`
}

func (*BattleReport) TableName() string {
	return "battle_report"
}

// All 返回需要建表的全部模型。
func All() []any {
	return []any{
		&Village{}, &Stockpile{}, &Building{}, &Troop{},
		&BuildingQueue{}, &TrainingQueue{},
		&Movement{}, &BattleReport{},
	}
}
