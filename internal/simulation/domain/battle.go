package domain

import "time"

type Winner string

const (
	AttackerWins Winner = "attacker_wins"
	DefenderWins Winner = "defender_wins"
	Draw         Winner = "draw"
)

// BattleOutcome 是一次战斗的结果，生成后不可变。
type BattleOutcome struct {
	AttackerPower    float64
	DefenderPower    float64
	AttackerVariance float64
	DefenderVariance float64
	Winner           Winner
	AttackerLosses   Roster
	DefenderLosses   Roster
	Loot             Resources
}

// Report 是战报，每次攻击结算生成一条。
type Report struct {
	ID                int64
	MovementID        int64
	AttackerPlayerID  int64
	DefenderPlayerID  int64
	AttackerVillageID int64
	DefenderVillageID int64
	AttackerRoster    Roster
	DefenderRoster    Roster
	DefenseBonus      float64
	Outcome           BattleOutcome
	OccurredAt        time.Time
}
