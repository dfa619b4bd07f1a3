package domain

import "time"

const (
	EventBuildingCompleted = "building_completed"
	EventTrainingCompleted = "training_completed"
	EventMovementArrived   = "movement_arrived"
	EventBattleResolved    = "battle_resolved"
)

// Event 是对外发布的结算事件，携带足够信息，调用方无需回查。
type Event interface {
	EventName() string
	Recipients() []int64
}

// CompletionEvent 对应一条队列完成。
type CompletionEvent struct {
	Kind        QueueKind
	EntryID     int64
	VillageID   int64
	PlayerID    int64
	Name        string // 建筑类型或兵种
	Level       int    // 建筑新等级
	Quantity    int    // 本批训练数量
	Total       int    // 训练后在家总数
	CompletedAt time.Time
}

func (e CompletionEvent) EventName() string {
	if e.Kind == QueueTraining {
		return EventTrainingCompleted
	}
	return EventBuildingCompleted
}

func (e CompletionEvent) Recipients() []int64 {
	return []int64{e.PlayerID}
}

// ArrivalEvent 对应一次行军到达；攻击到达时 Battle 非空。
type ArrivalEvent struct {
	MovementID    int64
	Kind          MovementKind
	PlayerID      int64
	OriginID      int64
	DestID        int64
	DestPlayerID  int64
	Roster        Roster
	Loot          Resources
	ArrivedAt     time.Time
	Battle        *BattleOutcome
	ReportID      int64
	ReturnID      int64 // 回程行军 id，全灭时为 0
	ReturnArrival time.Time
}

func (e ArrivalEvent) EventName() string {
	if e.Battle != nil {
		return EventBattleResolved
	}
	return EventMovementArrived
}

func (e ArrivalEvent) Recipients() []int64 {
	if e.DestPlayerID == 0 || e.DestPlayerID == e.PlayerID {
		return []int64{e.PlayerID}
	}
	return []int64{e.PlayerID, e.DestPlayerID}
}
