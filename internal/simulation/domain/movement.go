package domain

import (
	"fmt"
	"time"
)

type MovementKind string

const (
	MovementAttack    MovementKind = "attack"
	MovementReinforce MovementKind = "reinforce"
	MovementSupport   MovementKind = "support"
	MovementReturn    MovementKind = "return"
)

var MovementKinds = [...]MovementKind{MovementAttack, MovementReinforce, MovementSupport, MovementReturn}

func ParseMovementKind(s string) (MovementKind, error) {
	switch k := MovementKind(s); k {
	case MovementAttack, MovementReinforce, MovementSupport, MovementReturn:
		return k, nil
	default:
		return "", ErrInvalidMovementKind.WithData("kind", s)
	}
}

// PlayerIssuable 返回玩家能否直接下达该类型行军，回程只由结算产生。
func (k MovementKind) PlayerIssuable() (bool, error) {
	switch k {
	case MovementAttack, MovementReinforce, MovementSupport:
		return true, nil
	case MovementReturn:
		return false, nil
	default:
		return false, fmt.Errorf("unknown movement kind %q", string(k))
	}
}

type MovementStatus string

const (
	MovementTravelling MovementStatus = "travelling"
	MovementProcessing MovementStatus = "processing"
	MovementArrived    MovementStatus = "arrived"
	MovementReturning  MovementStatus = "returning"
	MovementCompleted  MovementStatus = "completed"
	MovementCancelled  MovementStatus = "cancelled"
)

var MovementStatuses = [...]MovementStatus{
	MovementTravelling, MovementProcessing, MovementArrived,
	MovementReturning, MovementCompleted, MovementCancelled,
}

func ParseMovementStatus(s string) (MovementStatus, error) {
	for _, st := range MovementStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown movement status %q", s)
}

// Movement 是一次在途行军。
// 出发时部队从 Origin 的在家兵力转入在途计数；回程行军的 Origin 仍是部队的家，Dest 是出发地。
type Movement struct {
	ID        int64
	PlayerID  int64
	OriginID  int64
	DestID    int64
	Kind      MovementKind
	Roster    Roster
	Loot      Resources
	ParentID  int64 // 回程对应的出征行军
	StartedAt time.Time
	ArrivesAt time.Time
	Status    MovementStatus
}

func (m Movement) Due(now time.Time) bool {
	return m.Status == MovementTravelling && !m.ArrivesAt.After(now)
}
