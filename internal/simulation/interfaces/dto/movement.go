package dto

import (
	"VillageWars/internal/simulation/domain"
	"time"
)

type CreateMovementReq struct {
	OriginID int64          `json:"origin_id,string" binding:"required"`
	DestID   int64          `json:"dest_id,string" binding:"required"`
	Kind     string         `json:"kind" binding:"required"`
	Roster   map[string]int `json:"roster" binding:"required"`
}

func RosterOf(in map[string]int) domain.Roster {
	out := make(domain.Roster, len(in))
	for k, n := range in {
		out[domain.UnitKind(k)] = n
	}
	return out
}

type MovementResp struct {
	ID        int64              `json:"id,string"`
	Kind      string             `json:"kind"`
	OriginID  int64              `json:"origin_id,string"`
	DestID    int64              `json:"dest_id,string"`
	Roster    map[string]int     `json:"roster"`
	Loot      map[string]float64 `json:"loot,omitempty"`
	StartedAt time.Time          `json:"started_at"`
	ArrivesAt time.Time          `json:"arrives_at"`
	Status    string             `json:"status"`
}

func NewMovementResp(m domain.Movement) MovementResp {
	out := MovementResp{
		ID:        m.ID,
		Kind:      string(m.Kind),
		OriginID:  m.OriginID,
		DestID:    m.DestID,
		Roster:    m.Roster.Map(),
		StartedAt: m.StartedAt,
		ArrivesAt: m.ArrivesAt,
		Status:    string(m.Status),
	}
	if !m.Loot.IsZero() {
		out.Loot = m.Loot.Map()
	}
	return out
}

type CancelQueueResp struct {
	Kind   string             `json:"kind"`
	Refund map[string]float64 `json:"refund"`
}
