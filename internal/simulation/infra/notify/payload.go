package notify

import (
	"VillageWars/internal/simulation/domain"
	"time"
)

type CompletionPayload struct {
	Kind        string    `json:"kind"`
	EntryID     int64     `json:"entry_id"`
	VillageID   int64     `json:"village_id"`
	Name        string    `json:"name"`
	Level       int       `json:"level,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	Total       int       `json:"total,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

type BattlePayload struct {
	Winner         string             `json:"winner"`
	AttackerPower  float64            `json:"attacker_power"`
	DefenderPower  float64            `json:"defender_power"`
	AttackerLosses map[string]int     `json:"attacker_losses"`
	DefenderLosses map[string]int     `json:"defender_losses"`
	Loot           map[string]float64 `json:"loot"`
}

type ArrivalPayload struct {
	MovementID    int64              `json:"movement_id"`
	Kind          string             `json:"kind"`
	OriginID      int64              `json:"origin_id"`
	DestID        int64              `json:"dest_id"`
	Roster        map[string]int     `json:"roster"`
	Loot          map[string]float64 `json:"loot,omitempty"`
	ArrivedAt     time.Time          `json:"arrived_at"`
	Battle        *BattlePayload     `json:"battle,omitempty"`
	ReportID      int64              `json:"report_id,omitempty"`
	ReturnID      int64              `json:"return_id,omitempty"`
	ReturnArrival *time.Time         `json:"return_arrival,omitempty"`
}

// Payload 把领域事件转成对外的 json 结构。
func Payload(e domain.Event) any {
	switch ev := e.(type) {
	case domain.CompletionEvent:
		return CompletionPayload{
			Kind:        string(ev.Kind),
			EntryID:     ev.EntryID,
			VillageID:   ev.VillageID,
			Name:        ev.Name,
			Level:       ev.Level,
			Quantity:    ev.Quantity,
			Total:       ev.Total,
			CompletedAt: ev.CompletedAt,
		}
	case domain.ArrivalEvent:
		p := ArrivalPayload{
			MovementID: ev.MovementID,
			Kind:       string(ev.Kind),
			OriginID:   ev.OriginID,
			DestID:     ev.DestID,
			Roster:     ev.Roster.Map(),
			ArrivedAt:  ev.ArrivedAt,
			ReportID:   ev.ReportID,
			ReturnID:   ev.ReturnID,
		}
		if !ev.Loot.IsZero() {
			p.Loot = ev.Loot.Map()
		}
		if ev.ReturnID != 0 {
			at := ev.ReturnArrival
			p.ReturnArrival = &at
		}
		if b := ev.Battle; b != nil {
			p.Battle = &BattlePayload{
				Winner:         string(b.Winner),
				AttackerPower:  b.AttackerPower,
				DefenderPower:  b.DefenderPower,
				AttackerLosses: b.AttackerLosses.Map(),
				DefenderLosses: b.DefenderLosses.Map(),
				Loot:           b.Loot.Map(),
			}
		}
		return p
	default:
		return e
	}
}
