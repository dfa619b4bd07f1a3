package dto

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"sort"
	"time"
)

type FoundVillageReq struct {
	WorldID int64  `json:"world_id"`
	Name    string `json:"name" binding:"required,max=64"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type TrainReq struct {
	Unit     string `json:"unit" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type IDResp struct {
	ID int64 `json:"id,string"`
}

type StockpileResp struct {
	Amount         float64   `json:"amount"`
	ProductionRate float64   `json:"production_rate"`
	Capacity       float64   `json:"capacity"`
	LastUpdated    time.Time `json:"last_updated"`
}

type BuildingResp struct {
	ID    int64  `json:"id,string"`
	Slot  int    `json:"slot"`
	Kind  string `json:"kind"`
	Level int    `json:"level"`
}

type TroopResp struct {
	Unit       string `json:"unit"`
	InVillage  int    `json:"in_village"`
	InMovement int    `json:"in_movement"`
}

type QueueEntryResp struct {
	ID          int64              `json:"id,string"`
	Kind        string             `json:"kind"`
	Name        string             `json:"name"`
	TargetLevel int                `json:"target_level,omitempty"`
	Quantity    int                `json:"quantity,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt time.Time          `json:"completed_at"`
	Cost        map[string]float64 `json:"cost"`
}

type VillageResp struct {
	ID           int64                    `json:"id,string"`
	PlayerID     int64                    `json:"player_id,string"`
	Name         string                   `json:"name"`
	X            int                      `json:"x"`
	Y            int                      `json:"y"`
	Population   int                      `json:"population"`
	DefenseBonus float64                  `json:"defense_bonus"`
	Resources    map[string]StockpileResp `json:"resources"`
	Buildings    []BuildingResp           `json:"buildings"`
	Troops       []TroopResp              `json:"troops"`
	Queue        []QueueEntryResp         `json:"queue"`
	Movements    []MovementResp           `json:"movements"`
	AsOf         time.Time                `json:"as_of"`
}

func NewVillageResp(view *app.VillageView) VillageResp {
	v := view.Village
	out := VillageResp{
		ID:           v.ID,
		PlayerID:     v.PlayerID,
		Name:         v.Name,
		X:            v.X,
		Y:            v.Y,
		Population:   v.Population,
		DefenseBonus: v.DefenseBonus,
		Resources:    make(map[string]StockpileResp, len(v.Stock)),
		Buildings:    make([]BuildingResp, 0, len(v.Buildings)),
		Troops:       make([]TroopResp, 0, len(v.Troops)),
		Queue:        make([]QueueEntryResp, 0, len(view.Buildings)+len(view.Training)),
		Movements:    make([]MovementResp, 0, len(view.Movements)),
		AsOf:         view.AsOf,
	}
	for _, s := range v.Stock {
		out.Resources[s.Type.String()] = StockpileResp{
			Amount:         s.Amount,
			ProductionRate: s.ProductionRate,
			Capacity:       s.Capacity,
			LastUpdated:    s.LastUpdated,
		}
	}
	for _, b := range v.Buildings {
		out.Buildings = append(out.Buildings, BuildingResp{ID: b.ID, Slot: b.Slot, Kind: string(b.Kind), Level: b.Level})
	}
	for unit, t := range v.Troops {
		out.Troops = append(out.Troops, TroopResp{Unit: string(unit), InVillage: t.InVillage, InMovement: t.InMovement})
	}
	sort.Slice(out.Troops, func(i, j int) bool { return out.Troops[i].Unit < out.Troops[j].Unit })
	for _, e := range view.Buildings {
		out.Queue = append(out.Queue, QueueEntryResp{
			ID: e.ID, Kind: string(domain.QueueBuilding), Name: string(e.Kind), TargetLevel: e.TargetLevel,
			StartedAt: e.StartedAt, CompletedAt: e.CompletedAt, Cost: e.Cost.Map(),
		})
	}
	for _, e := range view.Training {
		out.Queue = append(out.Queue, QueueEntryResp{
			ID: e.ID, Kind: string(domain.QueueTraining), Name: string(e.Unit), Quantity: e.Quantity,
			StartedAt: e.StartedAt, CompletedAt: e.CompletedAt, Cost: e.Cost.Map(),
		})
	}
	for _, m := range view.Movements {
		out.Movements = append(out.Movements, NewMovementResp(m))
	}
	return out
}
