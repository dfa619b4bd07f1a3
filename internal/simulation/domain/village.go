package domain

import "time"

type BuildingKind string

type UnitKind string

type Building struct {
	ID        int64
	VillageID int64
	Slot      int
	Kind      BuildingKind
	Level     int
}

// Troop 是村庄某一兵种的数量：InVillage 在家，InMovement 在途（出征/增援中）。
type Troop struct {
	Unit       UnitKind
	InVillage  int
	InMovement int
}

type Village struct {
	ID           int64
	PlayerID     int64
	WorldID      int64
	Name         string
	X            int
	Y            int
	Population   int
	DefenseBonus float64
	Stock        [4]Stockpile
	Buildings    []Building
	Troops       map[UnitKind]*Troop
	CreatedAt    time.Time
}

// Amounts 返回当前库存数量。
func (v *Village) Amounts() Resources {
	var r Resources
	for _, t := range ResourceTypes {
		r[t] = v.Stock[t].Amount
	}
	return r
}

func (v *Village) Capacities() Resources {
	var r Resources
	for _, t := range ResourceTypes {
		r[t] = v.Stock[t].Capacity
	}
	return r
}

func (v *Village) Building(id int64) (*Building, bool) {
	for i := range v.Buildings {
		if v.Buildings[i].ID == id {
			return &v.Buildings[i], true
		}
	}
	return nil, false
}

// MaxLevelOf 返回同类建筑中的最高等级，没有则为 0。
func (v *Village) MaxLevelOf(kind BuildingKind) int {
	level := 0
	for _, b := range v.Buildings {
		if b.Kind == kind && b.Level > level {
			level = b.Level
		}
	}
	return level
}

// Troop 返回兵种计数，不存在时创建零值行。
func (v *Village) Troop(unit UnitKind) *Troop {
	if v.Troops == nil {
		v.Troops = make(map[UnitKind]*Troop)
	}
	t, ok := v.Troops[unit]
	if !ok {
		t = &Troop{Unit: unit}
		v.Troops[unit] = t
	}
	return t
}

// HomeRoster 返回在家部队。
func (v *Village) HomeRoster() Roster {
	r := make(Roster, len(v.Troops))
	for unit, t := range v.Troops {
		if t.InVillage > 0 {
			r[unit] = t.InVillage
		}
	}
	return r
}

// Clone 深拷贝，供内存存储与只读视图使用。
func (v *Village) Clone() *Village {
	if v == nil {
		return nil
	}
	out := *v
	out.Buildings = append([]Building(nil), v.Buildings...)
	out.Troops = make(map[UnitKind]*Troop, len(v.Troops))
	for k, t := range v.Troops {
		cp := *t
		out.Troops[k] = &cp
	}
	return &out
}
