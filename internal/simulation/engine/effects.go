package engine

import (
	"VillageWars/internal/simulation/domain"
	"math"
)

// DeriveEffects 根据当前建筑等级重算产量、容量、城防加成与人口。
// 调用前必须先 Settle，容量变化只影响之后的产出。
func DeriveEffects(v *domain.Village, catalog domain.Catalog) error {
	var rates, caps domain.Resources
	var hasStorage [4]bool
	defense := 0.0
	population := 0

	for _, b := range v.Buildings {
		spec, ok := catalog.Building(b.Kind)
		if !ok {
			return domain.ErrBuildingNotFound.WithData("kind", string(b.Kind)).WithData("building_id", b.ID)
		}
		if b.Level < 0 || b.Level > spec.MaxLevel() {
			return domain.ErrInvariantViolation.WithData("building_id", b.ID).WithData("level", b.Level)
		}
		for l := 1; l <= b.Level; l++ {
			lv, _ := spec.Level(l)
			population += lv.Population
		}
		if b.Level == 0 {
			continue
		}
		lv, _ := spec.Level(b.Level)

		switch spec.Effect {
		case domain.EffectProduction:
			for _, t := range spec.Resources {
				rates[t] += lv.Value
			}
		case domain.EffectStorage:
			for _, t := range spec.Resources {
				caps[t] += lv.Value
				hasStorage[t] = true
			}
		case domain.EffectDefense:
			defense = math.Max(defense, lv.Value)
		case domain.EffectNone:
		default:
			return domain.ErrInvariantViolation.WithData("effect", string(spec.Effect))
		}
	}

	for _, t := range domain.ResourceTypes {
		s := &v.Stock[t]
		s.ProductionRate = rates[t]
		if hasStorage[t] {
			s.Capacity = caps[t]
		} else {
			s.Capacity = catalog.BaseStorage()
		}
		if s.Amount > s.Capacity {
			s.Amount = s.Capacity
		}
	}
	v.DefenseBonus = defense
	v.Population = population
	return nil
}
