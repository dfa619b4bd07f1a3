package engine

import (
	"VillageWars/internal/simulation/domain"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testCatalog() *domain.StaticCatalog {
	return domain.NewCatalogFromSpecs(800,
		[]domain.UnitSpec{
			{Kind: "swordsman", Attack: 40, DefenseInfantry: 20, DefenseCavalry: 20, Speed: 6, Carry: 50},
			{Kind: "spearman", Attack: 10, DefenseInfantry: 35, DefenseCavalry: 60, Speed: 7, Carry: 40},
			{Kind: "rider", Attack: 120, DefenseInfantry: 65, DefenseCavalry: 50, Speed: 14, Carry: 100},
		},
		[]domain.BuildingSpec{
			{Kind: "woodcutter", Effect: domain.EffectProduction, Resources: []domain.ResourceType{domain.Wood},
				Levels: []domain.BuildingLevel{{Level: 1, Value: 5, Population: 2}, {Level: 2, Value: 9, Population: 1}}},
			{Kind: "warehouse", Effect: domain.EffectStorage, Resources: []domain.ResourceType{domain.Wood, domain.Clay, domain.Iron},
				Levels: []domain.BuildingLevel{{Level: 1, Value: 1200, Population: 1}}},
			{Kind: "wall", Effect: domain.EffectDefense,
				Levels: []domain.BuildingLevel{{Level: 1, Value: 0.03}, {Level: 2, Value: 0.06}}},
		},
	)
}

// woodVillage 只有木材在生产：500/1000，每分钟 10。
func woodVillage() *domain.Village {
	v := &domain.Village{ID: 1}
	for _, t := range domain.ResourceTypes {
		v.Stock[t] = domain.Stockpile{Type: t, Amount: 100, Capacity: 1000, LastUpdated: t0}
	}
	v.Stock[domain.Wood].Amount = 500
	v.Stock[domain.Wood].ProductionRate = 600
	return v
}
