package engine

import (
	"VillageWars/internal/simulation/domain"
	"testing"
	"time"
)

func TestComputeLoot(t *testing.T) {
	tests := []struct {
		name     string
		stock    domain.Resources
		carry    float64
		fraction float64
		want     domain.Resources
	}{
		{"平分", domain.NewResources(1000, 1000, 1000, 1000), 400, 0.5, domain.NewResources(100, 100, 100, 100)},
		{"受比例限制", domain.NewResources(100, 100, 100, 100), 10000, 0.5, domain.NewResources(50, 50, 50, 50)},
		{"剩余额度再分配", domain.NewResources(0, 40, 1000, 1000), 300, 0.5, domain.NewResources(0, 20, 140, 140)},
		{"无负重", domain.NewResources(1000, 1000, 1000, 1000), 0, 0.5, domain.Resources{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLoot(tt.stock, tt.carry, tt.fraction)
			if got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
			if got.Total() > tt.carry {
				t.Fatalf("超出负重: %v > %v", got.Total(), tt.carry)
			}
		})
	}
}

func TestTravelDuration(t *testing.T) {
	// 距离 5，速度 6 格/小时 = 3000 秒
	d := TravelDuration(Distance(0, 0, 3, 4), 6, 1)
	if d != 3000*time.Second {
		t.Fatalf("got=%v", d)
	}
	if d := TravelDuration(Distance(0, 0, 3, 4), 6, 2); d != 1500*time.Second {
		t.Fatalf("2 倍速 got=%v", d)
	}
	if d := TravelDuration(0, 6, 1); d != time.Second {
		t.Fatalf("最少 1 秒, got=%v", d)
	}
}

func TestSlowestSpeed(t *testing.T) {
	cat := testCatalog()
	s, err := SlowestSpeed(domain.Roster{"rider": 3, "swordsman": 1}, cat)
	if err != nil || s != 6 {
		t.Fatalf("got=%v err=%v", s, err)
	}
	if _, err := SlowestSpeed(domain.Roster{}, cat); err == nil {
		t.Fatalf("空名单应报错")
	}
}

func TestScaleDuration(t *testing.T) {
	if d := ScaleDuration(400*time.Second, 2); d != 200*time.Second {
		t.Fatalf("got=%v", d)
	}
	if d := ScaleDuration(time.Second, 10); d != time.Second {
		t.Fatalf("最少 1 秒, got=%v", d)
	}
}

func TestDeriveEffects(t *testing.T) {
	cat := testCatalog()
	v := woodVillage()
	v.Buildings = []domain.Building{
		{ID: 1, Kind: "woodcutter", Level: 2},
		{ID: 2, Kind: "woodcutter", Level: 1},
		{ID: 3, Kind: "warehouse", Level: 1},
		{ID: 4, Kind: "wall", Level: 2},
	}
	if err := DeriveEffects(v, cat); err != nil {
		t.Fatalf("err=%v", err)
	}
	if v.Stock[domain.Wood].ProductionRate != 14 {
		t.Fatalf("wood rate=%v", v.Stock[domain.Wood].ProductionRate)
	}
	if v.Stock[domain.Wood].Capacity != 1200 || v.Stock[domain.Crop].Capacity != 800 {
		t.Fatalf("capacity wood=%v crop=%v", v.Stock[domain.Wood].Capacity, v.Stock[domain.Crop].Capacity)
	}
	if v.DefenseBonus != 0.06 {
		t.Fatalf("defense=%v", v.DefenseBonus)
	}
	if v.Population != 2+1+2+1 {
		t.Fatalf("population=%d", v.Population)
	}
}
