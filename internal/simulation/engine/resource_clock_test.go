package engine

import (
	"VillageWars/internal/simulation/domain"
	"errors"
	"math"
	"testing"
	"time"
)

func TestAdvance_五分钟产出50(t *testing.T) {
	v := woodVillage()
	got := NewResourceClock(1).Advance(v, t0.Add(5*time.Minute))

	if v.Stock[domain.Wood].Amount != 550 {
		t.Fatalf("期望 wood=550, got=%v", v.Stock[domain.Wood].Amount)
	}
	if len(got.Updates) != 1 || got.Updates[0].Type != domain.Wood {
		t.Fatalf("只应改写木材行: %+v", got.Updates)
	}
	if !v.Stock[domain.Wood].LastUpdated.Equal(t0.Add(5 * time.Minute)) {
		t.Fatalf("last_updated 未推进: %v", v.Stock[domain.Wood].LastUpdated)
	}
	if !v.Stock[domain.Clay].LastUpdated.Equal(t0) {
		t.Fatalf("无产出的资源不应改写")
	}
}

func TestAdvance_六十分钟截断到容量(t *testing.T) {
	v := woodVillage()
	NewResourceClock(1).Advance(v, t0.Add(60*time.Minute))
	if v.Stock[domain.Wood].Amount != 1000 {
		t.Fatalf("期望截断到 1000, got=%v", v.Stock[domain.Wood].Amount)
	}
}

func TestAdvance_超长停机也不溢出(t *testing.T) {
	v := woodVillage()
	v.Stock[domain.Wood].ProductionRate = 1e300
	NewResourceClock(1).Advance(v, t0.Add(24*365*100*time.Hour))
	if v.Stock[domain.Wood].Amount != 1000 {
		t.Fatalf("期望 1000, got=%v", v.Stock[domain.Wood].Amount)
	}
}

func TestAdvance_同一时刻重复调用幂等(t *testing.T) {
	v := woodVillage()
	c := NewResourceClock(1)
	now := t0.Add(90 * time.Second)
	c.Advance(v, now)
	first := v.Stock

	again := c.Advance(v, now)
	if again.Changed() {
		t.Fatalf("第二次调用应无改写: %+v", again.Updates)
	}
	if v.Stock != first {
		t.Fatalf("第二次调用改变了库存")
	}
}

func TestAdvance_未来时间戳视为零流逝(t *testing.T) {
	v := woodVillage()
	v.Stock[domain.Wood].LastUpdated = t0.Add(time.Hour)
	got := NewResourceClock(1).Advance(v, t0)
	if got.Changed() || v.Stock[domain.Wood].Amount != 500 {
		t.Fatalf("未来时间戳不应产出: %+v", v.Stock[domain.Wood])
	}
}

func TestAdvance_保留不足一秒的余数(t *testing.T) {
	v := woodVillage()
	c := NewResourceClock(1)
	c.Advance(v, t0.Add(1500*time.Millisecond))
	if !v.Stock[domain.Wood].LastUpdated.Equal(t0.Add(time.Second)) {
		t.Fatalf("只应前移整秒: %v", v.Stock[domain.Wood].LastUpdated)
	}
	c.Advance(v, t0.Add(2*time.Second))
	if math.Abs(v.Stock[domain.Wood].Amount-(500+600.0*2/3600)) > 1e-9 {
		t.Fatalf("两次累计应等于 2 秒产出: %v", v.Stock[domain.Wood].Amount)
	}
}

func TestAdvance_单项非法不影响其他资源(t *testing.T) {
	v := woodVillage()
	v.Stock[domain.Clay].ProductionRate = -5
	v.Stock[domain.Iron].ProductionRate = 3600

	got := NewResourceClock(1).Advance(v, t0.Add(10*time.Second))
	if len(got.Rejected) != 1 || got.Rejected[0].Type != domain.Clay {
		t.Fatalf("期望拒绝 clay: %+v", got.Rejected)
	}
	if !errors.Is(got.Rejected[0].Err, domain.ErrInvariantViolation) {
		t.Fatalf("期望不变量错误, got=%v", got.Rejected[0].Err)
	}
	if v.Stock[domain.Clay].Amount != 100 || !v.Stock[domain.Clay].LastUpdated.Equal(t0) {
		t.Fatalf("被拒绝的资源应保持原样")
	}
	if v.Stock[domain.Iron].Amount != 110 {
		t.Fatalf("iron 应正常推进, got=%v", v.Stock[domain.Iron].Amount)
	}
}

func TestAdvance_不变量与单调性(t *testing.T) {
	c := NewResourceClock(1)
	for _, elapsed := range []time.Duration{0, time.Second, time.Minute, 47 * time.Minute, 72 * time.Hour} {
		v := woodVillage()
		before := v.Amounts()
		c.Advance(v, t0.Add(elapsed))
		for _, rt := range domain.ResourceTypes {
			s := v.Stock[rt]
			if s.Amount < 0 || s.Amount > s.Capacity {
				t.Fatalf("elapsed=%v %s 越界: %v", elapsed, rt, s.Amount)
			}
			if s.Amount < before[rt] {
				t.Fatalf("elapsed=%v %s 减少: %v -> %v", elapsed, rt, before[rt], s.Amount)
			}
		}
	}
}

func TestAdvance_世界速度倍率(t *testing.T) {
	v := woodVillage()
	NewResourceClock(3).Advance(v, t0.Add(time.Minute))
	if v.Stock[domain.Wood].Amount != 530 {
		t.Fatalf("3 倍速 1 分钟应产出 30, got=%v", v.Stock[domain.Wood].Amount)
	}
}

func TestSettle_对齐时间戳后扣费(t *testing.T) {
	v := woodVillage()
	v.Stock[domain.Wood].Amount = 1000
	c := NewResourceClock(1)
	now := t0.Add(time.Hour)

	if err := c.Settle(v, now); err != nil {
		t.Fatalf("settle err=%v", err)
	}
	for _, rt := range domain.ResourceTypes {
		if !v.Stock[rt].LastUpdated.Equal(now) {
			t.Fatalf("%s last_updated 未对齐", rt)
		}
	}
	if err := Spend(v, domain.NewResources(400, 0, 0, 0)); err != nil {
		t.Fatalf("spend err=%v", err)
	}
	// 满仓期间不补算产量
	c.Advance(v, now.Add(time.Minute))
	if v.Stock[domain.Wood].Amount != 610 {
		t.Fatalf("期望 610, got=%v", v.Stock[domain.Wood].Amount)
	}
}

func TestSpend_资源不足不修改(t *testing.T) {
	v := woodVillage()
	err := Spend(v, domain.NewResources(10, 10, 10, 1000))
	if !errors.Is(err, domain.ErrInsufficientResources) {
		t.Fatalf("期望资源不足, got=%v", err)
	}
	if v.Stock[domain.Wood].Amount != 500 {
		t.Fatalf("失败时不应扣费")
	}
}

func TestDeposit_按容量截断(t *testing.T) {
	v := woodVillage()
	got := Deposit(v, domain.NewResources(800, 50, 0, 0))
	if got[domain.Wood] != 500 || v.Stock[domain.Wood].Amount != 1000 {
		t.Fatalf("wood 应截断: got=%v amount=%v", got[domain.Wood], v.Stock[domain.Wood].Amount)
	}
	if got[domain.Clay] != 50 {
		t.Fatalf("clay 应全部入库")
	}
}

func TestAdvance_零值时间戳从当前开始计时(t *testing.T) {
	v := woodVillage()
	v.Stock[domain.Wood].LastUpdated = time.Time{}
	c := NewResourceClock(1)

	got := c.Advance(v, t0)
	if !got.Changed() || len(got.Updates) != 1 || got.Updates[0].Type != domain.Wood {
		t.Fatalf("首次推进应只打时间戳: %+v", got.Updates)
	}
	if v.Stock[domain.Wood].Amount != 500 || !v.Stock[domain.Wood].LastUpdated.Equal(t0) {
		t.Fatalf("wood=%+v", v.Stock[domain.Wood])
	}

	c.Advance(v, t0.Add(5*time.Minute))
	if v.Stock[domain.Wood].Amount != 550 {
		t.Fatalf("打过时间戳后应正常产出, got=%v", v.Stock[domain.Wood].Amount)
	}
}
