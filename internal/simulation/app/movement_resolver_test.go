package app_test

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// 两村相距 1 格，剑士速度 30 格/小时，单程 120 秒。
func seedTwoVillages(t *testing.T, h *harness, attackerHome, defenderHome domain.Roster) {
	t.Helper()
	h.seedVillage(t, 1, 10, 0, 0, attackerHome)
	h.seedVillage(t, 2, 20, 1, 0, defenderHome)
}

func sendMovement(t *testing.T, h *harness, kind domain.MovementKind, roster domain.Roster) int64 {
	t.Helper()
	id, err := h.cmd.CreateMovement(context.Background(), app.CreateMovementCmd{
		PlayerID: 10, OriginID: 1, DestID: 2, Kind: kind, Roster: roster,
	})
	if err != nil {
		t.Fatalf("create movement: %v", err)
	}
	return id
}

func TestResolveArrivals_119秒不结算120秒结算一次(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 20}, nil)
	id := sendMovement(t, h, domain.MovementAttack, domain.Roster{"swordsman": 20})

	m := h.movement(t, id)
	if got := m.ArrivesAt.Sub(m.StartedAt); got != 120*time.Second {
		t.Fatalf("travel=%s", got)
	}

	if sum := h.runTick(t, t0.Add(119*time.Second)); sum.MovementsResolved != 0 {
		t.Fatalf("提前结算: %+v", sum)
	}
	if m := h.movement(t, id); m.Status != domain.MovementTravelling {
		t.Fatalf("status=%s", m.Status)
	}

	sum := h.runTick(t, t0.Add(120*time.Second))
	if sum.MovementsResolved != 1 || sum.BattlesResolved != 1 {
		t.Fatalf("summary=%+v", sum)
	}
	if sum := h.runTick(t, t0.Add(120*time.Second)); sum.MovementsResolved != 0 {
		t.Fatalf("重复结算: %+v", sum)
	}
	if m := h.movement(t, id); m.Status != domain.MovementCompleted {
		t.Fatalf("status=%s", m.Status)
	}
	if len(h.reports.All()) != 1 {
		t.Fatalf("应生成一份战报")
	}
}

func TestResolveArrivals_空城被掠夺后带货回程(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 20}, nil)
	sendMovement(t, h, domain.MovementAttack, domain.Roster{"swordsman": 20})

	h.runTick(t, t0.Add(120*time.Second))

	// 负重 1000，每种可抢 500，平分后各 250
	dest := h.village(t, 2)
	for _, rt := range domain.ResourceTypes {
		if got := dest.Stock[rt].Amount; got != 750 {
			t.Fatalf("%s 剩余=%v", rt, got)
		}
	}
	reps := h.reports.All()
	if len(reps) != 1 {
		t.Fatalf("reports=%d", len(reps))
	}
	rep := reps[0]
	if rep.Outcome.Winner != domain.AttackerWins || len(rep.Outcome.AttackerLosses) != 0 {
		t.Fatalf("outcome=%+v", rep.Outcome)
	}
	if rep.Outcome.Loot != domain.NewResources(250, 250, 250, 250) {
		t.Fatalf("loot=%v", rep.Outcome.Loot)
	}
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 0 || tr.InMovement != 20 {
		t.Fatalf("回程中兵力=%+v", *tr)
	}

	sum := h.runTick(t, t0.Add(240*time.Second))
	if sum.MovementsResolved != 1 || sum.BattlesResolved != 0 {
		t.Fatalf("summary=%+v", sum)
	}
	home := h.village(t, 1)
	if tr := home.Troop("swordsman"); tr.InVillage != 20 || tr.InMovement != 0 {
		t.Fatalf("回家兵力=%+v", *tr)
	}
	for _, rt := range domain.ResourceTypes {
		if got := home.Stock[rt].Amount; got != 1250 {
			t.Fatalf("%s 入库后=%v", rt, got)
		}
	}
}

func TestResolveArrivals_攻方全灭无回程(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 20}, domain.Roster{"swordsman": 30})
	sendMovement(t, h, domain.MovementAttack, domain.Roster{"swordsman": 20})

	h.runTick(t, t0.Add(120*time.Second))

	rep := h.reports.All()[0]
	if rep.Outcome.Winner != domain.DefenderWins {
		t.Fatalf("winner=%s", rep.Outcome.Winner)
	}
	// 640 对 1440，守方损失 round(30 * (640/1440)^1.5) = 9
	if rep.Outcome.DefenderLosses["swordsman"] != 9 {
		t.Fatalf("defender losses=%v", rep.Outcome.DefenderLosses)
	}
	if tr := h.village(t, 2).Troop("swordsman"); tr.InVillage != 21 {
		t.Fatalf("守军剩余=%d", tr.InVillage)
	}
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 0 || tr.InMovement != 0 {
		t.Fatalf("攻方兵力=%+v", *tr)
	}
	if sum := h.runTick(t, t0.Add(time.Hour)); sum.MovementsResolved != 0 {
		t.Fatalf("不应有回程: %+v", sum)
	}
	for _, name := range h.pub.names() {
		if name == domain.EventMovementArrived {
			t.Fatalf("events=%v", h.pub.names())
		}
	}
}

func TestResolveArrivals_增援部队转入目标村(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 8}, nil)
	sendMovement(t, h, domain.MovementReinforce, domain.Roster{"swordsman": 5})

	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 3 || tr.InMovement != 5 {
		t.Fatalf("出发后=%+v", *tr)
	}
	sum := h.runTick(t, t0.Add(120*time.Second))
	if sum.MovementsResolved != 1 || sum.BattlesResolved != 0 {
		t.Fatalf("summary=%+v", sum)
	}
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 3 || tr.InMovement != 0 {
		t.Fatalf("出发村=%+v", *tr)
	}
	if tr := h.village(t, 2).Troop("swordsman"); tr.InVillage != 5 {
		t.Fatalf("目标村=%+v", *tr)
	}
}

func TestResolveArrivals_并发tick只结算一次(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 20}, nil)
	sendMovement(t, h, domain.MovementAttack, domain.Roster{"swordsman": 20})

	at := t0.Add(120 * time.Second)
	var wg sync.WaitGroup
	var mu sync.Mutex
	resolved, battles := 0, 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sum, err := h.tick.RunTick(context.Background(), at)
			if err != nil {
				t.Errorf("tick: %v", err)
				return
			}
			mu.Lock()
			resolved += sum.MovementsResolved
			battles += sum.BattlesResolved
			mu.Unlock()
		}()
	}
	wg.Wait()

	if resolved != 1 || battles != 1 {
		t.Fatalf("resolved=%d battles=%d", resolved, battles)
	}
	if n := len(h.reports.All()); n != 1 {
		t.Fatalf("战报数=%d", n)
	}
	// 只有一条回程，兵力只扣一次
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 0 || tr.InMovement != 20 {
		t.Fatalf("出发村兵力=%+v", *tr)
	}
	if sum := h.runTick(t, t0.Add(240*time.Second)); sum.MovementsResolved != 1 {
		t.Fatalf("回程应结算一次: %+v", sum)
	}
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 20 || tr.InMovement != 0 {
		t.Fatalf("回家兵力=%+v", *tr)
	}
}

func TestCancelMovement_与结算抢占互斥(t *testing.T) {
	cancelled, resolvedByTick := 0, 0
	for round := 0; round < 20; round++ {
		h := newHarness(t)
		seedTwoVillages(t, h, domain.Roster{"swordsman": 20}, nil)
		id := sendMovement(t, h, domain.MovementAttack, domain.Roster{"swordsman": 20})
		// 指令侧时钟尚未到达，结算侧按到达时刻跑，两边都有资格抢
		h.clk.Set(t0.Add(119 * time.Second))

		var wg sync.WaitGroup
		var cancelErr error
		var sum app.TickSummary
		wg.Add(2)
		go func() {
			defer wg.Done()
			cancelErr = h.cmd.CancelMovement(context.Background(), 10, id)
		}()
		go func() {
			defer wg.Done()
			var err error
			sum, err = h.tick.RunTick(context.Background(), t0.Add(120*time.Second))
			if err != nil {
				t.Errorf("tick: %v", err)
			}
		}()
		wg.Wait()

		tr := h.village(t, 1).Troop("swordsman")
		m := h.movement(t, id)
		switch {
		case cancelErr == nil:
			cancelled++
			if sum.MovementsResolved != 0 || len(h.reports.All()) != 0 {
				t.Fatalf("取消成功后不应再结算: %+v", sum)
			}
			if m.Status != domain.MovementCancelled || tr.InVillage != 20 || tr.InMovement != 0 {
				t.Fatalf("status=%s troops=%+v", m.Status, *tr)
			}
		case errors.Is(cancelErr, domain.ErrTooLate):
			resolvedByTick++
			if sum.MovementsResolved != 1 || len(h.reports.All()) != 1 {
				t.Fatalf("结算应恰好一次: %+v", sum)
			}
			if m.Status != domain.MovementCompleted || tr.InVillage != 0 || tr.InMovement != 20 {
				t.Fatalf("status=%s troops=%+v", m.Status, *tr)
			}
		default:
			t.Fatalf("cancel err=%v", cancelErr)
		}
	}
	if cancelled+resolvedByTick != 20 {
		t.Fatalf("cancelled=%d resolved=%d", cancelled, resolvedByTick)
	}
}

func TestResolveArrivals_支援部队转入目标村(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 6}, domain.Roster{"swordsman": 2})
	sendMovement(t, h, domain.MovementSupport, domain.Roster{"swordsman": 6})

	sum := h.runTick(t, t0.Add(120*time.Second))
	if sum.MovementsResolved != 1 || sum.BattlesResolved != 0 {
		t.Fatalf("summary=%+v", sum)
	}
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 0 || tr.InMovement != 0 {
		t.Fatalf("出发村=%+v", *tr)
	}
	if tr := h.village(t, 2).Troop("swordsman"); tr.InVillage != 8 {
		t.Fatalf("目标村=%+v", *tr)
	}
	if len(h.reports.All()) != 0 {
		t.Fatalf("支援不应生成战报")
	}
}

func TestResolveArrivals_攻方胜且有损失(t *testing.T) {
	h := newHarness(t)
	seedTwoVillages(t, h, domain.Roster{"swordsman": 30}, domain.Roster{"swordsman": 10})
	sendMovement(t, h, domain.MovementAttack, domain.Roster{"swordsman": 30})

	h.runTick(t, t0.Add(120*time.Second))

	rep := h.reports.All()[0]
	if rep.Outcome.Winner != domain.AttackerWins {
		t.Fatalf("winner=%s", rep.Outcome.Winner)
	}
	// 960 对 480，攻方损失 round(30 * 0.5^1.5) = 11，守方全灭
	if rep.Outcome.AttackerLosses["swordsman"] != 11 || rep.Outcome.DefenderLosses["swordsman"] != 10 {
		t.Fatalf("losses a=%v d=%v", rep.Outcome.AttackerLosses, rep.Outcome.DefenderLosses)
	}
	if tr := h.village(t, 2).Troop("swordsman"); tr.InVillage != 0 {
		t.Fatalf("守军剩余=%d", tr.InVillage)
	}
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 0 || tr.InMovement != 19 {
		t.Fatalf("回程兵力=%+v", *tr)
	}
	loot := rep.Outcome.Loot
	if total := loot.Total(); total <= 0 || total > 19*50 {
		t.Fatalf("掠夺超出负重: %v", loot)
	}

	h.runTick(t, t0.Add(240*time.Second))
	if tr := h.village(t, 1).Troop("swordsman"); tr.InVillage != 19 || tr.InMovement != 0 {
		t.Fatalf("回家兵力=%+v", *tr)
	}
}
