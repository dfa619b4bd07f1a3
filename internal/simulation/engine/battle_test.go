package engine

import (
	"VillageWars/internal/simulation/domain"
	"errors"
	"math"
	"testing"
)

func TestResolve_最不利浮动下强方仍获胜(t *testing.T) {
	cat := testCatalog()
	// 攻 100*40*0.8 = 3200，守 50*40*1.2 = 2400
	attacker := domain.Roster{"swordsman": 100}
	defender := domain.Roster{"swordsman": 50}

	b := NewBattleResolver(cat, NewSequenceRandom(0, 0.999999999), 0.8, 1.2)
	out, err := b.Resolve(attacker, defender, 0)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Winner != domain.AttackerWins {
		t.Fatalf("期望攻方胜, got=%s", out.Winner)
	}
	if out.DefenderLosses["swordsman"] != 50 {
		t.Fatalf("败方应全灭: %v", out.DefenderLosses)
	}
	if l := out.AttackerLosses["swordsman"]; l <= 0 || l >= 100 {
		t.Fatalf("胜方应有部分损失: %d", l)
	}
}

func TestResolve_守方对称情形(t *testing.T) {
	cat := testCatalog()
	attacker := domain.Roster{"swordsman": 50}
	defender := domain.Roster{"swordsman": 100}

	// 攻方抽到最大，守方抽到最小
	b := NewBattleResolver(cat, NewSequenceRandom(0.999999999, 0), 0.8, 1.2)
	out, err := b.Resolve(attacker, defender, 0)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Winner != domain.DefenderWins {
		t.Fatalf("期望守方胜, got=%s", out.Winner)
	}
	if out.AttackerLosses["swordsman"] != 50 {
		t.Fatalf("攻方应全灭: %v", out.AttackerLosses)
	}
}

func TestResolve_相同兵力相同浮动为平局(t *testing.T) {
	cat := testCatalog()
	roster := domain.Roster{"swordsman": 30}

	b := NewBattleResolver(cat, FixedRandom(0.5), 0.8, 1.2)
	out, err := b.Resolve(roster, roster, 0)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Winner != domain.Draw {
		t.Fatalf("期望平局, got=%s (%v vs %v)", out.Winner, out.AttackerPower, out.DefenderPower)
	}
	if out.AttackerLosses["swordsman"] != 30 || out.DefenderLosses["swordsman"] != 30 {
		t.Fatalf("平局双方全灭: %v %v", out.AttackerLosses, out.DefenderLosses)
	}
}

func TestResolve_城防加成(t *testing.T) {
	cat := testCatalog()
	b := NewBattleResolver(cat, FixedRandom(0.5), 0.8, 1.2)
	out, err := b.Resolve(domain.Roster{"swordsman": 10}, domain.Roster{"swordsman": 10}, 0.1)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Winner != domain.DefenderWins {
		t.Fatalf("加成后守方应胜, got=%s", out.Winner)
	}
	if math.Abs(out.DefenderPower-440) > 1e-9 {
		t.Fatalf("守方战力不符: %v", out.DefenderPower)
	}
}

func TestResolve_空守军无损失(t *testing.T) {
	b := NewBattleResolver(testCatalog(), FixedRandom(0.3), 0.8, 1.2)
	out, err := b.Resolve(domain.Roster{"rider": 5}, domain.Roster{}, 0)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.Winner != domain.AttackerWins || len(out.AttackerLosses) != 0 {
		t.Fatalf("空村应无损获胜: %+v", out)
	}
}

func TestResolve_损失始终在数量范围内(t *testing.T) {
	cat := testCatalog()
	rnd := NewRandomSource(42)
	b := NewBattleResolver(cat, rnd, 0.8, 1.2)
	for i := 1; i <= 200; i++ {
		attacker := domain.Roster{"swordsman": i, "rider": i % 7}
		defender := domain.Roster{"spearman": 150 - i/2, "swordsman": i % 11}
		out, err := b.Resolve(attacker.Minus(nil), defender, float64(i%5)*0.03)
		if err != nil {
			t.Fatalf("i=%d err=%v", i, err)
		}
		for unit, lost := range out.AttackerLosses {
			if lost < 0 || lost > attacker[unit] {
				t.Fatalf("i=%d 攻方 %s 损失越界: %d/%d", i, unit, lost, attacker[unit])
			}
		}
		for unit, lost := range out.DefenderLosses {
			if lost < 0 || lost > defender[unit] {
				t.Fatalf("i=%d 守方 %s 损失越界: %d/%d", i, unit, lost, defender[unit])
			}
		}
		if v := out.AttackerVariance; v < 0.8 || v > 1.2 {
			t.Fatalf("浮动越界: %v", v)
		}
	}
}

func TestResolve_未知兵种与空名单(t *testing.T) {
	b := NewBattleResolver(testCatalog(), FixedRandom(0.5), 0.8, 1.2)
	if _, err := b.Resolve(domain.Roster{"ghost": 1}, nil, 0); !errors.Is(err, domain.ErrUnitTypeUnknown) {
		t.Fatalf("期望未知兵种, got=%v", err)
	}
	if _, err := b.Resolve(domain.Roster{}, nil, 0); !errors.Is(err, domain.ErrInvalidRoster) {
		t.Fatalf("期望名单非法, got=%v", err)
	}
}

func TestLossesFor_边界(t *testing.T) {
	r := domain.Roster{"a": 3, "b": 1}
	if got := LossesFor(r, 2); got["a"] != 3 || got["b"] != 1 {
		t.Fatalf("比例 >1 应截断: %v", got)
	}
	if got := LossesFor(r, -1); len(got) != 0 {
		t.Fatalf("负比例应为零损失: %v", got)
	}
}
