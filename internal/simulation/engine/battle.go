package engine

import (
	"VillageWars/internal/simulation/domain"
	"math"
)

const (
	DefaultVarianceMin = 0.8
	DefaultVarianceMax = 1.2

	// 胜方损失比例 = (弱方战力/强方战力)^winnerLossExponent
	winnerLossExponent = 1.5
)

// BattleResolver 比较双方战力并计算损失，除两次随机抽取外没有隐藏状态。
type BattleResolver struct {
	catalog     domain.Catalog
	rand        RandomSource
	varianceMin float64
	varianceMax float64
}

func NewBattleResolver(catalog domain.Catalog, rnd RandomSource, varianceMin, varianceMax float64) *BattleResolver {
	if varianceMin <= 0 || varianceMax < varianceMin {
		varianceMin, varianceMax = DefaultVarianceMin, DefaultVarianceMax
	}
	if rnd == nil {
		rnd = NewRandomSource(0)
	}
	return &BattleResolver{
		catalog:     catalog,
		rand:        rnd,
		varianceMin: varianceMin,
		varianceMax: varianceMax,
	}
}

// Resolve 先抽攻方、后抽守方的浮动系数。
//
// 损失规则：
//   - 胜方按 r^1.5 比例损失，r = 败方战力/胜方战力
//   - 败方全灭
//   - 平局双方全灭
//   - 每个兵种按比例四舍五入，并限定在 [0, 数量]
func (b *BattleResolver) Resolve(attacker, defender domain.Roster, defenseBonus float64) (domain.BattleOutcome, error) {
	if err := attacker.Validate(); err != nil {
		return domain.BattleOutcome{}, err
	}
	if defenseBonus < 0 || math.IsNaN(defenseBonus) || math.IsInf(defenseBonus, 0) {
		return domain.BattleOutcome{}, domain.ErrInvariantViolation.WithData("defense_bonus", defenseBonus)
	}

	rawAttack, err := b.attackPower(attacker)
	if err != nil {
		return domain.BattleOutcome{}, err
	}
	rawDefense, err := b.defensePower(defender)
	if err != nil {
		return domain.BattleOutcome{}, err
	}

	varA := b.variance()
	varD := b.variance()
	out := domain.BattleOutcome{
		AttackerPower:    rawAttack * varA,
		DefenderPower:    rawDefense * (1 + defenseBonus) * varD,
		AttackerVariance: varA,
		DefenderVariance: varD,
	}

	var attackerFrac, defenderFrac float64
	switch {
	case out.AttackerPower > out.DefenderPower:
		out.Winner = domain.AttackerWins
		attackerFrac = math.Pow(out.DefenderPower/out.AttackerPower, winnerLossExponent)
		defenderFrac = 1
	case out.AttackerPower < out.DefenderPower:
		out.Winner = domain.DefenderWins
		attackerFrac = 1
		defenderFrac = math.Pow(out.AttackerPower/out.DefenderPower, winnerLossExponent)
	default:
		out.Winner = domain.Draw
		attackerFrac, defenderFrac = 1, 1
	}

	out.AttackerLosses = LossesFor(attacker, attackerFrac)
	out.DefenderLosses = LossesFor(defender, defenderFrac)
	return out, nil
}

func (b *BattleResolver) variance() float64 {
	return b.varianceMin + (b.varianceMax-b.varianceMin)*b.rand.Float64()
}

func (b *BattleResolver) attackPower(r domain.Roster) (float64, error) {
	total := 0.0
	for unit, n := range r {
		spec, ok := b.catalog.Unit(unit)
		if !ok {
			return 0, domain.ErrUnitTypeUnknown.WithData("unit", string(unit))
		}
		total += float64(n) * spec.Attack
	}
	return total, nil
}

func (b *BattleResolver) defensePower(r domain.Roster) (float64, error) {
	total := 0.0
	for unit, n := range r {
		if n < 0 {
			return 0, domain.ErrInvariantViolation.WithData("unit", string(unit)).WithData("count", n)
		}
		spec, ok := b.catalog.Unit(unit)
		if !ok {
			return 0, domain.ErrUnitTypeUnknown.WithData("unit", string(unit))
		}
		total += float64(n) * (spec.DefenseInfantry + spec.DefenseCavalry)
	}
	return total, nil
}

// LossesFor 按比例计算每个兵种的损失，结果在 [0, 数量] 之间。
func LossesFor(r domain.Roster, frac float64) domain.Roster {
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	out := make(domain.Roster, len(r))
	for unit, n := range r {
		if n <= 0 {
			continue
		}
		lost := int(math.Round(float64(n) * frac))
		if lost > n {
			lost = n
		}
		if lost > 0 {
			out[unit] = lost
		}
	}
	return out
}

// CarryCapacity 计算部队总负重。
func CarryCapacity(r domain.Roster, catalog domain.Catalog) (float64, error) {
	total := 0.0
	for unit, n := range r {
		spec, ok := catalog.Unit(unit)
		if !ok {
			return 0, domain.ErrUnitTypeUnknown.WithData("unit", string(unit))
		}
		total += float64(n) * spec.Carry
	}
	return total, nil
}
