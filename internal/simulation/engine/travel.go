package engine

import (
	"VillageWars/internal/simulation/domain"
	"math"
	"time"
)

// Distance 返回两点的欧氏距离（格）。
func Distance(ax, ay, bx, by int) float64 {
	return math.Hypot(float64(ax-bx), float64(ay-by))
}

// SlowestSpeed 返回名单中最慢兵种的速度。
func SlowestSpeed(r domain.Roster, catalog domain.Catalog) (float64, error) {
	slowest := math.Inf(1)
	for unit, n := range r {
		if n <= 0 {
			continue
		}
		spec, ok := catalog.Unit(unit)
		if !ok {
			return 0, domain.ErrUnitTypeUnknown.WithData("unit", string(unit))
		}
		if spec.Speed < slowest {
			slowest = spec.Speed
		}
	}
	if math.IsInf(slowest, 1) || slowest <= 0 {
		return 0, domain.ErrInvalidRoster.WithData("detail", "no moving units")
	}
	return slowest, nil
}

// TravelDuration = 距离 / (速度 × 世界速度)，取整到秒，最少 1 秒。
func TravelDuration(distance, speed, worldSpeed float64) time.Duration {
	if worldSpeed <= 0 {
		worldSpeed = 1
	}
	if speed <= 0 {
		return time.Second
	}
	secs := math.Round(distance / (speed * worldSpeed) * secondsPerHour)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// ScaleDuration 按世界速度缩短建造/训练时间，最少 1 秒。
func ScaleDuration(d time.Duration, worldSpeed float64) time.Duration {
	if worldSpeed <= 0 {
		worldSpeed = 1
	}
	scaled := time.Duration(math.Round(float64(d) / worldSpeed / float64(time.Second))) * time.Second
	if scaled < time.Second {
		scaled = time.Second
	}
	return scaled
}
