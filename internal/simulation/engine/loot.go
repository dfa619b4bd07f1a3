package engine

import (
	"VillageWars/internal/simulation/domain"
	"math"
)

const lootEpsilon = 1e-9

// ComputeLoot 计算掠夺量：每种资源最多取 fraction 比例，总量不超过 carry。
// 负重先平分到四种资源，某种取完后剩余额度再平分给其他资源，结果向下取整。
func ComputeLoot(stock domain.Resources, carry, fraction float64) domain.Resources {
	var loot domain.Resources
	if carry <= 0 || fraction <= 0 {
		return loot
	}
	if fraction > 1 {
		fraction = 1
	}

	var avail domain.Resources
	active := make([]domain.ResourceType, 0, len(domain.ResourceTypes))
	for _, t := range domain.ResourceTypes {
		avail[t] = math.Floor(math.Max(stock[t], 0) * fraction)
		if avail[t] > 0 {
			active = append(active, t)
		}
	}

	remaining := carry
	for remaining > lootEpsilon && len(active) > 0 {
		share := remaining / float64(len(active))
		next := active[:0]
		for _, t := range active {
			take := math.Min(avail[t]-loot[t], share)
			loot[t] += take
			remaining -= take
			if avail[t]-loot[t] > lootEpsilon {
				next = append(next, t)
			}
		}
		active = next
	}
	return loot.Floor()
}
