package engine

import (
	"VillageWars/internal/simulation/domain"
	"math"
	"time"
)

const secondsPerHour = 3600

// ResourceUpdate 记录单个资源的推进结果。
type ResourceUpdate struct {
	Type        domain.ResourceType
	Before      float64
	After       float64
	Elapsed     int64 // 整秒
	LastUpdated time.Time
}

// ResourceRejection 记录被拒绝推进的资源行，该行保持原样。
type ResourceRejection struct {
	Type domain.ResourceType
	Err  error
}

// UpdatedResources 是一次 Advance 的结果，Updates 只包含需要改写的资源行：
// 数量发生变化，或首次打上 last_updated。
type UpdatedResources struct {
	VillageID int64
	Updates   []ResourceUpdate
	Rejected  []ResourceRejection
}

func (u UpdatedResources) Changed() bool {
	return len(u.Updates) > 0
}

// ResourceClock 按流逝时间推进村庄库存。Speed 为世界速度倍率。
type ResourceClock struct {
	Speed float64
}

func NewResourceClock(speed float64) ResourceClock {
	if speed <= 0 {
		speed = 1
	}
	return ResourceClock{Speed: speed}
}

// Advance 把四种资源推进到 now，原地修改 v.Stock。
// 数量不变时不改写该行；单个资源非法时跳过该资源并记入 Rejected，不影响其他资源。
// last_updated 为零值的行从 now 开始计时，本次不产出。
func (c ResourceClock) Advance(v *domain.Village, now time.Time) UpdatedResources {
	out := UpdatedResources{VillageID: v.ID}
	for _, t := range domain.ResourceTypes {
		next, changed, err := c.advanceOne(v.Stock[t], now)
		if err != nil {
			out.Rejected = append(out.Rejected, ResourceRejection{Type: t, Err: err})
			continue
		}
		if !changed {
			continue
		}
		out.Updates = append(out.Updates, ResourceUpdate{
			Type:        t,
			Before:      v.Stock[t].Amount,
			After:       next.Amount,
			Elapsed:     int64(next.LastUpdated.Sub(v.Stock[t].LastUpdated) / time.Second),
			LastUpdated: next.LastUpdated,
		})
		v.Stock[t] = next
	}
	return out
}

// Settle 推进到 now 并把所有资源的 last_updated 对齐到 now。
// 扣费、退款、容量变化之前必须先 Settle，否则下次推进会按新容量补算旧时段的产量。
func (c ResourceClock) Settle(v *domain.Village, now time.Time) error {
	for _, t := range domain.ResourceTypes {
		next, _, err := c.advanceOne(v.Stock[t], now)
		if err != nil {
			return err
		}
		if next.LastUpdated.Before(now) {
			next.LastUpdated = now
		}
		v.Stock[t] = next
	}
	return nil
}

func (c ResourceClock) advanceOne(s domain.Stockpile, now time.Time) (domain.Stockpile, bool, error) {
	if err := s.Validate(); err != nil {
		return s, false, err
	}
	if s.LastUpdated.IsZero() {
		s.LastUpdated = now
		return s, true, nil
	}

	elapsed := wholeSeconds(s.LastUpdated, now)
	if elapsed == 0 {
		return s, false, nil
	}

	speed := c.Speed
	if speed <= 0 {
		speed = 1
	}
	produced := s.ProductionRate * speed * float64(elapsed) / secondsPerHour
	amount := s.Amount + produced
	if math.IsInf(amount, 0) || math.IsNaN(amount) || amount > s.Capacity {
		amount = s.Capacity
	}
	if amount == s.Amount {
		return s, false, nil
	}

	s.Amount = amount
	// 只前移整秒，不足一秒的余数留给下一次。
	s.LastUpdated = s.LastUpdated.Add(time.Duration(elapsed) * time.Second)
	return s, true, nil
}

// wholeSeconds 返回 last 到 now 的整秒数，last 在未来时为 0。
func wholeSeconds(last, now time.Time) int64 {
	if !now.After(last) {
		return 0
	}
	return int64(now.Sub(last) / time.Second)
}

// Deposit 在 Settle 之后加入资源，按容量截断，返回实际入库量。
func Deposit(v *domain.Village, add domain.Resources) domain.Resources {
	var got domain.Resources
	for _, t := range domain.ResourceTypes {
		if add[t] <= 0 {
			continue
		}
		s := &v.Stock[t]
		room := s.Capacity - s.Amount
		if room <= 0 {
			continue
		}
		n := math.Min(room, add[t])
		s.Amount += n
		got[t] = n
	}
	return got
}

// Spend 在 Settle 之后扣除资源，不足时不修改并返回 ErrInsufficientResources。
func Spend(v *domain.Village, cost domain.Resources) error {
	have := v.Amounts()
	if !have.Covers(cost) {
		return domain.ErrInsufficientResources.
			WithData("village_id", v.ID).
			WithData("have", have.Map()).
			WithData("need", cost.Map())
	}
	for _, t := range domain.ResourceTypes {
		v.Stock[t].Amount -= cost[t]
	}
	return nil
}
