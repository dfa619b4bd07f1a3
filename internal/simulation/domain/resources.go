package domain

import (
	"fmt"
	"math"
	"time"
)

type ResourceType uint8

const (
	Wood ResourceType = iota
	Clay
	Iron
	Crop
)

// ResourceTypes 固定遍历顺序。
var ResourceTypes = [...]ResourceType{Wood, Clay, Iron, Crop}

func (t ResourceType) String() string {
	switch t {
	case Wood:
		return "wood"
	case Clay:
		return "clay"
	case Iron:
		return "iron"
	case Crop:
		return "crop"
	default:
		return fmt.Sprintf("resource(%d)", uint8(t))
	}
}

func (t ResourceType) Valid() bool {
	return t <= Crop
}

func ParseResourceType(s string) (ResourceType, error) {
	for _, t := range ResourceTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q", s)
}

// Resources 是四种资源的数量组合，下标为 ResourceType。
type Resources [4]float64

func NewResources(wood, clay, iron, crop float64) Resources {
	return Resources{wood, clay, iron, crop}
}

func (r Resources) Get(t ResourceType) float64 {
	return r[t]
}

func (r Resources) Add(o Resources) Resources {
	for i := range r {
		r[i] += o[i]
	}
	return r
}

func (r Resources) Sub(o Resources) Resources {
	for i := range r {
		r[i] -= o[i]
	}
	return r
}

func (r Resources) Scale(f float64) Resources {
	for i := range r {
		r[i] *= f
	}
	return r
}

// Floor 向下取整到整数单位。
func (r Resources) Floor() Resources {
	for i := range r {
		r[i] = math.Floor(r[i])
	}
	return r
}

// Covers 判断 r 是否每一项都不少于 need。
func (r Resources) Covers(need Resources) bool {
	for i := range r {
		if r[i] < need[i] {
			return false
		}
	}
	return true
}

func (r Resources) Total() float64 {
	return r[0] + r[1] + r[2] + r[3]
}

func (r Resources) IsZero() bool {
	return r == Resources{}
}

func (r Resources) Map() map[string]float64 {
	out := make(map[string]float64, len(r))
	for _, t := range ResourceTypes {
		out[t.String()] = r[t]
	}
	return out
}

// Stockpile 是村庄单一资源的库存行。
// 不变量：0 <= Amount <= Capacity。ProductionRate 单位为每小时。
type Stockpile struct {
	Type           ResourceType
	Amount         float64
	ProductionRate float64
	Capacity       float64
	LastUpdated    time.Time
}

// Validate 检查库存行是否处于合法状态。
func (s Stockpile) Validate() error {
	switch {
	case !s.Type.Valid():
		return ErrInvariantViolation.WithData("resource", s.Type.String())
	case isBad(s.Amount) || s.Amount < 0:
		return ErrInvariantViolation.WithData("resource", s.Type.String()).WithData("amount", s.Amount)
	case isBad(s.Capacity) || s.Capacity < 0:
		return ErrInvariantViolation.WithData("resource", s.Type.String()).WithData("capacity", s.Capacity)
	case isBad(s.ProductionRate) || s.ProductionRate < 0:
		return ErrInvariantViolation.WithData("resource", s.Type.String()).WithData("production_rate", s.ProductionRate)
	}
	return nil
}

func isBad(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
