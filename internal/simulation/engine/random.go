package engine

import (
	"math/rand/v2"
	"sync"
)

// RandomSource 返回 [0,1) 的均匀随机数。
type RandomSource interface {
	Float64() float64
}

// lockedRand 让共享随机源可被并发的结算 goroutine 使用。
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRandomSource 返回并发安全的随机源，seed 固定时结果可复现。
func NewRandomSource(seed uint64) RandomSource {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FixedRandom 始终返回同一个值，测试用。
type FixedRandom float64

func (f FixedRandom) Float64() float64 {
	return float64(f)
}

// SequenceRandom 依次返回给定序列，用完后循环。
type SequenceRandom struct {
	mu     sync.Mutex
	values []float64
	i      int
}

func NewSequenceRandom(values ...float64) *SequenceRandom {
	return &SequenceRandom{values: values}
}

func (s *SequenceRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}
