package clock

import (
	"sync"
	"time"
)

// Clock 是唯一的"当前时间"来源，结算逻辑一律通过参数拿 now，不直接读 time.Now。
type Clock interface {
	Now() time.Time
}

// System 返回 UTC 墙钟时间。
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Manual 是可手动拨动的时钟，测试里模拟任意流逝时间。
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
