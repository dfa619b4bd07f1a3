package utils

import (
	"fmt"
	"sync"
	"time"
)

// id 布局：41 位毫秒时间 | 10 位节点 | 12 位序号。
const (
	idEpoch = int64(1735689600000) // 2025-01-01 UTC

	nodeBits = 10
	seqBits  = 12

	maxNodeID = int64(1)<<nodeBits - 1
	seqMask   = int64(1)<<seqBits - 1
)

// Snowflake 生成队列条目、行军、战报的 id，mysql/memory/mongo 共用同一套。
type Snowflake struct {
	mu     sync.Mutex
	node   int64
	now    func() time.Time
	lastMs int64
	seq    int64
}

func NewSnowflake(node int64) (*Snowflake, error) {
	return NewSnowflakeWithClock(node, time.Now)
}

// NewSnowflakeWithClock 指定时间来源，测试里冻结时间用。
func NewSnowflakeWithClock(node int64, now func() time.Time) (*Snowflake, error) {
	if node < 0 || node > maxNodeID {
		return nil, fmt.Errorf("snowflake node %d out of [0,%d]", node, maxNodeID)
	}
	if now == nil {
		now = time.Now
	}
	return &Snowflake{node: node, now: now}, nil
}

// NextID 单调递增。时钟回拨或同一毫秒序号用尽时，借用下一毫秒而不是等待。
func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	switch {
	case ms > s.lastMs:
		s.lastMs, s.seq = ms, 0
	default:
		s.seq = (s.seq + 1) & seqMask
		if s.seq == 0 {
			s.lastMs++
		}
	}
	return (s.lastMs-idEpoch)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq
}

// Node 从 id 中取出节点号。
func Node(id int64) int64 {
	return id >> seqBits & maxNodeID
}
