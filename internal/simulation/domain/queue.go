package domain

import (
	"fmt"
	"time"
)

type QueueKind string

const (
	QueueBuilding QueueKind = "building"
	QueueTraining QueueKind = "training"
)

var QueueKinds = [...]QueueKind{QueueBuilding, QueueTraining}

type QueueStatus string

const (
	QueueInProgress QueueStatus = "in_progress"
	QueueCompleted  QueueStatus = "completed"
	QueueCancelled  QueueStatus = "cancelled"
)

var QueueStatuses = [...]QueueStatus{QueueInProgress, QueueCompleted, QueueCancelled}

func ParseQueueStatus(s string) (QueueStatus, error) {
	switch st := QueueStatus(s); st {
	case QueueInProgress, QueueCompleted, QueueCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown queue status %q", s)
	}
}

// BuildingQueueEntry 是一次建筑升级，扣费在入队时完成。
type BuildingQueueEntry struct {
	ID          int64
	VillageID   int64
	BuildingID  int64
	Kind        BuildingKind
	TargetLevel int
	StartedAt   time.Time
	CompletedAt time.Time
	Cost        Resources
	Status      QueueStatus
}

// TrainingQueueEntry 是一批训练，完成时一次性加到在家兵力。
type TrainingQueueEntry struct {
	ID          int64
	VillageID   int64
	Unit        UnitKind
	Quantity    int
	StartedAt   time.Time
	CompletedAt time.Time
	Cost        Resources
	Status      QueueStatus
}

// Due 判断是否到期可结算。
func (e BuildingQueueEntry) Due(now time.Time) bool {
	return e.Status == QueueInProgress && !e.CompletedAt.After(now)
}

func (e TrainingQueueEntry) Due(now time.Time) bool {
	return e.Status == QueueInProgress && !e.CompletedAt.After(now)
}
