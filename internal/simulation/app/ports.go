package app

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/modules/kit/logx"
	"context"
	"time"
)

type Logger = logx.Logger

type VillageRepo interface {
	Create(ctx context.Context, v *domain.Village) error
	Get(ctx context.Context, id int64) (*domain.Village, error)
	// GetForUpdate 在事务内加行锁读取村庄。
	GetForUpdate(ctx context.Context, id int64) (*domain.Village, error)
	ListIDs(ctx context.Context, afterID int64, limit int) ([]int64, error)
	Save(ctx context.Context, v *domain.Village) error
	SaveStockpiles(ctx context.Context, villageID int64, stock []domain.Stockpile) error
}

type QueueRepo interface {
	CreateBuilding(ctx context.Context, e *domain.BuildingQueueEntry) error
	CreateTraining(ctx context.Context, e *domain.TrainingQueueEntry) error
	GetBuilding(ctx context.Context, id int64) (*domain.BuildingQueueEntry, error)
	GetTraining(ctx context.Context, id int64) (*domain.TrainingQueueEntry, error)
	// DueBuilding 按 id 升序返回 id > afterID 且已到期的进行中条目。
	DueBuilding(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.BuildingQueueEntry, error)
	DueTraining(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.TrainingQueueEntry, error)
	// TransitionBuilding 条件更新 status=from -> to，返回是否抢到。
	TransitionBuilding(ctx context.Context, id int64, from, to domain.QueueStatus) (bool, error)
	TransitionTraining(ctx context.Context, id int64, from, to domain.QueueStatus) (bool, error)
	BuildingInProgress(ctx context.Context, buildingID int64) (bool, error)
	// LastTrainingEnd 返回村庄进行中训练的最晚完成时间，没有则为零值。
	LastTrainingEnd(ctx context.Context, villageID int64) (time.Time, error)
	PendingBuilding(ctx context.Context, villageID int64) ([]domain.BuildingQueueEntry, error)
	PendingTraining(ctx context.Context, villageID int64) ([]domain.TrainingQueueEntry, error)
	// RescheduleTraining 改写进行中训练条目的起止时间，条目已不在进行中时返回 false。
	RescheduleTraining(ctx context.Context, id int64, startedAt, completedAt time.Time) (bool, error)
}

type MovementRepo interface {
	Create(ctx context.Context, m *domain.Movement) error
	Get(ctx context.Context, id int64) (*domain.Movement, error)
	Due(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.Movement, error)
	Transition(ctx context.Context, id int64, from, to domain.MovementStatus) (bool, error)
	// Active 返回与村庄相关（出发或目标）的在途行军。
	Active(ctx context.Context, villageID int64) ([]domain.Movement, error)
}

// ReportRepo 不参与事务，战报在结算提交后写入。
type ReportRepo interface {
	Save(ctx context.Context, r *domain.Report) error
	Get(ctx context.Context, id int64) (*domain.Report, error)
}

type Repos struct {
	Villages  VillageRepo
	Queues    QueueRepo
	Movements MovementRepo
}

// UnitOfWork 在一个事务内执行 fn，fn 返回错误时整体回滚。不可嵌套调用。
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

type IDGenerator interface {
	NextID() int64
}

// EventPublisher 只能在事务提交后调用，实现不得阻塞结算。
type EventPublisher interface {
	Publish(ctx context.Context, events []domain.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []domain.Event) {}
