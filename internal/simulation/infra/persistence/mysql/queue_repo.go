package mysql

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type QueueRepo struct {
	db *gorm.DB
}

func NewQueueRepo(db *gorm.DB) *QueueRepo {
	return &QueueRepo{db: db}
}

const (
	OpCreateQueue     = "repo.queue.Create"
	OpGetQueue        = "repo.queue.Get"
	OpDueQueue        = "repo.queue.Due"
	OpTransitionQueue = "repo.queue.Transition"
	OpPendingQueue    = "repo.queue.Pending"
	OpRescheduleQueue = "repo.queue.Reschedule"
)

func (r *QueueRepo) CreateBuilding(ctx context.Context, e *domain.BuildingQueueEntry) error {
	if err := r.db.WithContext(ctx).Create(buildingQueueToModel(e)).Error; err != nil {
		return infraErr(OpCreateQueue, err, "entry_id", e.ID)
	}
	return nil
}

func (r *QueueRepo) CreateTraining(ctx context.Context, e *domain.TrainingQueueEntry) error {
	if err := r.db.WithContext(ctx).Create(trainingQueueToModel(e)).Error; err != nil {
		return infraErr(OpCreateQueue, err, "entry_id", e.ID)
	}
	return nil
}

func (r *QueueRepo) GetBuilding(ctx context.Context, id int64) (*domain.BuildingQueueEntry, error) {
	var m model.BuildingQueue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		e, err := buildingQueueFromModel(&m)
		if err != nil {
			return nil, err
		}
		return &e, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrQueueEntryNotFound.WithData("entry_id", id)
	default:
		return nil, infraErr(OpGetQueue, err, "entry_id", id)
	}
}

func (r *QueueRepo) GetTraining(ctx context.Context, id int64) (*domain.TrainingQueueEntry, error) {
	var m model.TrainingQueue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		e, err := trainingQueueFromModel(&m)
		if err != nil {
			return nil, err
		}
		return &e, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrQueueEntryNotFound.WithData("entry_id", id)
	default:
		return nil, infraErr(OpGetQueue, err, "entry_id", id)
	}
}

func (r *QueueRepo) DueBuilding(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.BuildingQueueEntry, error) {
	var rows []model.BuildingQueue
	err := r.db.WithContext(ctx).
		Where("status = ? AND completed_at <= ? AND id > ?", string(domain.QueueInProgress), now, afterID).
		Order("id").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, infraErr(OpDueQueue, err, "queue", "building")
	}
	out := make([]domain.BuildingQueueEntry, 0, len(rows))
	for i := range rows {
		e, err := buildingQueueFromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *QueueRepo) DueTraining(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.TrainingQueueEntry, error) {
	var rows []model.TrainingQueue
	err := r.db.WithContext(ctx).
		Where("status = ? AND completed_at <= ? AND id > ?", string(domain.QueueInProgress), now, afterID).
		Order("id").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, infraErr(OpDueQueue, err, "queue", "training")
	}
	out := make([]domain.TrainingQueueEntry, 0, len(rows))
	for i := range rows {
		e, err := trainingQueueFromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// TransitionBuilding 用条件更新抢占条目，受影响行数为 1 才算抢到。
func (r *QueueRepo) TransitionBuilding(ctx context.Context, id int64, from, to domain.QueueStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.BuildingQueue{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, infraErr(OpTransitionQueue, res.Error, "entry_id", id)
	}
	return res.RowsAffected == 1, nil
}

func (r *QueueRepo) TransitionTraining(ctx context.Context, id int64, from, to domain.QueueStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TrainingQueue{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, infraErr(OpTransitionQueue, res.Error, "entry_id", id)
	}
	return res.RowsAffected == 1, nil
}

func (r *QueueRepo) BuildingInProgress(ctx context.Context, buildingID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BuildingQueue{}).
		Where("building_id = ? AND status = ?", buildingID, string(domain.QueueInProgress)).
		Count(&n).Error
	if err != nil {
		return false, infraErr(OpPendingQueue, err, "building_id", buildingID)
	}
	return n > 0, nil
}

func (r *QueueRepo) LastTrainingEnd(ctx context.Context, villageID int64) (time.Time, error) {
	var m model.TrainingQueue
	err := r.db.WithContext(ctx).
		Where("village_id = ? AND status = ?", villageID, string(domain.QueueInProgress)).
		Order("completed_at DESC").Take(&m).Error
	switch {
	case err == nil:
		return m.CompletedAt.UTC(), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return time.Time{}, nil
	default:
		return time.Time{}, infraErr(OpPendingQueue, err, "village_id", villageID)
	}
}

func (r *QueueRepo) PendingBuilding(ctx context.Context, villageID int64) ([]domain.BuildingQueueEntry, error) {
	var rows []model.BuildingQueue
	err := r.db.WithContext(ctx).
		Where("village_id = ? AND status = ?", villageID, string(domain.QueueInProgress)).
		Order("completed_at").Find(&rows).Error
	if err != nil {
		return nil, infraErr(OpPendingQueue, err, "village_id", villageID)
	}
	out := make([]domain.BuildingQueueEntry, 0, len(rows))
	for i := range rows {
		e, err := buildingQueueFromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *QueueRepo) PendingTraining(ctx context.Context, villageID int64) ([]domain.TrainingQueueEntry, error) {
	var rows []model.TrainingQueue
	err := r.db.WithContext(ctx).
		Where("village_id = ? AND status = ?", villageID, string(domain.QueueInProgress)).
		Order("completed_at").Find(&rows).Error
	if err != nil {
		return nil, infraErr(OpPendingQueue, err, "village_id", villageID)
	}
	out := make([]domain.TrainingQueueEntry, 0, len(rows))
	for i := range rows {
		e, err := trainingQueueFromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *QueueRepo) RescheduleTraining(ctx context.Context, id int64, startedAt, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TrainingQueue{}).
		Where("id = ? AND status = ?", id, string(domain.QueueInProgress)).
		Updates(map[string]any{"started_at": startedAt, "completed_at": completedAt})
	if res.Error != nil {
		return false, infraErr(OpRescheduleQueue, res.Error, "entry_id", id)
	}
	return res.RowsAffected == 1, nil
}
