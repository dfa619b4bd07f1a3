package memory

import (
	"VillageWars/internal/simulation/domain"
	"context"
	"sort"
	"time"
)

type queueRepo struct {
	tx *tx
}

func (r *queueRepo) CreateBuilding(ctx context.Context, e *domain.BuildingQueueEntry) error {
	r.tx.over.buildings[e.ID] = *e
	return nil
}

func (r *queueRepo) CreateTraining(ctx context.Context, e *domain.TrainingQueueEntry) error {
	r.tx.over.training[e.ID] = *e
	return nil
}

func (r *queueRepo) GetBuilding(ctx context.Context, id int64) (*domain.BuildingQueueEntry, error) {
	e, ok := r.tx.building(id)
	if !ok {
		return nil, domain.ErrQueueEntryNotFound.WithData("entry_id", id)
	}
	return &e, nil
}

func (r *queueRepo) GetTraining(ctx context.Context, id int64) (*domain.TrainingQueueEntry, error) {
	e, ok := r.tx.trainingEntry(id)
	if !ok {
		return nil, domain.ErrQueueEntryNotFound.WithData("entry_id", id)
	}
	return &e, nil
}

func (r *queueRepo) DueBuilding(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.BuildingQueueEntry, error) {
	var out []domain.BuildingQueueEntry
	each(r.tx.over.buildings, r.tx.base.buildings, func(e domain.BuildingQueueEntry) {
		if e.ID > afterID && e.Due(now) {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return truncate(out, limit), nil
}

func (r *queueRepo) DueTraining(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.TrainingQueueEntry, error) {
	var out []domain.TrainingQueueEntry
	each(r.tx.over.training, r.tx.base.training, func(e domain.TrainingQueueEntry) {
		if e.ID > afterID && e.Due(now) {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return truncate(out, limit), nil
}

func (r *queueRepo) TransitionBuilding(ctx context.Context, id int64, from, to domain.QueueStatus) (bool, error) {
	e, ok := r.tx.building(id)
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	r.tx.over.buildings[id] = e
	return true, nil
}

func (r *queueRepo) TransitionTraining(ctx context.Context, id int64, from, to domain.QueueStatus) (bool, error) {
	e, ok := r.tx.trainingEntry(id)
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	r.tx.over.training[id] = e
	return true, nil
}

func (r *queueRepo) BuildingInProgress(ctx context.Context, buildingID int64) (bool, error) {
	busy := false
	each(r.tx.over.buildings, r.tx.base.buildings, func(e domain.BuildingQueueEntry) {
		if e.BuildingID == buildingID && e.Status == domain.QueueInProgress {
			busy = true
		}
	})
	return busy, nil
}

func (r *queueRepo) LastTrainingEnd(ctx context.Context, villageID int64) (time.Time, error) {
	var last time.Time
	each(r.tx.over.training, r.tx.base.training, func(e domain.TrainingQueueEntry) {
		if e.VillageID == villageID && e.Status == domain.QueueInProgress && e.CompletedAt.After(last) {
			last = e.CompletedAt
		}
	})
	return last, nil
}

func (r *queueRepo) PendingBuilding(ctx context.Context, villageID int64) ([]domain.BuildingQueueEntry, error) {
	var out []domain.BuildingQueueEntry
	each(r.tx.over.buildings, r.tx.base.buildings, func(e domain.BuildingQueueEntry) {
		if e.VillageID == villageID && e.Status == domain.QueueInProgress {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (r *queueRepo) PendingTraining(ctx context.Context, villageID int64) ([]domain.TrainingQueueEntry, error) {
	var out []domain.TrainingQueueEntry
	each(r.tx.over.training, r.tx.base.training, func(e domain.TrainingQueueEntry) {
		if e.VillageID == villageID && e.Status == domain.QueueInProgress {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (r *queueRepo) RescheduleTraining(ctx context.Context, id int64, startedAt, completedAt time.Time) (bool, error) {
	e, ok := r.tx.trainingEntry(id)
	if !ok || e.Status != domain.QueueInProgress {
		return false, nil
	}
	e.StartedAt, e.CompletedAt = startedAt, completedAt
	r.tx.over.training[id] = e
	return true, nil
}

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
