package mysql

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MovementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) *MovementRepo {
	return &MovementRepo{db: db}
}

const (
	OpCreateMovement     = "repo.movement.Create"
	OpGetMovement        = "repo.movement.Get"
	OpDueMovement        = "repo.movement.Due"
	OpTransitionMovement = "repo.movement.Transition"
	OpActiveMovement     = "repo.movement.Active"
)

func (r *MovementRepo) Create(ctx context.Context, m *domain.Movement) error {
	if err := r.db.WithContext(ctx).Create(movementToModel(m)).Error; err != nil {
		return infraErr(OpCreateMovement, err, "movement_id", m.ID)
	}
	return nil
}

func (r *MovementRepo) Get(ctx context.Context, id int64) (*domain.Movement, error) {
	var m model.Movement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		mv, err := movementFromModel(&m)
		if err != nil {
			return nil, err
		}
		return &mv, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrMovementNotFound.WithData("movement_id", id)
	default:
		return nil, infraErr(OpGetMovement, err, "movement_id", id)
	}
}

func (r *MovementRepo) Due(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.Movement, error) {
	var rows []model.Movement
	err := r.db.WithContext(ctx).
		Where("status = ? AND arrives_at <= ? AND id > ?", string(domain.MovementTravelling), now, afterID).
		Order("id").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, infraErr(OpDueMovement, err)
	}
	return movementsFromModels(rows)
}

func (r *MovementRepo) Transition(ctx context.Context, id int64, from, to domain.MovementStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Movement{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, infraErr(OpTransitionMovement, res.Error, "movement_id", id)
	}
	return res.RowsAffected == 1, nil
}

func (r *MovementRepo) Active(ctx context.Context, villageID int64) ([]domain.Movement, error) {
	var rows []model.Movement
	err := r.db.WithContext(ctx).
		Where("status = ? AND (origin_id = ? OR dest_id = ?)", string(domain.MovementTravelling), villageID, villageID).
		Order("arrives_at").Find(&rows).Error
	if err != nil {
		return nil, infraErr(OpActiveMovement, err, "village_id", villageID)
	}
	return movementsFromModels(rows)
}

func movementsFromModels(rows []model.Movement) ([]domain.Movement, error) {
	out := make([]domain.Movement, 0, len(rows))
	for i := range rows {
		mv, err := movementFromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, nil
}
