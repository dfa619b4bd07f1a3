package memory

import (
	"VillageWars/internal/simulation/domain"
	"context"
	"sort"
	"time"
)

type movementRepo struct {
	tx *tx
}

func (r *movementRepo) Create(ctx context.Context, m *domain.Movement) error {
	r.tx.over.movements[m.ID] = cloneMovement(*m)
	return nil
}

func (r *movementRepo) Get(ctx context.Context, id int64) (*domain.Movement, error) {
	m, ok := r.tx.movement(id)
	if !ok {
		return nil, domain.ErrMovementNotFound.WithData("movement_id", id)
	}
	m = cloneMovement(m)
	return &m, nil
}

func (r *movementRepo) Due(ctx context.Context, now time.Time, afterID int64, limit int) ([]domain.Movement, error) {
	var out []domain.Movement
	each(r.tx.over.movements, r.tx.base.movements, func(m domain.Movement) {
		if m.ID > afterID && m.Due(now) {
			out = append(out, cloneMovement(m))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return truncate(out, limit), nil
}

func (r *movementRepo) Transition(ctx context.Context, id int64, from, to domain.MovementStatus) (bool, error) {
	m, ok := r.tx.movement(id)
	if !ok || m.Status != from {
		return false, nil
	}
	m = cloneMovement(m)
	m.Status = to
	r.tx.over.movements[id] = m
	return true, nil
}

func (r *movementRepo) Active(ctx context.Context, villageID int64) ([]domain.Movement, error) {
	var out []domain.Movement
	each(r.tx.over.movements, r.tx.base.movements, func(m domain.Movement) {
		if m.Status == domain.MovementTravelling && (m.OriginID == villageID || m.DestID == villageID) {
			out = append(out, cloneMovement(m))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ArrivesAt.Before(out[j].ArrivesAt) })
	return out, nil
}
