package memory

import (
	"VillageWars/internal/simulation/domain"
	"context"
	"sort"
)

type villageRepo struct {
	tx *tx
}

// Create 与 mysql 的 uk_village_xy 一致：同一世界同一坐标只能有一个村庄。
func (r *villageRepo) Create(ctx context.Context, v *domain.Village) error {
	taken := false
	each(r.tx.over.villages, r.tx.base.villages, func(o *domain.Village) {
		if o.WorldID == v.WorldID && o.X == v.X && o.Y == v.Y {
			taken = true
		}
	})
	if taken {
		return domain.ErrCoordinateTaken.WithData("world_id", v.WorldID).WithData("x", v.X).WithData("y", v.Y)
	}
	r.tx.over.villages[v.ID] = v.Clone()
	return nil
}

func (r *villageRepo) Get(ctx context.Context, id int64) (*domain.Village, error) {
	v, ok := r.tx.village(id)
	if !ok {
		return nil, domain.ErrVillageNotFound.WithData("village_id", id)
	}
	return v.Clone(), nil
}

// GetForUpdate 与 Get 相同，Store 已持有全局锁。
func (r *villageRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Village, error) {
	return r.Get(ctx, id)
}

func (r *villageRepo) ListIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	each(r.tx.over.villages, r.tx.base.villages, func(v *domain.Village) {
		if v.ID > afterID {
			ids = append(ids, v.ID)
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return truncate(ids, limit), nil
}

func (r *villageRepo) Save(ctx context.Context, v *domain.Village) error {
	if _, ok := r.tx.village(v.ID); !ok {
		return domain.ErrVillageNotFound.WithData("village_id", v.ID)
	}
	r.tx.over.villages[v.ID] = v.Clone()
	return nil
}

func (r *villageRepo) SaveStockpiles(ctx context.Context, villageID int64, stock []domain.Stockpile) error {
	v, ok := r.tx.villageForWrite(villageID)
	if !ok {
		return domain.ErrVillageNotFound.WithData("village_id", villageID)
	}
	for _, s := range stock {
		v.Stock[s.Type] = s
	}
	return nil
}
