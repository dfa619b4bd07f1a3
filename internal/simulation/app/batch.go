package app

import (
	"VillageWars/internal/simulation/domain"
	"context"
	"errors"
	"sort"
)

// Failure 记录单个实体的结算失败，该实体保持原状，下个 tick 重试。
type Failure struct {
	Entity string
	ID     int64
	Err    error
}

// forEachDue 按 id 游标分页读取并逐个处理。
// 单个实体失败只记录；已被抢占视为无操作；存储不可用等致命错误立即返回。
func forEachDue[T any](
	ctx context.Context,
	batch int,
	list func(ctx context.Context, afterID int64, limit int) ([]T, error),
	idOf func(T) int64,
	handle func(ctx context.Context, item T) error,
	onFailure func(item T, err error),
) error {
	if batch <= 0 {
		batch = 200
	}
	after := int64(0)
	for {
		if err := ctx.Err(); err != nil {
			return toSys(err)
		}
		page, err := list(ctx, after, batch)
		if err != nil {
			return toSys(err)
		}
		for _, item := range page {
			after = idOf(item)
			err := handle(ctx, item)
			switch {
			case err == nil, errors.Is(err, domain.ErrAlreadyClaimed):
			case IsFatal(err):
				return err
			default:
				onFailure(item, err)
			}
		}
		if len(page) < batch {
			return nil
		}
	}
}

// lockVillages 按 id 升序加锁读取，避免并发事务互相等待。
func lockVillages(ctx context.Context, repo VillageRepo, ids ...int64) (map[int64]*domain.Village, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make(map[int64]*domain.Village, len(sorted))
	for _, id := range sorted {
		if _, ok := out[id]; ok {
			continue
		}
		v, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, nil
}
