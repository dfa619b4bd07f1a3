package memory

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"context"
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *Store, ids ...int64) {
	t.Helper()
	err := s.Do(context.Background(), func(ctx context.Context, r app.Repos) error {
		for _, id := range ids {
			v := &domain.Village{ID: id, PlayerID: id, WorldID: 1, X: int(id), Troops: map[domain.UnitKind]*domain.Troop{}}
			for _, rt := range domain.ResourceTypes {
				v.Stock[rt] = domain.Stockpile{Type: rt, Amount: 100, Capacity: 1000, LastUpdated: t0}
			}
			if err := r.Villages.Create(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestStore_失败时整体回滚(t *testing.T) {
	s := NewStore()
	seed(t, s, 1)
	boom := errors.New("boom")

	err := s.Do(context.Background(), func(ctx context.Context, r app.Repos) error {
		_ = r.Villages.SaveStockpiles(ctx, 1, []domain.Stockpile{{Type: domain.Wood, Amount: 999, Capacity: 1000}})
		_ = r.Movements.Create(ctx, &domain.Movement{ID: 7, OriginID: 1, DestID: 1, Status: domain.MovementTravelling})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if got := s.st.villages[1].Stock[domain.Wood].Amount; got != 100 {
		t.Fatalf("资源写入应回滚, wood=%v", got)
	}
	if _, ok := s.st.movements[7]; ok {
		t.Fatalf("行军创建应回滚")
	}
}

func TestStore_只复制被写到的村庄(t *testing.T) {
	s := NewStore()
	seed(t, s, 1, 2, 3)
	before := map[int64]*domain.Village{1: s.st.villages[1], 2: s.st.villages[2], 3: s.st.villages[3]}

	err := s.Do(context.Background(), func(ctx context.Context, r app.Repos) error {
		if _, err := r.Villages.Get(ctx, 1); err != nil {
			return err
		}
		if err := r.Villages.SaveStockpiles(ctx, 2, []domain.Stockpile{{Type: domain.Wood, Amount: 500, Capacity: 1000}}); err != nil {
			return err
		}
		tx := r.Villages.(*villageRepo).tx
		if len(tx.over.villages) != 1 {
			t.Fatalf("写集应只含被写的村庄, got=%d", len(tx.over.villages))
		}
		if before[2].Stock[domain.Wood].Amount != 100 {
			t.Fatalf("提交前不应改动已提交状态")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if s.st.villages[1] != before[1] || s.st.villages[3] != before[3] {
		t.Fatalf("未写的村庄不应被替换")
	}
	if got := s.st.villages[2].Stock[domain.Wood].Amount; got != 500 {
		t.Fatalf("wood=%v", got)
	}
}

func TestStore_事务内可读到自己的写入(t *testing.T) {
	s := NewStore()
	seed(t, s, 1, 2)
	ctx := context.Background()
	_ = s.Do(ctx, func(ctx context.Context, r app.Repos) error {
		return r.Movements.Create(ctx, &domain.Movement{ID: 9, OriginID: 1, DestID: 2, ArrivesAt: t0, Status: domain.MovementTravelling})
	})

	err := s.Do(ctx, func(ctx context.Context, r app.Repos) error {
		ok, err := r.Movements.Transition(ctx, 9, domain.MovementTravelling, domain.MovementProcessing)
		if err != nil || !ok {
			t.Fatalf("首次抢占应成功: ok=%v err=%v", ok, err)
		}
		if ok, _ := r.Movements.Transition(ctx, 9, domain.MovementTravelling, domain.MovementProcessing); ok {
			t.Fatalf("同一事务内不应再次抢到")
		}
		due, _ := r.Movements.Due(ctx, t0, 0, 10)
		active, _ := r.Movements.Active(ctx, 1)
		if len(due) != 0 || len(active) != 0 {
			t.Fatalf("已抢占的行军不应再出现: due=%d active=%d", len(due), len(active))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if s.st.movements[9].Status != domain.MovementProcessing {
		t.Fatalf("status=%s", s.st.movements[9].Status)
	}
}

func TestVillageRepo_Create同坐标被拒绝(t *testing.T) {
	s := NewStore()
	seed(t, s, 1)
	err := s.Do(context.Background(), func(ctx context.Context, r app.Repos) error {
		return r.Villages.Create(ctx, &domain.Village{ID: 2, WorldID: 1, X: 1})
	})
	if !errors.Is(err, domain.ErrCoordinateTaken) {
		t.Fatalf("err=%v", err)
	}
	if _, ok := s.st.villages[2]; ok {
		t.Fatalf("被拒绝的村庄不应写入")
	}
}
