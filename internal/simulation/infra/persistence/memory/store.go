package memory

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"context"
	"sync"
)

type state struct {
	villages  map[int64]*domain.Village
	buildings map[int64]domain.BuildingQueueEntry
	training  map[int64]domain.TrainingQueueEntry
	movements map[int64]domain.Movement
}

func newState() *state {
	return &state{
		villages:  make(map[int64]*domain.Village),
		buildings: make(map[int64]domain.BuildingQueueEntry),
		training:  make(map[int64]domain.TrainingQueueEntry),
		movements: make(map[int64]domain.Movement),
	}
}

// tx 是一次 Do 的写集：读先查写集再查已提交状态，写只落在写集里。
// 提交时把写集合并回已提交状态，失败时直接丢弃。
type tx struct {
	base *state
	over *state
}

func newTx(base *state) *tx {
	return &tx{base: base, over: newState()}
}

func (t *tx) village(id int64) (*domain.Village, bool) {
	if v, ok := t.over.villages[id]; ok {
		return v, true
	}
	v, ok := t.base.villages[id]
	return v, ok
}

// villageForWrite 首次写入时把已提交的村庄复制进写集。
func (t *tx) villageForWrite(id int64) (*domain.Village, bool) {
	if v, ok := t.over.villages[id]; ok {
		return v, true
	}
	v, ok := t.base.villages[id]
	if !ok {
		return nil, false
	}
	v = v.Clone()
	t.over.villages[id] = v
	return v, true
}

func (t *tx) building(id int64) (domain.BuildingQueueEntry, bool) {
	return lookup(t.over.buildings, t.base.buildings, id)
}

func (t *tx) trainingEntry(id int64) (domain.TrainingQueueEntry, bool) {
	return lookup(t.over.training, t.base.training, id)
}

func (t *tx) movement(id int64) (domain.Movement, bool) {
	return lookup(t.over.movements, t.base.movements, id)
}

func (t *tx) commit() {
	for id, v := range t.over.villages {
		t.base.villages[id] = v
	}
	for id, e := range t.over.buildings {
		t.base.buildings[id] = e
	}
	for id, e := range t.over.training {
		t.base.training[id] = e
	}
	for id, m := range t.over.movements {
		t.base.movements[id] = m
	}
}

func lookup[T any](over, base map[int64]T, id int64) (T, bool) {
	if v, ok := over[id]; ok {
		return v, true
	}
	v, ok := base[id]
	return v, ok
}

// each 遍历合并后的视图，写集中的版本覆盖已提交版本。
func each[T any](over, base map[int64]T, fn func(T)) {
	for id, v := range base {
		if _, ok := over[id]; ok {
			continue
		}
		fn(v)
	}
	for _, v := range over {
		fn(v)
	}
}

func cloneMovement(m domain.Movement) domain.Movement {
	m.Roster = m.Roster.Clone()
	return m
}

// Store 是进程内存储，用于单机运行与测试。
// Do 串行执行；每次只复制被写到的实体，成功才合并，失败即回滚。
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ app.UnitOfWork = (*Store)(nil)

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, r app.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newTx(s.st)
	repos := app.Repos{
		Villages:  &villageRepo{tx: t},
		Queues:    &queueRepo{tx: t},
		Movements: &movementRepo{tx: t},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	t.commit()
	return nil
}
