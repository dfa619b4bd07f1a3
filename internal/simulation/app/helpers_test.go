package app_test

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"VillageWars/internal/simulation/infra/persistence/memory"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testCatalog() *domain.StaticCatalog {
	return domain.NewCatalogFromSpecs(10000,
		[]domain.UnitSpec{
			{Kind: "swordsman", Attack: 40, DefenseInfantry: 20, DefenseCavalry: 20, Speed: 30, Carry: 50,
				Cost: domain.NewResources(50, 40, 30, 10), TrainTime: time.Minute},
			{Kind: "knight", Attack: 150, DefenseInfantry: 50, DefenseCavalry: 40, Speed: 60, Carry: 80,
				Cost: domain.NewResources(200, 150, 200, 50), TrainTime: 2 * time.Minute, Building: "stable", BuildingLevel: 1},
		},
		[]domain.BuildingSpec{
			{Kind: "woodcutter", Effect: domain.EffectProduction, Resources: []domain.ResourceType{domain.Wood},
				Levels: []domain.BuildingLevel{
					{Level: 1, Value: 100, Population: 2, Cost: domain.NewResources(40, 100, 50, 60), BuildTime: time.Minute},
					{Level: 2, Value: 200, Population: 1, Cost: domain.NewResources(65, 165, 85, 100), BuildTime: time.Minute},
					{Level: 3, Value: 300, Population: 1, Cost: domain.NewResources(110, 280, 140, 165), BuildTime: time.Minute},
					{Level: 4, Value: 400, Population: 1, Cost: domain.NewResources(185, 465, 235, 280), BuildTime: time.Minute},
				}},
			{Kind: "stable", Effect: domain.EffectNone,
				Levels: []domain.BuildingLevel{{Level: 1, Population: 4, Cost: domain.NewResources(260, 140, 220, 100), BuildTime: time.Minute}}},
			{Kind: "wall", Effect: domain.EffectDefense,
				Levels: []domain.BuildingLevel{{Level: 1, Value: 0.03, Cost: domain.NewResources(70, 90, 170, 70), BuildTime: time.Minute}}},
		},
	)
}

type counterIDs struct {
	n atomic.Int64
}

func newCounterIDs() *counterIDs {
	c := &counterIDs{}
	c.n.Store(10000)
	return c
}

func (c *counterIDs) NextID() int64 {
	return c.n.Add(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events []domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

type harness struct {
	store    *memory.Store
	reports  *memory.ReportRepo
	clk      *clock.Manual
	catalog  *domain.StaticCatalog
	settings app.Settings
	pub      *recordingPublisher
	cmd      *app.CommandService
	query    *app.QueryService
	tick     *app.TickService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, memory.NewStore(), app.DefaultSettings())
}

func newHarnessWith(t *testing.T, store *memory.Store, settings app.Settings) *harness {
	t.Helper()
	if store == nil {
		store = memory.NewStore()
	}
	h := &harness{
		store:    store,
		reports:  memory.NewReportRepo(),
		clk:      clock.NewManual(t0),
		catalog:  testCatalog(),
		settings: settings,
		pub:      &recordingPublisher{},
	}
	ids := newCounterIDs()
	// 攻方取最小浮动、守方取最大，战斗结果可预期
	battle := engine.NewBattleResolver(h.catalog, engine.NewSequenceRandom(0, 0.999999999), settings.VarianceMin, settings.VarianceMax)
	h.cmd = app.NewCommandService(store, h.catalog, h.clk, ids, settings)
	h.query = app.NewQueryService(store, h.reports, battle, h.clk, settings)
	queues := app.NewQueueResolver(store, h.catalog, settings, nil)
	movements := app.NewMovementResolver(store, h.reports, h.catalog, battle, ids, settings, nil)
	h.tick = app.NewTickService(store, queues, movements, h.pub, settings, nil)
	return h
}

// seedVillage 建一个无产出的村庄：四种资源各 1000，容量 10000。
func (h *harness) seedVillage(t *testing.T, id, player int64, x, y int, home domain.Roster, buildings ...domain.Building) {
	t.Helper()
	v := &domain.Village{ID: id, PlayerID: player, WorldID: 1, X: x, Y: y, CreatedAt: t0}
	for _, rt := range domain.ResourceTypes {
		v.Stock[rt] = domain.Stockpile{Type: rt, Amount: 1000, LastUpdated: t0}
	}
	for unit, n := range home {
		v.Troop(unit).InVillage = n
	}
	for _, b := range buildings {
		b.VillageID = id
		v.Buildings = append(v.Buildings, b)
	}
	if err := engine.DeriveEffects(v, h.catalog); err != nil {
		t.Fatalf("derive: %v", err)
	}
	h.do(t, func(ctx context.Context, r app.Repos) error {
		return r.Villages.Create(ctx, v)
	})
}

func (h *harness) do(t *testing.T, fn func(ctx context.Context, r app.Repos) error) {
	t.Helper()
	if err := h.store.Do(context.Background(), fn); err != nil {
		t.Fatalf("store: %v", err)
	}
}

func (h *harness) village(t *testing.T, id int64) *domain.Village {
	t.Helper()
	var v *domain.Village
	h.do(t, func(ctx context.Context, r app.Repos) error {
		var err error
		v, err = r.Villages.Get(ctx, id)
		return err
	})
	return v
}

func (h *harness) building(t *testing.T, id int64) domain.BuildingQueueEntry {
	t.Helper()
	var e *domain.BuildingQueueEntry
	h.do(t, func(ctx context.Context, r app.Repos) error {
		var err error
		e, err = r.Queues.GetBuilding(ctx, id)
		return err
	})
	return *e
}

func (h *harness) movement(t *testing.T, id int64) domain.Movement {
	t.Helper()
	var m *domain.Movement
	h.do(t, func(ctx context.Context, r app.Repos) error {
		var err error
		m, err = r.Movements.Get(ctx, id)
		return err
	})
	return *m
}

func (h *harness) runTick(t *testing.T, at time.Time) app.TickSummary {
	t.Helper()
	h.clk.Set(at)
	sum, err := h.tick.RunTick(context.Background(), at)
	if err != nil {
		t.Fatalf("tick at %s: %v", at, err)
	}
	return sum
}

// failingUoW 模拟存储不可用。
type failingUoW struct{}

func (failingUoW) Do(context.Context, func(context.Context, app.Repos) error) error {
	return app.ErrUnavailable.WithData("db", "down")
}
