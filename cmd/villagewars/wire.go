package main

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/shared/gameconfig"
	"VillageWars/internal/shared/infrastructure/db"
	mongox "VillageWars/internal/shared/infrastructure/mongo"
	"VillageWars/internal/shared/logs"
	"VillageWars/internal/shared/serverconfig"
	"VillageWars/internal/shared/transport/ws"
	"VillageWars/internal/shared/utils"
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"VillageWars/internal/simulation/infra/notify"
	"VillageWars/internal/simulation/infra/persistence/memory"
	"VillageWars/internal/simulation/infra/persistence/mongodb"
	mysqlrepo "VillageWars/internal/simulation/infra/persistence/mysql"
	"VillageWars/modules/kit/logx"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// container 持有一次进程生命周期内组装好的依赖。
type container struct {
	conf     serverconfig.Config
	log      logx.Logger
	clock    clock.Clock
	catalog  *domain.StaticCatalog
	settings app.Settings
	gormDB   *gorm.DB
	uow      app.UnitOfWork
	reports  app.ReportRepo
	hub      *ws.Hub
	commands *app.CommandService
	queries  *app.QueryService
	tick     *app.TickService
	closers  []func()
}

func loadConfig(path string, appName string) (serverconfig.Config, error) {
	if err := serverconfig.Load(path); err != nil {
		return serverconfig.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := logs.Init(appName, serverconfig.Conf.Log); err != nil {
		return serverconfig.Config{}, fmt.Errorf("init log: %w", err)
	}
	return serverconfig.Conf, nil
}

func loadCatalog() (*domain.StaticCatalog, error) {
	tables, err := gameconfig.Default()
	if err != nil {
		return nil, fmt.Errorf("load game tables: %w", err)
	}
	return domain.NewCatalog(tables)
}

func buildContainer(ctx context.Context, conf serverconfig.Config, zl *zap.Logger) (*container, error) {
	if zl == nil {
		zl = zap.NewNop()
	}
	c := &container{
		conf:     conf,
		log:      logx.NewZapLogger(zl),
		clock:    clock.System{},
		settings: app.SettingsFromConfig(conf.Game),
	}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	c.catalog = catalog

	if err := c.openStorage(ctx, zl); err != nil {
		return nil, err
	}
	if err := c.openReports(ctx, zl); err != nil {
		return nil, err
	}

	ids, err := utils.NewSnowflake(conf.Storage.NodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake: %w", err)
	}
	battle := engine.NewBattleResolver(catalog, engine.NewRandomSource(uint64(time.Now().UnixNano())),
		c.settings.VarianceMin, c.settings.VarianceMax)

	c.hub = ws.NewHub(c.log)
	c.closers = append(c.closers, c.hub.Close)
	publisher := notify.Multi{
		notify.NewHubPublisher(c.hub, c.log),
		notify.NewLogPublisher(c.log),
	}

	c.commands = app.NewCommandService(c.uow, catalog, c.clock, ids, c.settings)
	c.queries = app.NewQueryService(c.uow, c.reports, battle, c.clock, c.settings)
	queues := app.NewQueueResolver(c.uow, catalog, c.settings, c.log)
	movements := app.NewMovementResolver(c.uow, c.reports, catalog, battle, ids, c.settings, c.log)
	c.tick = app.NewTickService(c.uow, queues, movements, publisher, c.settings, c.log)

	ok = true
	return c, nil
}

func (c *container) openStorage(ctx context.Context, zl *zap.Logger) error {
	switch c.conf.Storage.Driver {
	case serverconfig.DriverMemory:
		c.uow = memory.NewStore()
		zl.Warn("使用内存存储，进程退出后数据丢失")
		return nil
	case serverconfig.DriverMySQL:
		gdb, err := db.Open(c.conf.MySQL)
		if err != nil {
			return fmt.Errorf("open mysql: %w", err)
		}
		c.gormDB = gdb
		c.closers = append(c.closers, func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		if c.conf.Storage.AutoMigrate {
			if err := mysqlrepo.AutoMigrate(ctx, gdb); err != nil {
				return err
			}
		}
		c.uow = mysqlrepo.NewUnitOfWork(gdb)
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", c.conf.Storage.Driver)
	}
}

func (c *container) openReports(ctx context.Context, zl *zap.Logger) error {
	switch c.conf.Storage.ReportStore {
	case serverconfig.DriverMemory:
		c.reports = memory.NewReportRepo()
		return nil
	case serverconfig.DriverMySQL:
		if c.gormDB == nil {
			return fmt.Errorf("report store mysql requires storage driver mysql")
		}
		c.reports = mysqlrepo.NewReportRepo(c.gormDB)
		return nil
	case serverconfig.DriverMongo:
		client, err := mongox.Open(ctx, c.conf.MongoDB, zl)
		if err != nil {
			return fmt.Errorf("open mongodb: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		repo := mongodb.NewReportRepo(client.DB())
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		c.reports = repo
		return nil
	default:
		return fmt.Errorf("unknown report store %q", c.conf.Storage.ReportStore)
	}
}

// Close 逆序释放资源。
func (c *container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
