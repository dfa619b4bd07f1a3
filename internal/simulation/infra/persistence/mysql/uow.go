package mysql

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/infra/persistence/model"
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// UnitOfWork 每次 Do 开一个 READ COMMITTED 事务，仓储都绑定到该事务上。
// 普通读不固定快照，加锁后读到的是别的事务已提交的最新值。
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

var _ app.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, r app.Repos) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, app.Repos{
			Villages:  NewVillageRepo(tx),
			Queues:    NewQueueRepo(tx),
			Movements: NewMovementRepo(tx),
		})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	return infraErr("repo.uow.Do", err)
}

// AutoMigrate 建表或补齐缺失的列与索引。
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return infraErr("repo.AutoMigrate", err)
	}
	return nil
}
