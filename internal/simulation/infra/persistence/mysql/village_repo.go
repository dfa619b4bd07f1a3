package mysql

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VillageRepo struct {
	db *gorm.DB
}

func NewVillageRepo(db *gorm.DB) *VillageRepo {
	return &VillageRepo{db: db}
}

const (
	OpCreateVillage  = "repo.village.Create"
	OpGetVillage     = "repo.village.Get"
	OpListVillageIDs = "repo.village.ListIDs"
	OpSaveVillage    = "repo.village.Save"
	OpSaveStockpiles = "repo.village.SaveStockpiles"
)

func (r *VillageRepo) Create(ctx context.Context, v *domain.Village) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(villageToModel(v)).Error; err != nil {
		if isDuplicateOn(err, "uk_village_xy") {
			return domain.ErrCoordinateTaken.WithData("world_id", v.WorldID).WithData("x", v.X).WithData("y", v.Y)
		}
		return infraErr(OpCreateVillage, err, "village_id", v.ID)
	}
	stock := stockToModels(v.ID, v.Stock[:])
	if err := db.Create(&stock).Error; err != nil {
		return infraErr(OpCreateVillage, err, "village_id", v.ID)
	}
	if bs := buildingsToModels(v.Buildings); len(bs) > 0 {
		if err := db.Create(&bs).Error; err != nil {
			return infraErr(OpCreateVillage, err, "village_id", v.ID)
		}
	}
	if ts := troopsToModels(v); len(ts) > 0 {
		if err := db.Create(&ts).Error; err != nil {
			return infraErr(OpCreateVillage, err, "village_id", v.ID)
		}
	}
	return nil
}

func (r *VillageRepo) Get(ctx context.Context, id int64) (*domain.Village, error) {
	return r.load(ctx, id, false)
}

// GetForUpdate 主行与资源、建筑、兵力行全部 FOR UPDATE。
// 锁定读总是读最新提交版本，之后 Save 覆盖写不会冲掉别的事务刚提交的改动。
func (r *VillageRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Village, error) {
	return r.load(ctx, id, true)
}

func (r *VillageRepo) load(ctx context.Context, id int64, lock bool) (*domain.Village, error) {
	q := func() *gorm.DB {
		db := r.db.WithContext(ctx)
		if lock {
			db = db.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return db
	}

	var m model.Village
	err := q().Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrVillageNotFound.WithData("village_id", id)
	default:
		return nil, infraErr(OpGetVillage, err, "village_id", id)
	}

	var stock []model.Stockpile
	if err := q().Where("village_id = ?", id).Find(&stock).Error; err != nil {
		return nil, infraErr(OpGetVillage, err, "village_id", id)
	}
	var buildings []model.Building
	if err := q().Where("village_id = ?", id).Order("slot").Find(&buildings).Error; err != nil {
		return nil, infraErr(OpGetVillage, err, "village_id", id)
	}
	var troops []model.Troop
	if err := q().Where("village_id = ?", id).Find(&troops).Error; err != nil {
		return nil, infraErr(OpGetVillage, err, "village_id", id)
	}
	return villageFromModels(&m, stock, buildings, troops)
}

func (r *VillageRepo) ListIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Village{}).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, infraErr(OpListVillageIDs, err, "after_id", afterID)
	}
	return ids, nil
}

// Save 覆盖写村庄主行与全部附属行。
func (r *VillageRepo) Save(ctx context.Context, v *domain.Village) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Village{}).Where("id = ?", v.ID).Updates(map[string]any{
		"name":          v.Name,
		"population":    v.Population,
		"defense_bonus": v.DefenseBonus,
	})
	if res.Error != nil {
		return infraErr(OpSaveVillage, res.Error, "village_id", v.ID)
	}
	if err := r.SaveStockpiles(ctx, v.ID, v.Stock[:]); err != nil {
		return err
	}
	if bs := buildingsToModels(v.Buildings); len(bs) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "level"}),
		}).Create(&bs).Error
		if err != nil {
			return infraErr(OpSaveVillage, err, "village_id", v.ID)
		}
	}
	if ts := troopsToModels(v); len(ts) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "village_id"}, {Name: "unit"}},
			DoUpdates: clause.AssignmentColumns([]string{"in_village", "in_movement"}),
		}).Create(&ts).Error
		if err != nil {
			return infraErr(OpSaveVillage, err, "village_id", v.ID)
		}
	}
	return nil
}

func (r *VillageRepo) SaveStockpiles(ctx context.Context, villageID int64, stock []domain.Stockpile) error {
	if len(stock) == 0 {
		return nil
	}
	rows := stockToModels(villageID, stock)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "village_id"}, {Name: "resource"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "production_rate", "capacity", "last_updated"}),
	}).Create(&rows).Error
	if err != nil {
		return infraErr(OpSaveStockpiles, err, "village_id", villageID)
	}
	return nil
}
