package model

import "time"

type BuildingQueue struct {
	ID          int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	VillageID   int64     `gorm:"column:village_id;type:bigint;not null;index:idx_bq_village" json:"village_id"`
	BuildingID  int64     `gorm:"column:building_id;type:bigint;not null;index:idx_bq_building" json:"building_id"`
	Kind        string    `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	TargetLevel int       `gorm:"column:target_level;type:int;not null" json:"target_level"`
	StartedAt   time.Time `gorm:"column:started_at;type:datetime(3);not null" json:"started_at"`
	CompletedAt time.Time `gorm:"column:completed_at;type:datetime(3);not null;index:idx_bq_due,priority:2" json:"completed_at"`
	CostWood    float64   `gorm:"column:cost_wood;type:double;not null;default:0" json:"cost_wood"`
	CostClay    float64   `gorm:"column:cost_clay;type:double;not null;default:0" json:"cost_clay"`
	CostIron    float64   `gorm:"column:cost_iron;type:double;not null;default:0" json:"cost_iron"`
	CostCrop    float64   `gorm:"column:cost_crop;type:double;not null;default:0" json:"cost_crop"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;index:idx_bq_due,priority:1" json:"status"`
}

func (*BuildingQueue) TableName() string {
	return "building_queue"
}

type TrainingQueue struct {
	ID          int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	VillageID   int64     `gorm:"column:village_id;type:bigint;not null;index:idx_tq_village" json:"village_id"`
	Unit        string    `gorm:"column:unit;type:varchar(32);not null" json:"unit"`
	Quantity    int       `gorm:"column:quantity;type:int;not null" json:"quantity"`
	StartedAt   time.Time `gorm:"column:started_at;type:datetime(3);not null" json:"started_at"`
	CompletedAt time.Time `gorm:"column:completed_at;type:datetime(3);not null;index:idx_tq_due,priority:2" json:"completed_at"`
	CostWood    float64   `gorm:"column:cost_wood;type:double;not null;default:0" json:"cost_wood"`
	CostClay    float64   `gorm:"column:cost_clay;type:double;not null;default:0" json:"cost_clay"`
	CostIron    float64   `gorm:"column:cost_iron;type:double;not null;default:0" json:"cost_iron"`
	CostCrop    float64   `gorm:"column:cost_crop;type:double;not null;default:0" json:"cost_crop"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;index:idx_tq_due,priority:1" json:"status"`
}

func (*TrainingQueue) TableName() string {
	return "training_queue"
}
