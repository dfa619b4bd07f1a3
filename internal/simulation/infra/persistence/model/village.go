package model

import "time"

type Village struct {
	ID           int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false;comment:村庄id" json:"id"`
	PlayerID     int64     `gorm:"column:player_id;type:bigint;not null;index:idx_village_player;comment:所属玩家" json:"player_id"`
	WorldID      int64     `gorm:"column:world_id;type:bigint;not null;default:1;uniqueIndex:uk_village_xy,priority:1;comment:世界id" json:"world_id"`
	Name         string    `gorm:"column:name;type:varchar(64);not null;default:'';comment:村名" json:"name"`
	X            int       `gorm:"column:x;type:int;not null;uniqueIndex:uk_village_xy,priority:2;comment:横坐标" json:"x"`
	Y            int       `gorm:"column:y;type:int;not null;uniqueIndex:uk_village_xy,priority:3;comment:纵坐标" json:"y"`
	Population   int       `gorm:"column:population;type:int;not null;default:0;comment:人口" json:"population"`
	DefenseBonus float64   `gorm:"column:defense_bonus;type:double;not null;default:0;comment:城防加成" json:"defense_bonus"`
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime(3);not null" json:"created_at"`
}

func (*Village) TableName() string {
	return "village"
}

// Stockpile 每村每种资源一行。
type Stockpile struct {
	VillageID      int64     `gorm:"column:village_id;type:bigint;primaryKey;autoIncrement:false" json:"village_id"`
	Resource       string    `gorm:"column:resource;type:varchar(8);primaryKey;comment:wood/clay/iron/crop" json:"resource"`
	Amount         float64   `gorm:"column:amount;type:double;not null;default:0" json:"amount"`
	ProductionRate float64   `gorm:"column:production_rate;type:double;not null;default:0;comment:每小时产量" json:"production_rate"`
	Capacity       float64   `gorm:"column:capacity;type:double;not null;default:0" json:"capacity"`
	LastUpdated    time.Time `gorm:"column:last_updated;type:datetime(3);not null" json:"last_updated"`
}

func (*Stockpile) TableName() string {
	return "village_resource"
}

type Building struct {
	ID        int64  `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	VillageID int64  `gorm:"column:village_id;type:bigint;not null;uniqueIndex:uk_building_slot,priority:1" json:"village_id"`
	Slot      int    `gorm:"column:slot;type:int;not null;uniqueIndex:uk_building_slot,priority:2" json:"slot"`
	Kind      string `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	Level     int    `gorm:"column:level;type:int;not null;default:0" json:"level"`
}

func (*Building) TableName() string {
	return "village_building"
}

type Troop struct {
	VillageID  int64  `gorm:"column:village_id;type:bigint;primaryKey;autoIncrement:false" json:"village_id"`
	Unit       string `gorm:"column:unit;type:varchar(32);primaryKey" json:"unit"`
	InVillage  int    `gorm:"column:in_village;type:int;not null;default:0;comment:在家" json:"in_village"`
	InMovement int    `gorm:"column:in_movement;type:int;not null;default:0;comment:在途" json:"in_movement"`
}

func (*Troop) TableName() string {
	return "village_troop"
}
