package model

import "time"

type Movement struct {
	ID        int64          `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	PlayerID  int64          `gorm:"column:player_id;type:bigint;not null" json:"player_id"`
	OriginID  int64          `gorm:"column:origin_id;type:bigint;not null;index:idx_mv_origin" json:"origin_id"`
	DestID    int64          `gorm:"column:dest_id;type:bigint;not null;index:idx_mv_dest" json:"dest_id"`
	Kind      string         `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	Roster    map[string]int `gorm:"column:roster;type:json;serializer:json" json:"roster"`
	LootWood  float64        `gorm:"column:loot_wood;type:double;not null;default:0" json:"loot_wood"`
	LootClay  float64        `gorm:"column:loot_clay;type:double;not null;default:0" json:"loot_clay"`
	LootIron  float64        `gorm:"column:loot_iron;type:double;not null;default:0" json:"loot_iron"`
	LootCrop  float64        `gorm:"column:loot_crop;type:double;not null;default:0" json:"loot_crop"`
	ParentID  int64          `gorm:"column:parent_id;type:bigint;not null;default:0;comment:回程对应的出征id" json:"parent_id"`
	StartedAt time.Time      `gorm:"column:started_at;type:datetime(3);not null" json:"started_at"`
	ArrivesAt time.Time      `gorm:"column:arrives_at;type:datetime(3);not null;index:idx_mv_due,priority:2" json:"arrives_at"`
	Status    string         `gorm:"column:status;type:varchar(16);not null;index:idx_mv_due,priority:1" json:"status"`
}

func (*Movement) TableName() string {
	return "movement"
}
