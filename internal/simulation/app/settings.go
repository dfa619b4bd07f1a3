package app

import (
	"VillageWars/internal/shared/serverconfig"
	"time"
)

// Settings 是结算与指令用到的世界参数。
type Settings struct {
	WorldSpeed           float64
	BatchSize            int
	Workers              int
	LootFraction         float64
	CancelRefundRatio    float64
	MovementCancelWindow time.Duration
	VarianceMin          float64
	VarianceMax          float64
}

func SettingsFromConfig(g serverconfig.GameConfig) Settings {
	g.ApplyDefaults()
	return Settings{
		WorldSpeed:           g.Speed,
		BatchSize:            g.BatchSize,
		Workers:              g.Workers,
		LootFraction:         g.LootFraction,
		CancelRefundRatio:    g.CancelRefundRatio,
		MovementCancelWindow: g.MovementCancelWindow,
		VarianceMin:          g.VarianceMin,
		VarianceMax:          g.VarianceMax,
	}
}

func DefaultSettings() Settings {
	return SettingsFromConfig(serverconfig.DefaultGameConfig())
}
