package serverconfig

import (
	"VillageWars/internal/shared/config"
	"os"
	"time"
)

var Conf Config

// Load 解析配置路径（空串表示向上查找 configs/conf.yml），加载到 Conf 并开启热更新。
func Load(cfgName string) error {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return err
	}
	if _, err = config.Load(path, &Conf, true, nil); err != nil {
		return err
	}
	Conf.ApplyDefaults()
	// 环境变量优先；未设置时回填配置中的 jwt_secret，兼容本地开发。
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
	return nil
}

// ApplyDefaults 给缺省字段补默认值。
func (c *Config) ApplyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMySQL
	}
	if c.Storage.ReportStore == "" {
		c.Storage.ReportStore = c.Storage.Driver
	}
	if c.Storage.NodeID == 0 {
		c.Storage.NodeID = 1
	}
	c.Game.ApplyDefaults()
}

func (g *GameConfig) ApplyDefaults() {
	if g.WorldID == 0 {
		g.WorldID = 1
	}
	if g.Speed <= 0 {
		g.Speed = 1
	}
	if g.TickInterval <= 0 {
		g.TickInterval = 5 * time.Second
	}
	if g.TickTimeout <= 0 {
		g.TickTimeout = 30 * time.Second
	}
	if g.BatchSize <= 0 {
		g.BatchSize = 200
	}
	if g.Workers <= 0 {
		g.Workers = 8
	}
	if g.LootFraction <= 0 || g.LootFraction > 1 {
		g.LootFraction = 0.5
	}
	if g.CancelRefundRatio < 0 || g.CancelRefundRatio > 1 {
		g.CancelRefundRatio = 1
	}
	if g.VarianceMin <= 0 || g.VarianceMax <= 0 || g.VarianceMin > g.VarianceMax {
		g.VarianceMin, g.VarianceMax = 0.8, 1.2
	}
}

// DefaultGameConfig 返回补齐默认值的游戏配置，测试与命令行工具用。
func DefaultGameConfig() GameConfig {
	g := GameConfig{CancelRefundRatio: 0.8}
	g.ApplyDefaults()
	return g
}
