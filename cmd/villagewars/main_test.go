package main

import (
	"VillageWars/internal/shared/serverconfig"
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestBattleCmd_输出胜负与损失(t *testing.T) {
	var out bytes.Buffer
	err := runBattle(&out, &battleFlags{
		attacker: map[string]int{"legionnaire": 100},
		defender: map[string]int{"praetorian": 2},
		seed:     42,
	})
	if err != nil {
		t.Fatalf("runBattle: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "进攻方胜") {
		t.Fatalf("100 步兵对 2 禁卫兵应进攻方胜，输出: %s", text)
	}
	if !strings.Contains(text, "praetorian") || !strings.Contains(text, "legionnaire") {
		t.Fatalf("表格应列出双方兵种: %s", text)
	}
}

func TestBattleCmd_未知兵种报错(t *testing.T) {
	var out bytes.Buffer
	err := runBattle(&out, &battleFlags{attacker: map[string]int{"dragon": 1}, seed: 1})
	if err == nil {
		t.Fatalf("未知兵种应返回错误")
	}
}

func TestRosterOf_丢弃非正数量(t *testing.T) {
	r := rosterOf(map[string]int{"legionnaire": 3, "imperian": 0, "praetorian": -1})
	if len(r) != 1 || r[domain.UnitKind("legionnaire")] != 3 {
		t.Fatalf("roster 不符: %v", r)
	}
}

func TestBuildContainer_内存存储可完成一次结算(t *testing.T) {
	conf := serverconfig.Config{
		Storage: serverconfig.StorageConfig{Driver: serverconfig.DriverMemory, ReportStore: serverconfig.DriverMemory, NodeID: 3},
		Game:    serverconfig.DefaultGameConfig(),
	}
	c, err := buildContainer(context.Background(), conf, nil)
	if err != nil {
		t.Fatalf("buildContainer: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	id, err := c.commands.FoundVillage(ctx, app.FoundVillageCmd{PlayerID: 9, WorldID: 1, Name: "测试村"})
	if err != nil {
		t.Fatalf("FoundVillage: %v", err)
	}
	sum, err := c.tick.RunTick(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if sum.ResourcesUpdated == 0 {
		t.Fatalf("一小时后应有资源行被推进")
	}
	view, err := c.queries.Village(ctx, id)
	if err != nil {
		t.Fatalf("Village: %v", err)
	}
	if view.Village.Stock[domain.Wood].Amount <= 750 {
		t.Fatalf("一小时后木材应增长，得到 %v", view.Village.Stock[domain.Wood].Amount)
	}
}

func TestBuildContainer_未知驱动报错(t *testing.T) {
	conf := serverconfig.Config{
		Storage: serverconfig.StorageConfig{Driver: "sqlite", ReportStore: serverconfig.DriverMemory, NodeID: 1},
		Game:    serverconfig.DefaultGameConfig(),
	}
	if _, err := buildContainer(context.Background(), conf, nil); err == nil {
		t.Fatalf("未知存储驱动应报错")
	}
}

func TestBuildContainer_内存存储不能搭配mysql战报(t *testing.T) {
	conf := serverconfig.Config{
		Storage: serverconfig.StorageConfig{Driver: serverconfig.DriverMemory, ReportStore: serverconfig.DriverMySQL, NodeID: 1},
		Game:    serverconfig.DefaultGameConfig(),
	}
	if _, err := buildContainer(context.Background(), conf, nil); err == nil {
		t.Fatalf("应拒绝该组合")
	}
}
