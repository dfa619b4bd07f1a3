package gameconfig

import (
	"VillageWars/internal/shared/config"
	"embed"
	"fmt"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

const (
	unitFile     = "data/units.json"
	buildingFile = "data/buildings.json"
)

// 建筑效果类型
const (
	EffectNone       = "none"
	EffectProduction = "production" // 资源田：value 为每小时产量
	EffectStorage    = "storage"    // 仓库/粮仓：value 为容量
	EffectDefense    = "defense"    // 城墙：value 为防御加成比例
)

type Cost struct {
	Wood float64 `json:"wood" mapstructure:"wood"`
	Clay float64 `json:"clay" mapstructure:"clay"`
	Iron float64 `json:"iron" mapstructure:"iron"`
	Crop float64 `json:"crop" mapstructure:"crop"`
}

type Unit struct {
	Kind            string  `json:"kind" mapstructure:"kind"`
	Name            string  `json:"name" mapstructure:"name"`
	Class           string  `json:"class" mapstructure:"class"` // infantry / cavalry
	Attack          float64 `json:"attack" mapstructure:"attack"`
	DefenseInfantry float64 `json:"defense_infantry" mapstructure:"defense_infantry"`
	DefenseCavalry  float64 `json:"defense_cavalry" mapstructure:"defense_cavalry"`
	Speed           float64 `json:"speed" mapstructure:"speed"` // 格/小时
	Carry           float64 `json:"carry" mapstructure:"carry"`
	Cost            Cost    `json:"cost" mapstructure:"cost"`
	TrainSeconds    int     `json:"train_seconds" mapstructure:"train_seconds"`
	Building        string  `json:"building" mapstructure:"building"`
	BuildingLevel   int     `json:"building_level" mapstructure:"building_level"`
}

type Level struct {
	Level        int     `json:"level" mapstructure:"level"`
	Cost         Cost    `json:"cost" mapstructure:"cost"`
	BuildSeconds int     `json:"build_seconds" mapstructure:"build_seconds"`
	Population   int     `json:"population" mapstructure:"population"`
	Value        float64 `json:"value" mapstructure:"value"`
}

type Building struct {
	Kind      string   `json:"kind" mapstructure:"kind"`
	Name      string   `json:"name" mapstructure:"name"`
	Effect    string   `json:"effect" mapstructure:"effect"`
	Resources []string `json:"resources" mapstructure:"resources"`
	Levels    []Level  `json:"levels" mapstructure:"levels"`
}

// MaxLevel 返回最高等级，Levels 按 level 1..n 排列。
func (b Building) MaxLevel() int {
	return len(b.Levels)
}

// Level 返回第 level 级的数值，level 从 1 开始。
func (b Building) Level(level int) (Level, bool) {
	if level < 1 || level > len(b.Levels) {
		return Level{}, false
	}
	return b.Levels[level-1], true
}

type unitTable struct {
	Units []Unit `mapstructure:"units"`
}

type buildingTable struct {
	BaseStorage float64    `mapstructure:"base_storage"`
	Buildings   []Building `mapstructure:"buildings"`
}

// Tables 是只读的数值表，加载后不再修改。
type Tables struct {
	BaseStorage float64
	Units       map[string]Unit
	Buildings   map[string]Building
	unitOrder   []string
	buildOrder  []string
}

func (t *Tables) Unit(kind string) (Unit, bool) {
	u, ok := t.Units[kind]
	return u, ok
}

func (t *Tables) Building(kind string) (Building, bool) {
	b, ok := t.Buildings[kind]
	return b, ok
}

// UnitKinds 按配置文件顺序返回兵种。
func (t *Tables) UnitKinds() []string {
	return append([]string(nil), t.unitOrder...)
}

func (t *Tables) BuildingKinds() []string {
	return append([]string(nil), t.buildOrder...)
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default 加载内嵌数值表，进程内只解析一次。
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load()
	})
	return defaultTables, defaultErr
}

func Load() (*Tables, error) {
	rawUnits, err := dataFS.ReadFile(unitFile)
	if err != nil {
		return nil, err
	}
	rawBuildings, err := dataFS.ReadFile(buildingFile)
	if err != nil {
		return nil, err
	}
	return Parse(rawUnits, rawBuildings)
}

// Parse 解析 JSON 数值表并做基础校验。
func Parse(rawUnits, rawBuildings []byte) (*Tables, error) {
	var ut unitTable
	if err := config.LoadBytes(rawUnits, "json", &ut); err != nil {
		return nil, err
	}
	var bt buildingTable
	if err := config.LoadBytes(rawBuildings, "json", &bt); err != nil {
		return nil, err
	}

	t := &Tables{
		BaseStorage: bt.BaseStorage,
		Units:       make(map[string]Unit, len(ut.Units)),
		Buildings:   make(map[string]Building, len(bt.Buildings)),
	}
	if t.BaseStorage <= 0 {
		return nil, fmt.Errorf("gameconfig: base_storage must be positive")
	}

	for _, b := range bt.Buildings {
		if b.Kind == "" {
			return nil, fmt.Errorf("gameconfig: building kind is empty")
		}
		if _, dup := t.Buildings[b.Kind]; dup {
			return nil, fmt.Errorf("gameconfig: duplicate building %q", b.Kind)
		}
		switch b.Effect {
		case EffectNone, EffectProduction, EffectStorage, EffectDefense:
		default:
			return nil, fmt.Errorf("gameconfig: building %q has unknown effect %q", b.Kind, b.Effect)
		}
		for i, lv := range b.Levels {
			if lv.Level != i+1 {
				return nil, fmt.Errorf("gameconfig: building %q level %d out of order", b.Kind, lv.Level)
			}
			if lv.BuildSeconds <= 0 {
				return nil, fmt.Errorf("gameconfig: building %q level %d build_seconds must be positive", b.Kind, lv.Level)
			}
		}
		t.Buildings[b.Kind] = b
		t.buildOrder = append(t.buildOrder, b.Kind)
	}

	for _, u := range ut.Units {
		if u.Kind == "" {
			return nil, fmt.Errorf("gameconfig: unit kind is empty")
		}
		if _, dup := t.Units[u.Kind]; dup {
			return nil, fmt.Errorf("gameconfig: duplicate unit %q", u.Kind)
		}
		if u.Speed <= 0 || u.TrainSeconds <= 0 {
			return nil, fmt.Errorf("gameconfig: unit %q speed and train_seconds must be positive", u.Kind)
		}
		if u.Building != "" {
			if _, ok := t.Buildings[u.Building]; !ok {
				return nil, fmt.Errorf("gameconfig: unit %q requires unknown building %q", u.Kind, u.Building)
			}
		}
		t.Units[u.Kind] = u
		t.unitOrder = append(t.unitOrder, u.Kind)
	}
	return t, nil
}
