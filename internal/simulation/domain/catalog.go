package domain

import (
	"VillageWars/internal/shared/gameconfig"
	"fmt"
	"sort"
	"time"
)

type BuildingEffect string

const (
	EffectNone       BuildingEffect = gameconfig.EffectNone
	EffectProduction BuildingEffect = gameconfig.EffectProduction
	EffectStorage    BuildingEffect = gameconfig.EffectStorage
	EffectDefense    BuildingEffect = gameconfig.EffectDefense
)

type UnitSpec struct {
	Kind            UnitKind
	Name            string
	Attack          float64
	DefenseInfantry float64
	DefenseCavalry  float64
	Speed           float64 // 格/小时
	Carry           float64
	Cost            Resources
	TrainTime       time.Duration
	Building        BuildingKind
	BuildingLevel   int
}

type BuildingLevel struct {
	Level      int
	Cost       Resources
	BuildTime  time.Duration
	Population int
	Value      float64
}

type BuildingSpec struct {
	Kind      BuildingKind
	Name      string
	Effect    BuildingEffect
	Resources []ResourceType
	Levels    []BuildingLevel
}

func (b BuildingSpec) MaxLevel() int {
	return len(b.Levels)
}

func (b BuildingSpec) Level(level int) (BuildingLevel, bool) {
	if level < 1 || level > len(b.Levels) {
		return BuildingLevel{}, false
	}
	return b.Levels[level-1], true
}

// Catalog 提供兵种与建筑数值。
type Catalog interface {
	Unit(kind UnitKind) (UnitSpec, bool)
	Building(kind BuildingKind) (BuildingSpec, bool)
	// BuildingSpecs 按类型名排序返回全部建筑。
	BuildingSpecs() []BuildingSpec
	BaseStorage() float64
}

// StaticCatalog 是从数值表构建的只读目录。
type StaticCatalog struct {
	units       map[UnitKind]UnitSpec
	buildings   map[BuildingKind]BuildingSpec
	baseStorage float64
}

func (c *StaticCatalog) Unit(kind UnitKind) (UnitSpec, bool) {
	u, ok := c.units[kind]
	return u, ok
}

func (c *StaticCatalog) Building(kind BuildingKind) (BuildingSpec, bool) {
	b, ok := c.buildings[kind]
	return b, ok
}

func (c *StaticCatalog) BuildingSpecs() []BuildingSpec {
	out := make([]BuildingSpec, 0, len(c.buildings))
	for _, b := range c.buildings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func (c *StaticCatalog) BaseStorage() float64 {
	return c.baseStorage
}

func costOf(c gameconfig.Cost) Resources {
	return NewResources(c.Wood, c.Clay, c.Iron, c.Crop)
}

// NewCatalog 把数值表转换为领域目录。
func NewCatalog(t *gameconfig.Tables) (*StaticCatalog, error) {
	if t == nil {
		return nil, fmt.Errorf("nil game tables")
	}
	c := &StaticCatalog{
		units:       make(map[UnitKind]UnitSpec, len(t.Units)),
		buildings:   make(map[BuildingKind]BuildingSpec, len(t.Buildings)),
		baseStorage: t.BaseStorage,
	}
	for kind, b := range t.Buildings {
		spec := BuildingSpec{
			Kind:   BuildingKind(kind),
			Name:   b.Name,
			Effect: BuildingEffect(b.Effect),
		}
		for _, name := range b.Resources {
			rt, err := ParseResourceType(name)
			if err != nil {
				return nil, fmt.Errorf("building %q: %w", kind, err)
			}
			spec.Resources = append(spec.Resources, rt)
		}
		for _, lv := range b.Levels {
			spec.Levels = append(spec.Levels, BuildingLevel{
				Level:      lv.Level,
				Cost:       costOf(lv.Cost),
				BuildTime:  time.Duration(lv.BuildSeconds) * time.Second,
				Population: lv.Population,
				Value:      lv.Value,
			})
		}
		c.buildings[spec.Kind] = spec
	}
	for kind, u := range t.Units {
		c.units[UnitKind(kind)] = UnitSpec{
			Kind:            UnitKind(kind),
			Name:            u.Name,
			Attack:          u.Attack,
			DefenseInfantry: u.DefenseInfantry,
			DefenseCavalry:  u.DefenseCavalry,
			Speed:           u.Speed,
			Carry:           u.Carry,
			Cost:            costOf(u.Cost),
			TrainTime:       time.Duration(u.TrainSeconds) * time.Second,
			Building:        BuildingKind(u.Building),
			BuildingLevel:   u.BuildingLevel,
		}
	}
	return c, nil
}

// NewCatalogFromSpecs 直接由规格构建目录，测试与模拟器使用。
func NewCatalogFromSpecs(baseStorage float64, units []UnitSpec, buildings []BuildingSpec) *StaticCatalog {
	c := &StaticCatalog{
		units:       make(map[UnitKind]UnitSpec, len(units)),
		buildings:   make(map[BuildingKind]BuildingSpec, len(buildings)),
		baseStorage: baseStorage,
	}
	for _, u := range units {
		c.units[u.Kind] = u
	}
	for _, b := range buildings {
		c.buildings[b.Kind] = b
	}
	return c
}
