package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀：VW_GAME_TICK_INTERVAL 覆盖 game.tick_interval。
const EnvPrefix = "VW"

var decodeHook = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	mapstructure.TextUnmarshallerHookFunc(),
))

// Watcher 持有已加载的 viper 实例，配置文件变更时重新解码到 out。
type Watcher struct {
	mu sync.Mutex
	v  *viper.Viper
}

// Load 读取 configPath 并解码到 out；watch=true 时监听文件变更并原地重新解码，
// 变更后调用 onChange（可为 nil）。
func Load(configPath string, out any, watch bool, onChange func()) (*Watcher, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}
	if err := v.Unmarshal(out, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config %q: %w", configPath, err)
	}

	w := &Watcher{v: v}
	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			w.mu.Lock()
			defer w.mu.Unlock()
			if err := v.Unmarshal(out, decodeHook); err != nil {
				log.Printf("config reload failed, keep previous values: file=%s err=%v", e.Name, err)
				return
			}
			log.Printf("config reloaded: file=%s op=%s", e.Name, e.Op)
			if onChange != nil {
				onChange()
			}
		})
		v.WatchConfig()
	}
	return w, nil
}

// LoadBytes 解码内嵌的配置数据（游戏数值表），configType 取值 json/yaml。
func LoadBytes(raw []byte, configType string, out any) error {
	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("read %s config: %w", configType, err)
	}
	if err := v.Unmarshal(out, decodeHook); err != nil {
		return fmt.Errorf("unmarshal %s config: %w", configType, err)
	}
	return nil
}
