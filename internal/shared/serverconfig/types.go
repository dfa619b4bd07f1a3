package serverconfig

import "time"

type Config struct {
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type MySQLConfig struct {
	Host          string        `yaml:"host" mapstructure:"host"`
	Port          int           `yaml:"port" mapstructure:"port"`
	User          string        `yaml:"user" mapstructure:"user"`
	Password      string        `yaml:"password" mapstructure:"password"`
	DBName        string        `yaml:"dbname" mapstructure:"dbname"`
	Charset       string        `yaml:"charset" mapstructure:"charset"`
	MaxIdle       int           `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn       int           `yaml:"max_conn" mapstructure:"max_conn"`
	SlowThreshold time.Duration `yaml:"slow_threshold" mapstructure:"slow_threshold"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type StorageConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`             // mysql / memory
	ReportStore string `yaml:"report_store" mapstructure:"report_store"` // mysql / mongo / memory
	AutoMigrate bool   `yaml:"auto_migrate" mapstructure:"auto_migrate"`
	NodeID      int64  `yaml:"node_id" mapstructure:"node_id"` // snowflake 节点号
}

type GameConfig struct {
	WorldID              int64         `yaml:"world_id" mapstructure:"world_id"`
	Speed                float64       `yaml:"speed" mapstructure:"speed"` // 世界速度倍率
	TickInterval         time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	TickTimeout          time.Duration `yaml:"tick_timeout" mapstructure:"tick_timeout"`
	BatchSize            int           `yaml:"batch_size" mapstructure:"batch_size"`
	Workers              int           `yaml:"workers" mapstructure:"workers"`
	LootFraction         float64       `yaml:"loot_fraction" mapstructure:"loot_fraction"`
	CancelRefundRatio    float64       `yaml:"cancel_refund_ratio" mapstructure:"cancel_refund_ratio"`
	MovementCancelWindow time.Duration `yaml:"movement_cancel_window" mapstructure:"movement_cancel_window"`
	VarianceMin          float64       `yaml:"variance_min" mapstructure:"variance_min"`
	VarianceMax          float64       `yaml:"variance_max" mapstructure:"variance_max"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
