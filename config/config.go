package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Console   ConsoleConfig   `mapstructure:"console"`
	Collector CollectorConfig `mapstructure:"collector"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Meter     MeterConfig     `mapstructure:"meter"`
	Log       LogConfig       `mapstructure:"log"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ConsoleConfig struct {
	Port    int  `mapstructure:"port"`
	Enabled bool `mapstructure:"enabled"`
}

type CollectorConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Enabled   bool          `mapstructure:"enabled"`
	Retention time.Duration `mapstructure:"retention"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

// StorageConfig selects where the session row and summary snapshots live.
// Driver is "sqlite" (Path) or "postgres" (DSN).
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type MeterConfig struct {
	Enabled   bool            `mapstructure:"enabled"`
	IP        string          `mapstructure:"ip"`
	Port      int             `mapstructure:"port"`
	SlaveID   uint8           `mapstructure:"slave_id"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Registers []MeterRegister `mapstructure:"registers"`
}

// MeterRegister maps a turbine to the input register pair holding its
// hourly energy counter. Scale converts the raw counter to MWh.
type MeterRegister struct {
	TurbineID int     `mapstructure:"turbine_id"`
	Address   uint16  `mapstructure:"address"`
	Scale     float64 `mapstructure:"scale"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ndphc-monitor")
	}

	v.SetEnvPrefix("NDPHC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("console.port", 8046)
	v.SetDefault("console.enabled", true)
	v.SetDefault("collector.interval", "5m")
	v.SetDefault("collector.enabled", true)
	v.SetDefault("collector.retention", "720h")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic_prefix", "ndphc")
	v.SetDefault("mqtt.client_id", "ndphc-monitor")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "./ndphc.db")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("meter.enabled", false)
	v.SetDefault("meter.port", 502)
	v.SetDefault("meter.slave_id", 1)
	v.SetDefault("meter.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)
}
