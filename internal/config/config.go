package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	StaticDir string `mapstructure:"static_dir"`

	Transport  TransportConfig  `mapstructure:"transport"`
	WordSource WordSourceConfig `mapstructure:"word_source"`
	Game       GameConfig       `mapstructure:"game"`
}

type TransportConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	HeartbeatTimeout  time.Duration `mapstructure:"heartbeat_timeout"`
	// 等待语音中继 setup 消息的最长时间
	SetupTimeout time.Duration `mapstructure:"setup_timeout"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	InboundRate  float64       `mapstructure:"inbound_rate"`
	InboundBurst int           `mapstructure:"inbound_burst"`
}

type WordSourceConfig struct {
	// 为空时只使用内置词表
	Endpoint      string        `mapstructure:"endpoint"`
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

type GameConfig struct {
	MaxHintLength int `mapstructure:"max_hint_length"`
}

const (
	DefaultConfigFile = "app_config.json"
	envPrefix         = "PICTIONARY"
)

// InitConfig 读取工作目录下的 app_config.json，文件缺失时使用默认值和环境变量
func InitConfig() *AppConfig {
	c, err := LoadConfig(DefaultConfigFile)
	if err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	return c
}

func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("读取配置文件 %s: %w", path, err)
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_dir", "./web")

	v.SetDefault("transport.heartbeat_interval", 30*time.Second)
	v.SetDefault("transport.heartbeat_timeout", 45*time.Second)
	v.SetDefault("transport.setup_timeout", 10*time.Second)
	v.SetDefault("transport.send_buffer", 64)
	v.SetDefault("transport.inbound_rate", 120.0)
	v.SetDefault("transport.inbound_burst", 240)

	v.SetDefault("word_source.endpoint", "")
	v.SetDefault("word_source.api_key", "")
	v.SetDefault("word_source.model", "gpt-4o-mini")
	v.SetDefault("word_source.timeout", 4*time.Second)
	v.SetDefault("word_source.rate_per_second", 2.0)
	v.SetDefault("word_source.burst", 4)

	v.SetDefault("game.max_hint_length", 200)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
