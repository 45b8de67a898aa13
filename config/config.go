package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Centrifugo  CentrifugoConfig  `mapstructure:"centrifugo"`
	Burst       BurstConfig       `mapstructure:"burst"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LeaderboardConfig 排行榜缓存
type LeaderboardConfig struct {
	TTL                time.Duration `mapstructure:"ttl"`
	DefaultLimit       int           `mapstructure:"default_limit"`
	MaxLimit           int           `mapstructure:"max_limit"`
	InvalidateOnRecalc bool          `mapstructure:"invalidate_on_recalc"`
}

// CentrifugoConfig 实时推送（Centrifugo HTTP API）
type CentrifugoConfig struct {
	Host        string        `mapstructure:"host"`
	APIKey      string        `mapstructure:"api_key"`
	Secret      string        `mapstructure:"secret"`
	Timeout     time.Duration `mapstructure:"timeout"`
	TokenExpire time.Duration `mapstructure:"token_expire"`
	Workers     int           `mapstructure:"workers"`
	QueueSize   int           `mapstructure:"queue_size"`
	RPS         float64       `mapstructure:"rps"`
}

// BurstConfig 按 IP 的提交频率限制，key 为周期（minute/hour/day）
type BurstConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Limits  map[string]int `mapstructure:"limits"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load 读取 config.yaml 并叠加 QA_ 前缀的环境变量
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Leaderboard.MaxLimit > 0 && cfg.Leaderboard.DefaultLimit > cfg.Leaderboard.MaxLimit {
		cfg.Leaderboard.DefaultLimit = cfg.Leaderboard.MaxLimit
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "qa.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 50)

	v.SetDefault("leaderboard.ttl", 30*time.Second)
	v.SetDefault("leaderboard.default_limit", 10)
	v.SetDefault("leaderboard.max_limit", 100)
	v.SetDefault("leaderboard.invalidate_on_recalc", false)

	v.SetDefault("centrifugo.timeout", 10*time.Second)
	v.SetDefault("centrifugo.token_expire", 30*time.Minute)
	v.SetDefault("centrifugo.workers", 4)
	v.SetDefault("centrifugo.queue_size", 10000)
	v.SetDefault("centrifugo.rps", 200.0)

	v.SetDefault("burst.enabled", true)
	v.SetDefault("burst.limits", map[string]int{"minute": 5, "hour": 60, "day": 300})

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expire", 7*24*time.Hour)

	v.SetDefault("tracing.service_name", "qa-forum")

	v.SetDefault("log.level", "info")
}
