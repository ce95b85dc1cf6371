package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Feed     FeedConfig     `mapstructure:"feed"`     // 上游数据源配置
	Sync     SyncConfig     `mapstructure:"sync"`     // 摄取调度配置
	Resolver ResolverConfig `mapstructure:"resolver"` // 实体对齐配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// FeedConfig 上游数据源（football-data.org 风格 API）配置
type FeedConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	AuthToken  string `mapstructure:"auth_token"`  // 静态认证Token（X-Auth-Token）
	Timeout    int    `mapstructure:"timeout"`     // 单次请求超时（秒）
	RetryCount int    `mapstructure:"retry_count"` // 重试次数上限
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// SyncConfig 摄取调度配置
type SyncConfig struct {
	Leagues     []string `mapstructure:"leagues"`      // 要摄取的联赛代码列表
	DaysBack    int      `mapstructure:"days_back"`    // 增量回溯天数
	PaceSeconds int      `mapstructure:"pace_seconds"` // 联赛间隔秒数（上游限流要求）
}

// ResolverConfig 实体对齐配置。阈值未经精确率/召回率标定，先作为配置项暴露
type ResolverConfig struct {
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"` // 模糊匹配阈值（0-1）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("FEED_AUTH_TOKEN"); v != "" {
		cfg.Feed.AuthToken = v
	}
	if v := os.Getenv("FEED_PROXY"); v != "" {
		cfg.Feed.Proxy = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
}

// applyDefaults 未配置项的兜底值（与上游限流和对齐标定经验一致）
func applyDefaults(cfg *Config) {
	if cfg.Feed.Timeout <= 0 {
		cfg.Feed.Timeout = 30
	}
	if cfg.Feed.RetryCount <= 0 {
		cfg.Feed.RetryCount = 3
	}
	if cfg.Sync.DaysBack <= 0 {
		cfg.Sync.DaysBack = 7
	}
	if cfg.Sync.PaceSeconds <= 0 {
		cfg.Sync.PaceSeconds = 3
	}
	if len(cfg.Sync.Leagues) == 0 {
		cfg.Sync.Leagues = []string{"PL", "BL1", "PD", "SA", "FL1", "CL"}
	}
	if cfg.Resolver.FuzzyThreshold <= 0 || cfg.Resolver.FuzzyThreshold > 1 {
		cfg.Resolver.FuzzyThreshold = 0.85
	}
}
