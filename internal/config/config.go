package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 MARKET_API_BASE_URL
const EnvPrefix = "MARKET"

// Config 全局配置
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Client  ClientConfig  `mapstructure:"client"`
	Log     LogConfig     `mapstructure:"log"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
}

// APIConfig 远端接口
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Proxy     string        `mapstructure:"proxy"`
	Debug     bool          `mapstructure:"debug"`
	Token     string        `mapstructure:"token"`
}

// ClientConfig 展示层
type ClientConfig struct {
	LocalCurrency string `mapstructure:"local_currency"`
	FanOutLimit   int    `mapstructure:"fan_out_limit"`
	PerPage       int    `mapstructure:"per_page"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SandboxConfig 本地沙箱服务
type SandboxConfig struct {
	Port           string        `mapstructure:"port"`
	Driver         string        `mapstructure:"driver"` // sqlite / postgres
	DSN            string        `mapstructure:"dsn"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	StorageDir     string        `mapstructure:"storage_dir"`
	PublicBaseURL  string        `mapstructure:"public_base_url"`
	ReviewAfter    time.Duration `mapstructure:"review_after"`
	ReviewCron     string        `mapstructure:"review_cron"`
	Seed           bool          `mapstructure:"seed"`
	ReportCooldown time.Duration `mapstructure:"report_cooldown"`

	Storage StorageConfig `mapstructure:"storage"`
}

// StorageConfig 图片存储，provider 为 local 时使用 sandbox.storage_dir
type StorageConfig struct {
	Provider  string `mapstructure:"provider"` // local / s3
	Prefix    string `mapstructure:"prefix"`   // s3 key 前缀
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	CDNDomain string `mapstructure:"cdn_domain"`
}

var defaults = map[string]any{
	"api.base_url":   "http://localhost:8080/api",
	"api.timeout":    "20s",
	"api.user_agent": "Classifieds-Go-App/1.0",
	"api.proxy":      "",
	"api.debug":      false,
	"api.token":      "",

	"client.local_currency": "UGX",
	"client.fan_out_limit":  6,
	"client.per_page":       20,

	"log.level":       "info",
	"log.development": true,

	"sandbox.port":            "8080",
	"sandbox.driver":          "sqlite",
	"sandbox.dsn":             "file:sandbox.db?cache=shared",
	"sandbox.jwt_secret":      "dev-secret-change-me",
	"sandbox.token_ttl":       "24h",
	"sandbox.storage_dir":     "./storage",
	"sandbox.public_base_url": "http://localhost:8080",
	"sandbox.review_after":    "10m",
	"sandbox.review_cron":     "@every 1m",
	"sandbox.seed":            true,
	"sandbox.report_cooldown": "10m",

	"sandbox.storage.provider":   "local",
	"sandbox.storage.prefix":     "listings",
	"sandbox.storage.bucket":     "",
	"sandbox.storage.region":     "us-east-1",
	"sandbox.storage.endpoint":   "",
	"sandbox.storage.access_key": "",
	"sandbox.storage.secret_key": "",
	"sandbox.storage.cdn_domain": "",
}

// Load 加载配置
// 优先级: 环境变量 > 配置文件 > 默认值；.env 先于环境变量读取
// path 为空时在 . 和 ./configs 下查找 config.yaml，找不到不报错
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 基本校验
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url 不能为空")
	}
	if c.Client.FanOutLimit <= 0 {
		return fmt.Errorf("client.fan_out_limit 必须大于 0, 当前: %d", c.Client.FanOutLimit)
	}
	switch c.Sandbox.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("sandbox.driver 不支持: %s", c.Sandbox.Driver)
	}
	switch c.Sandbox.Storage.Provider {
	case "local":
	case "s3":
		if c.Sandbox.Storage.Bucket == "" {
			return errors.New("sandbox.storage.bucket 不能为空")
		}
	default:
		return fmt.Errorf("sandbox.storage.provider 不支持: %s", c.Sandbox.Storage.Provider)
	}
	return nil
}

// Addr 沙箱监听地址
func (c *SandboxConfig) Addr() string {
	return ":" + c.Port
}
