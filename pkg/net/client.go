package net

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientConfig 客户端网络配置
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	ProxyURL  string // 可选，开发环境抓包用
	Debug     bool
}

// NewClient 创建一个配置好 BaseURL、超时和代理的 Resty 客户端
// 它是全系统统一的网络请求入口
// 注意：不开启重试，失败由调用方捕获并提示一次
func NewClient(cfg ClientConfig) *resty.Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Classifieds-Go-App/1.0"
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetDebug(cfg.Debug).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	if cfg.ProxyURL != "" {
		client.SetProxy(cfg.ProxyURL)
	}

	return client
}
