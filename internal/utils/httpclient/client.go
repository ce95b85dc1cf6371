package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"MatchSync/internal/config"

	"github.com/sirupsen/logrus"
)

// NewHTTPClient 上游数据源通用HTTP客户端（支持代理与按配置的超时）。
// 超时作用于单次请求，重试策略由 feed 包的 RetryPolicy 负责
func NewHTTPClient(cfg *config.FeedConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	return &http.Client{
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		Transport: transport,
	}
}
