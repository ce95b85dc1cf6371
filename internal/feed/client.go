package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"MatchSync/internal/config"
	"MatchSync/internal/interfaces"
	"MatchSync/internal/model"
	"MatchSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client 上游比赛数据客户端（football-data.org 风格：联赛代码做路径段，
// dateFrom/dateTo 做查询参数，X-Auth-Token 静态认证）
type Client struct {
	cfg        *config.FeedConfig
	httpClient *http.Client
	policy     RetryPolicy
	logger     *logrus.Logger
}

func NewClient(cfg *config.FeedConfig, policy RetryPolicy, logger *logrus.Logger) interfaces.FeedSource {
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		policy:     policy,
		logger:     logger,
	}
}

// FetchMatches 拉取指定联赛与日期窗口的比赛列表。
// 瞬时错误按策略退避重试；认证失败立即返回 ErrAuthFailed 不重试
func (c *Client) FetchMatches(ctx context.Context, competitionCode, dateFrom, dateTo string) ([]model.FeedMatch, error) {
	var result model.FeedResponse
	err := c.policy.Do(ctx, func() error {
		return c.fetchOnce(ctx, competitionCode, dateFrom, dateTo, &result)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Infof("成功获取联赛 %s 比赛 %d 场", competitionCode, len(result.Matches))
	return result.Matches, nil
}

func (c *Client) fetchOnce(ctx context.Context, competitionCode, dateFrom, dateTo string, out *model.FeedResponse) error {
	url := fmt.Sprintf("%s/competitions/%s/matches", c.cfg.BaseURL, competitionCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.cfg.AuthToken)

	q := req.URL.Query()
	if dateFrom != "" {
		q.Set("dateFrom", dateFrom)
	}
	if dateTo != "" {
		q.Set("dateTo", dateTo)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求上游失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭上游响应体失败: %v", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (状态码 %d)", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warnf("上游限流（429），联赛 %s 等待重试", competitionCode)
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	case resp.StatusCode != http.StatusOK:
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析上游响应失败: %w", err)
	}
	return nil
}
