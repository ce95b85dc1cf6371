package feed

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// StatusError 上游返回非 2xx 时的错误，携带状态码供重试判定
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("上游返回异常状态码 %d: %s", e.StatusCode, e.URL)
}

// ErrAuthFailed 认证/授权失败（401/403）。不重试，当前联赛摄取立即中止
var ErrAuthFailed = errors.New("上游认证失败，请检查 API Token")

// RetryPolicy 显式重试策略：次数上限、退避函数、可重试判定。
// 与HTTP调用解耦，可单独测试
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(err error) bool
}

// DefaultRetryPolicy 3次尝试，指数退避 2s/4s/8s，封顶10s。
// 网络瞬时错误与 5xx/429 重试；4xx（含认证失败）快速失败
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
		Retryable:   IsRetryable,
	}
}

// IsRetryable 判定错误是否值得重试
func IsRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		// 429 限流视为瞬时；5xx 视为瞬时；其余 4xx 快速失败
		return se.StatusCode == 429 || se.StatusCode >= 500
	}
	if errors.Is(err, ErrAuthFailed) {
		return false
	}
	// 传输层错误（连接重置、超时等）一律重试
	return true
}

// Delay 第 attempt 次失败后的退避时长（attempt 从 1 起），指数增长并封顶
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do 按策略执行 fn，全部失败时返回最后一次错误
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay(attempt)):
		}
	}
	return lastErr
}
