package crawlers

import (
	"context"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/retry"
)

// defaultPollInterval 轮询等待的默认间隔
const defaultPollInterval = 500 * time.Millisecond

// settle 等待页面稳定
// poll模式下ready返回true即提前结束, 最长等待limit; sleep模式固定等待limit
// 返回true表示条件已满足(sleep模式下总是true)
func settle(ctx context.Context, cfg *models.CrawlConfig, limit time.Duration, ready func() bool) (bool, error) {
	if cfg.SettleMode == models.SettleSleep {
		return true, retry.Sleep(ctx, limit)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	deadline := time.Now().Add(limit)
	for {
		if ready() {
			return true, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, ctx.Err()
		}
		if remaining < interval {
			interval = remaining
		}
		if err := retry.Sleep(ctx, interval); err != nil {
			return false, err
		}
	}
}
